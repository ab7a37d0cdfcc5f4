package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

func newAddDepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-dep <id> <dependency-id>...",
		Short: "Make a task depend on one or more tasks",
		Long: `Make task <id> depend on each <dependency-id>. Either every dependency is
added or none is; a dependency that would close a cycle is rejected with
the path it would create.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseTaskIDs(args)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			parent, children := ids[0], ids[1:]
			if err := service.NewDependencyService(a.engine).Add(cmd.Context(), project, a.actor(), parent, children...); err != nil {
				return err
			}

			names := make([]string, len(children))
			for i, id := range children {
				names[i] = a.style.b(id)
			}
			if len(children) == 1 {
				return a.printMessage("Added task %s as a dependency for task %s.", names[0], a.style.b(parent))
			}
			return a.printMessage("Added tasks %s as dependencies for task %s.", strings.Join(names, " "), a.style.b(parent))
		},
	}
}

func newAddDepBetweenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-dep-btwn <id> <between-id> <dependency-id>",
		Short: "Insert a task into an existing dependency",
		Long: `Replace the dependency of <id> on <dependency-id> with <id> depending on
<between-id> and <between-id> depending on <dependency-id>.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseTaskIDs(args)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			parent, between, child := ids[0], ids[1], ids[2]
			err = service.NewDependencyService(a.engine).InsertBetween(cmd.Context(), project, a.actor(), parent, between, child)
			if err != nil {
				return err
			}
			return a.printMessage("Added task %s between %s and %s.", a.style.b(between), a.style.b(parent), a.style.b(child))
		},
	}
}

func newRemoveDepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-dep <id> <dependency-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseTaskIDs(args)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			if err := service.NewDependencyService(a.engine).Remove(cmd.Context(), project, a.actor(), ids[0], ids[1]); err != nil {
				return err
			}
			return a.printMessage("Removed dependency of task %s on task %s.", a.style.b(ids[0]), a.style.b(ids[1]))
		},
	}
}

func newViewDepsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view-deps <id> [status]",
		Short: "List everything a task transitively depends on (default: available)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			sel, err := optionalSelector(args, 1, domain.SelectAvailable)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			tasks, err := service.NewDependencyService(a.engine).List(cmd.Context(), project, id, sel)
			if err != nil {
				return err
			}
			return a.printTaskList(
				fmt.Sprintf("%s dependencies for task %s:", a.style.b(sel), a.style.b(id)),
				fmt.Sprintf("No %s dependencies for task %s.", a.style.b(sel), a.style.b(id)),
				tasks,
			)
		},
	}
}
