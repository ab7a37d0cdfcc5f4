package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

func newNewTaskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name> [description]",
		Short: "Create a task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}
			input := service.CreateTaskInput{Name: args[0]}
			if len(args) > 1 {
				input.Description = &args[1]
			}

			task, err := service.NewTaskService(a.engine).Create(cmd.Context(), project, a.actor(), input)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.out, task)
			}
			return a.printMessage("Created task %s with id %s.", task.Name, a.style.b(task.ID))
		},
	}
}

func newRemoveTaskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task and its dependency links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := domain.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			project, err := a.activeProject(ctx)
			if err != nil {
				return err
			}
			tasks := service.NewTaskService(a.engine)

			detail, err := tasks.Get(ctx, project, id)
			if err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Are you sure you want to remove the task '%s' from project %s", detail.Task.Repr(), project))
			if err != nil {
				return err
			}
			if !ok {
				return a.printMessage("Did not remove task %s.", a.style.b(id))
			}

			if _, err := tasks.Remove(ctx, project, a.actor(), id); err != nil {
				return err
			}
			return a.printMessage("Successfully removed task %s.", a.style.b(id))
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [status]",
		Short: "List tasks (default: available)",
		Long: `List the tasks of the current project matching a status flag:
available (default), all, open, in_progress or closed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := optionalSelector(args, 0, domain.SelectAvailable)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			tasks, err := service.NewQueryService(a.engine).Filter(cmd.Context(), project, sel)
			if err != nil {
				return err
			}
			return a.printTaskList(
				fmt.Sprintf("%s tasks in project %s:", a.style.b(sel), a.style.b(project)),
				fmt.Sprintf("No %s tasks in project %s.", a.style.b(sel), a.style.b(project)),
				tasks,
			)
		},
	}
}

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query> [status]",
		Short: "Search task names and descriptions (default: all)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := optionalSelector(args, 1, domain.SelectAll)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			query := args[0]
			tasks, err := service.NewQueryService(a.engine).Search(cmd.Context(), project, query, sel)
			if err != nil {
				return err
			}
			return a.printTaskList(
				fmt.Sprintf("%s tasks for query '%s' in project %s:", a.style.b(sel), a.style.b(query), a.style.b(project)),
				fmt.Sprintf("No %s tasks for query '%s' in project %s.", a.style.b(sel), a.style.b(query), a.style.b(project)),
				tasks,
			)
		},
	}
}

func newViewTaskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view-task <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			detail, err := service.NewTaskService(a.engine).Get(cmd.Context(), project, id)
			if err != nil {
				return err
			}
			return a.printTaskDetail(detail)
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <status>",
		Short: "Set a task's status (open, in_progress or closed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseTaskID(args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			change, err := service.NewStatusService(a.engine).SetStatus(cmd.Context(), project, a.actor(), id, status)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				if change.Available == nil {
					change.Available = []*domain.Task{}
				}
				return printJSON(a.out, change)
			}

			fmt.Fprintf(a.out, "Set task %s's status to %s.\n", a.style.b(id), a.style.b(status))
			if len(change.Available) > 0 {
				fmt.Fprintln(a.out, "Now available:")
				for _, task := range change.Available {
					fmt.Fprintf(a.out, "  %s\n", task.Repr())
				}
			}
			return nil
		},
	}
}
