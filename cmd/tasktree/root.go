package main

import (
	"github.com/spf13/cobra"

	"github.com/tasktree/tasktree/internal/domain"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasktree",
		Short: "Track tasks as a tree of dependencies",
		Long: `tasktree keeps projects of tasks linked by dependencies. A task is
available when it is not closed and everything it depends on is closed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.jsonOutput, "json", false, "Output as JSON")
	flags.StringVarP(&a.project, "project", "p", "", "Project to operate on (overrides TASKTREE_PROJECT, tasktree.toml and the active project)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.BoolVarP(&a.yes, "yes", "y", false, "Answer yes to confirmation prompts")

	root.AddGroup(
		&cobra.Group{ID: "projects", Title: "Projects:"},
		&cobra.Group{ID: "tasks", Title: "Tasks:"},
		&cobra.Group{ID: "deps", Title: "Dependencies:"},
		&cobra.Group{ID: "other", Title: "Other:"},
	)
	for _, cmd := range []*cobra.Command{
		newNewProjectCmd(a), newRemoveProjectCmd(a), newListProjectsCmd(a),
		newViewProjectCmd(a), newSwitchCmd(a),
	} {
		cmd.GroupID = "projects"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newNewTaskCmd(a), newRemoveTaskCmd(a), newViewCmd(a), newFindCmd(a),
		newViewTaskCmd(a), newSetCmd(a),
	} {
		cmd.GroupID = "tasks"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newAddDepCmd(a), newAddDepBetweenCmd(a), newRemoveDepCmd(a), newViewDepsCmd(a),
	} {
		cmd.GroupID = "deps"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newHistoryCmd(a), newExportCmd(a), newServeCmd(a),
	} {
		cmd.GroupID = "other"
		root.AddCommand(cmd)
	}

	return root
}

// parseTaskIDs parses every argument as a task id.
func parseTaskIDs(args []string) ([]domain.TaskID, error) {
	ids := make([]domain.TaskID, 0, len(args))
	for _, arg := range args {
		id, err := domain.ParseTaskID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optionalSelector parses args[idx] as a selector, or returns def.
func optionalSelector(args []string, idx int, def domain.Selector) (domain.Selector, error) {
	if len(args) <= idx {
		return def, nil
	}
	return domain.ParseSelector(args[idx], def)
}
