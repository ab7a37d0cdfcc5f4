package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasktree/tasktree/internal/config"
	"github.com/tasktree/tasktree/internal/service"
)

func newNewProjectCmd(a *app) *cobra.Command {
	var activate bool
	cmd := &cobra.Command{
		Use:   "new-project <name> [description]",
		Short: "Create a project",
		Long: `Create an empty project. If a project with the same name exists you are
asked whether to replace it; without a terminal pass --yes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projects := service.NewProjectService(a.engine)
			input := service.CreateProjectInput{Name: args[0]}
			if len(args) > 1 {
				input.Description = args[1]
			}

			exists, err := projects.Exists(ctx, input.Name)
			if err != nil {
				return err
			}
			if exists {
				ok, err := a.confirm(fmt.Sprintf("The project %s already exists. Delete it and replace it with a new one", input.Name))
				if err != nil {
					return err
				}
				if !ok {
					return a.printMessage("Did not create project %s.", input.Name)
				}
				input.Replace = true
			}

			project, err := projects.Create(ctx, input)
			if err != nil {
				return err
			}
			if activate {
				if err := config.SetActiveProject(a.fs, a.cfg.Home, project.Name); err != nil {
					return err
				}
			}
			if a.jsonOutput {
				return printJSON(a.out, project)
			}
			return a.printMessage("Successfully created project %s.", a.style.b(project.Name))
		},
	}
	cmd.Flags().BoolVar(&activate, "switch", false, "Make the new project the active project")
	return cmd
}

func newRemoveProjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-project <name>",
		Short: "Remove a project and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			projects := service.NewProjectService(a.engine)

			exists, err := projects.Exists(ctx, name)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("there is no project named %s: %w", name, config.ErrNoProject)
			}

			ok, err := a.confirm(fmt.Sprintf("Are you sure you want to delete the project %s? This cannot be undone", name))
			if err != nil {
				return err
			}
			if !ok {
				return a.printMessage("Did not remove project %s.", name)
			}
			if err := projects.Remove(ctx, name); err != nil {
				return err
			}
			if a.cfg.Global.ActiveProject == name {
				if err := config.SetActiveProject(a.fs, a.cfg.Home, ""); err != nil {
					return err
				}
			}
			return a.printMessage("Successfully removed project %s.", name)
		},
	}
}

func newListProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := service.NewProjectService(a.engine).List(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.out, names)
			}
			if len(names) == 0 {
				fmt.Fprintln(a.out, `No tasktree projects. Create one with "tasktree new-project".`)
				return nil
			}
			fmt.Fprintln(a.out, a.style.b(a.style.u("tasktree projects:")))
			for _, name := range names {
				marker := " "
				if name == a.cfg.Project {
					marker = "*"
				}
				fmt.Fprintf(a.out, "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func newViewProjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view-project",
		Short: "Summarise the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := service.NewProjectService(a.engine).Get(cmd.Context(), project)
			if err != nil {
				return err
			}
			return a.printProjectSummary(summary)
		},
	}
}

func newSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <name>",
		Short: "Set the active project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			exists, err := service.NewProjectService(a.engine).Exists(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("there is no project named %s: %w", name, config.ErrNoProject)
			}
			if err := config.SetActiveProject(a.fs, a.cfg.Home, name); err != nil {
				return err
			}
			return a.printMessage("Set %s as active project.", a.style.b(name))
		},
	}
}
