package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		actor   string
		action  string
		page    int
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show the change history of a task or of the whole project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}
			audit := service.NewAuditService(a.engine)

			if len(args) == 1 && actor == "" && action == "" {
				id, err := domain.ParseTaskID(args[0])
				if err != nil {
					return err
				}
				entries, err := audit.History(cmd.Context(), project, id)
				if err != nil {
					return err
				}
				return a.printHistory(entries)
			}

			input := service.QueryInput{Page: page, PerPage: perPage}
			if len(args) == 1 {
				id, err := domain.ParseTaskID(args[0])
				if err != nil {
					return err
				}
				input.TaskID = &id
			}
			if actor != "" {
				input.Actor = &actor
			}
			if action != "" {
				act := domain.AuditAction(action)
				input.Action = &act
			}
			entries, total, err := audit.Query(cmd.Context(), project, input)
			if err != nil {
				return err
			}
			if err := a.printHistory(entries); err != nil {
				return err
			}
			if !a.jsonOutput && total > len(entries) {
				fmt.Fprintf(a.out, "\nShowing %d of %d entries (page %d)\n", len(entries), total, page)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Only changes made by this actor")
	cmd.Flags().StringVar(&action, "action", "", "Only this action (create, delete, set_status, add_dependency, remove_dependency, insert_between)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "Entries per page")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the project as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			project, err := a.activeProject(cmd.Context())
			if err != nil {
				return err
			}

			data, err := service.NewExportService(a.engine).Export(cmd.Context(), project, f)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = a.out.Write(data)
				return err
			}
			if err := afero.WriteFile(a.fs, output, data, 0o644); err != nil {
				return err
			}
			a.logger.Info("exported", "project", project, "format", f, "file", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
