package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

const timeLayout = "2006-01-02 15:04:05"

// styles renders emphasis only when out is a color-capable terminal.
type styles struct {
	bold      lipgloss.Style
	underline lipgloss.Style
}

func newStyles(out io.Writer) *styles {
	r := lipgloss.NewRenderer(out)
	return &styles{
		bold:      r.NewStyle().Bold(true),
		underline: r.NewStyle().Underline(true),
	}
}

func (s *styles) b(v any) string {
	return s.bold.Render(fmt.Sprint(v))
}

func (s *styles) u(v any) string {
	return s.underline.Render(fmt.Sprint(v))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		body := map[string]interface{}{"message": err.Error()}
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			body["code"] = domainErr.Code
			if len(domainErr.Context) > 0 {
				body["context"] = domainErr.Context
			}
		}
		printJSON(w, map[string]interface{}{"error": body})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
	if details, ok := domain.AsDomainError(err).Context["details"].([]string); ok {
		for _, d := range details {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
}

// printMessage prints a confirmation line, or {"message": ...} with --json.
func (a *app) printMessage(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if a.jsonOutput {
		return printJSON(a.out, map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(a.out, msg)
	return err
}

// printTaskList prints a heading followed by one task repr per line.
func (a *app) printTaskList(heading, empty string, tasks []*domain.Task) error {
	if a.jsonOutput {
		if tasks == nil {
			tasks = []*domain.Task{}
		}
		return printJSON(a.out, tasks)
	}
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(a.out, empty)
		return err
	}
	fmt.Fprintln(a.out, heading)
	for _, task := range tasks {
		fmt.Fprintln(a.out, task.Repr())
	}
	return nil
}

func (a *app) printTaskDetail(detail *service.TaskDetail) error {
	if a.jsonOutput {
		return printJSON(a.out, detail)
	}

	task := detail.Task
	fmt.Fprintln(a.out, a.style.u("Task Info"))
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("name"), task.Name)
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("id"), a.style.b(task.ID))
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("status"), a.style.b(task.Status))
	fmt.Fprintf(tw, "%s:\t%t\n", a.style.b("available"), detail.Available)
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("created"), task.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("updated"), task.UpdatedAt.Local().Format(timeLayout))
	if desc := task.DescriptionText(); desc != "" {
		fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("description"), desc)
	}
	tw.Flush()

	printNeighbours(a.out, a.style.b("depends on"), detail.Children)
	printNeighbours(a.out, a.style.b("needed by"), detail.Parents)
	return nil
}

func printNeighbours(w io.Writer, label string, tasks []*domain.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, t := range tasks {
		fmt.Fprintf(w, "  %s\n", t.Repr())
	}
}

func (a *app) printProjectSummary(summary *service.ProjectSummary) error {
	if a.jsonOutput {
		return printJSON(a.out, summary)
	}

	p := summary.Project
	fmt.Fprintln(a.out, a.style.u("Project Info"))
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("name"), p.Name)
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("created"), p.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("modified"), p.UpdatedAt.Local().Format(timeLayout))
	fmt.Fprintf(tw, "%s:\t%s\n", a.style.b("description"), p.Description)
	fmt.Fprintf(tw, "%s:\t%d (%d available, %d open, %d in progress, %d closed)\n",
		a.style.b("tasks"),
		summary.Tasks,
		summary.Available,
		summary.ByStatus[domain.StatusOpen],
		summary.ByStatus[domain.StatusInProgress],
		summary.ByStatus[domain.StatusClosed],
	)
	fmt.Fprintf(tw, "%s:\t%d\n", a.style.b("dependencies"), summary.Dependencies)
	return tw.Flush()
}

// printHistory prints audit entries, newest first.
func (a *app) printHistory(entries []*domain.AuditEntry) error {
	if a.jsonOutput {
		if entries == nil {
			entries = []*domain.AuditEntry{}
		}
		return printJSON(a.out, entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(a.out, "No history found")
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TIME\tTASK\tACTION\tFIELD\tOLD\tNEW\tBY\n")
	fmt.Fprintf(tw, "----\t----\t------\t-----\t---\t---\t--\n")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			entry.ChangedAt.Local().Format(timeLayout),
			entry.TaskID,
			entry.Action,
			deref(entry.Field),
			truncate(deref(entry.OldValue), 20),
			truncate(deref(entry.NewValue), 20),
			truncate(entry.ChangedBy, 30))
	}
	return tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
