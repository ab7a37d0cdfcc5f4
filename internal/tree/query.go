package tree

import (
	"fmt"
	"strings"

	"github.com/tasktree/tasktree/internal/domain"
)

func checkSelector(sel domain.Selector) error {
	if !sel.IsValid() {
		return domain.NewValidationError([]string{fmt.Sprintf("invalid selector %q", sel)})
	}
	return nil
}

// Filter returns the tasks matching the selector in creation order. An empty
// selector means available.
func (t *Tree) Filter(sel domain.Selector) ([]*domain.Task, error) {
	if sel == "" {
		sel = domain.SelectAvailable
	}
	if err := checkSelector(sel); err != nil {
		return nil, err
	}

	var result []*domain.Task
	for _, id := range t.registry.ids() {
		task := t.registry.tasks[id]
		if t.matches(task, sel) {
			result = append(result, task.Clone())
		}
	}
	return result, nil
}

// Search returns the tasks whose name or description contains query,
// ignoring case, narrowed by the selector. An empty selector means all.
func (t *Tree) Search(query string, sel domain.Selector) ([]*domain.Task, error) {
	if query == "" {
		return nil, domain.NewValidationError([]string{"search query cannot be empty"})
	}
	if sel == "" {
		sel = domain.SelectAll
	}
	if err := checkSelector(sel); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var result []*domain.Task
	for _, id := range t.registry.ids() {
		task := t.registry.tasks[id]
		if !t.matches(task, sel) {
			continue
		}
		if strings.Contains(strings.ToLower(task.Name), needle) ||
			strings.Contains(strings.ToLower(task.DescriptionText()), needle) {
			result = append(result, task.Clone())
		}
	}
	return result, nil
}

// Dependencies returns the transitive dependencies of id matching the
// selector, in creation order. An empty selector means available, which
// yields the actionable tasks beneath id.
func (t *Tree) Dependencies(id domain.TaskID, sel domain.Selector) ([]*domain.Task, error) {
	if sel == "" {
		sel = domain.SelectAvailable
	}
	if err := checkSelector(sel); err != nil {
		return nil, err
	}
	ids, err := t.graph.Descendants(id)
	if err != nil {
		return nil, err
	}

	var result []*domain.Task
	for _, d := range ids {
		task := t.registry.tasks[d]
		if t.matches(task, sel) {
			result = append(result, task.Clone())
		}
	}
	return result, nil
}
