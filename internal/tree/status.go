package tree

import (
	"fmt"

	"github.com/tasktree/tasktree/internal/domain"
)

// SetStatus overwrites the status of a task. Every transition is allowed,
// including re-setting the current status. It returns the direct parents of
// id that are available after the write, ascending; grandparents are never
// reported.
func (t *Tree) SetStatus(id domain.TaskID, status domain.TaskStatus) ([]domain.TaskID, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError([]string{fmt.Sprintf("invalid status %q", status)})
	}
	task, err := t.registry.lookup(id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = t.now()

	var available []domain.TaskID
	for _, parent := range t.graph.parents[id].sorted() {
		if t.available(parent) {
			available = append(available, parent)
		}
	}
	return available, nil
}

// Available reports whether a task can be worked on: it is not closed and
// every task it depends on is closed.
func (t *Tree) Available(id domain.TaskID) (bool, error) {
	if _, err := t.registry.lookup(id); err != nil {
		return false, err
	}
	return t.available(id), nil
}

func (t *Tree) available(id domain.TaskID) bool {
	task := t.registry.tasks[id]
	if task.Status == domain.StatusClosed {
		return false
	}
	for child := range t.graph.children[id] {
		if t.registry.tasks[child].Status != domain.StatusClosed {
			return false
		}
	}
	return true
}

func (t *Tree) matches(task *domain.Task, sel domain.Selector) bool {
	switch sel {
	case domain.SelectAll:
		return true
	case domain.SelectAvailable:
		return t.available(task.ID)
	default:
		status, _ := sel.Status()
		return task.Status == status
	}
}
