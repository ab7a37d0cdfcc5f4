package service

import (
	"context"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/tree"
)

// TaskService handles task business logic.
type TaskService struct {
	engine *Engine
}

// NewTaskService creates a new TaskService.
func NewTaskService(engine *Engine) *TaskService {
	return &TaskService{engine: engine}
}

// CreateTaskInput contains the input for creating a task.
type CreateTaskInput struct {
	Name        string
	Description *string
}

// Create creates an open task with no dependencies.
func (s *TaskService) Create(ctx context.Context, project, actor string, input CreateTaskInput) (*domain.Task, error) {
	var created *domain.Task
	err := s.engine.Update(ctx, project, actor, func(t *tree.Tree, rec *Recorder) error {
		task, err := t.CreateTask(input.Name, input.Description)
		if err != nil {
			return err
		}
		rec.Change(task.ID, domain.ActionCreate, "name", "", task.Name)
		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Remove deletes a task and every dependency touching it.
func (s *TaskService) Remove(ctx context.Context, project, actor string, id domain.TaskID) (*domain.Task, error) {
	var removed *domain.Task
	err := s.engine.Update(ctx, project, actor, func(t *tree.Tree, rec *Recorder) error {
		task, err := t.Task(id)
		if err != nil {
			return err
		}
		parents, err := t.Parents(id)
		if err != nil {
			return err
		}
		children, err := t.Children(id)
		if err != nil {
			return err
		}
		if err := t.RemoveTask(id); err != nil {
			return err
		}

		for _, parent := range parents {
			rec.Change(parent, domain.ActionRemoveDependency, "child", id.String(), "")
		}
		for _, child := range children {
			rec.Change(id, domain.ActionRemoveDependency, "child", child.String(), "")
		}
		rec.Change(id, domain.ActionDelete, "name", task.Name, "")
		removed = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// TaskDetail is a task together with its direct neighbourhood.
type TaskDetail struct {
	Task      *domain.Task   `json:"task" yaml:"task"`
	Available bool           `json:"available" yaml:"available"`
	Children  []*domain.Task `json:"children" yaml:"children"`
	Parents   []*domain.Task `json:"parents" yaml:"parents"`
}

// Get returns a task with its direct dependencies and dependents.
func (s *TaskService) Get(ctx context.Context, project string, id domain.TaskID) (*TaskDetail, error) {
	var detail TaskDetail
	err := s.engine.View(ctx, project, func(t *tree.Tree, _ *domain.Project) error {
		task, err := t.Task(id)
		if err != nil {
			return err
		}
		detail.Task = task

		if detail.Available, err = t.Available(id); err != nil {
			return err
		}

		children, err := t.Children(id)
		if err != nil {
			return err
		}
		parents, err := t.Parents(id)
		if err != nil {
			return err
		}
		if detail.Children, err = tasksByID(t, children); err != nil {
			return err
		}
		detail.Parents, err = tasksByID(t, parents)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func tasksByID(t *tree.Tree, ids []domain.TaskID) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		task, err := t.Task(id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
