package service

import (
	"context"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/tree"
)

// StatusService handles status changes and availability.
type StatusService struct {
	engine *Engine
}

// NewStatusService creates a new StatusService.
func NewStatusService(engine *Engine) *StatusService {
	return &StatusService{engine: engine}
}

// StatusChange is the outcome of a status write.
type StatusChange struct {
	Task *domain.Task `json:"task" yaml:"task"`
	// Available holds the direct parents that are available after the write.
	Available []*domain.Task `json:"available" yaml:"available"`
}

// SetStatus overwrites the status of a task.
func (s *StatusService) SetStatus(ctx context.Context, project, actor string, id domain.TaskID, status domain.TaskStatus) (*StatusChange, error) {
	var change StatusChange
	err := s.engine.Update(ctx, project, actor, func(t *tree.Tree, rec *Recorder) error {
		before, err := t.Task(id)
		if err != nil {
			return err
		}
		parents, err := t.SetStatus(id, status)
		if err != nil {
			return err
		}
		rec.Change(id, domain.ActionSetStatus, "status", string(before.Status), string(status))

		if change.Task, err = t.Task(id); err != nil {
			return err
		}
		change.Available, err = tasksByID(t, parents)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &change, nil
}

// Available reports whether a task can be worked on now.
func (s *StatusService) Available(ctx context.Context, project string, id domain.TaskID) (bool, error) {
	var ok bool
	err := s.engine.View(ctx, project, func(t *tree.Tree, _ *domain.Project) error {
		var err error
		ok, err = t.Available(id)
		return err
	})
	return ok, err
}
