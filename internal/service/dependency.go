package service

import (
	"context"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/tree"
)

// DependencyService handles dependency edge operations.
type DependencyService struct {
	engine *Engine
}

// NewDependencyService creates a new DependencyService.
func NewDependencyService(engine *Engine) *DependencyService {
	return &DependencyService{engine: engine}
}

// Add makes parent depend on each of children. Either every edge is added or,
// on the first rejected edge, none is.
func (s *DependencyService) Add(ctx context.Context, project, actor string, parent domain.TaskID, children ...domain.TaskID) error {
	if len(children) == 0 {
		return domain.NewValidationError([]string{"at least one dependency is required"})
	}
	return s.engine.Update(ctx, project, actor, func(t *tree.Tree, rec *Recorder) error {
		for _, child := range children {
			if err := t.AddDependency(parent, child); err != nil {
				return err
			}
			rec.Change(parent, domain.ActionAddDependency, "child", "", child.String())
		}
		return nil
	})
}

// Remove deletes the dependency of parent on child.
func (s *DependencyService) Remove(ctx context.Context, project, actor string, parent, child domain.TaskID) error {
	return s.engine.Update(ctx, project, actor, func(t *tree.Tree, rec *Recorder) error {
		if err := t.RemoveDependency(parent, child); err != nil {
			return err
		}
		rec.Change(parent, domain.ActionRemoveDependency, "child", child.String(), "")
		return nil
	})
}

// InsertBetween replaces parent -> child with parent -> between -> child.
func (s *DependencyService) InsertBetween(ctx context.Context, project, actor string, parent, between, child domain.TaskID) error {
	return s.engine.Update(ctx, project, actor, func(t *tree.Tree, rec *Recorder) error {
		if err := t.InsertBetween(parent, between, child); err != nil {
			return err
		}
		rec.Change(parent, domain.ActionInsertBetween, "child", child.String(), between.String())
		rec.Change(between, domain.ActionAddDependency, "child", "", child.String())
		return nil
	})
}

// List returns the transitive dependencies of id narrowed by the selector.
func (s *DependencyService) List(ctx context.Context, project string, id domain.TaskID, sel domain.Selector) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.engine.View(ctx, project, func(t *tree.Tree, _ *domain.Project) error {
		var err error
		tasks, err = t.Dependencies(id, sel)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
