package service

import (
	"context"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/tree"
)

// QueryService answers read-only task queries.
type QueryService struct {
	engine *Engine
}

// NewQueryService creates a new QueryService.
func NewQueryService(engine *Engine) *QueryService {
	return &QueryService{engine: engine}
}

// Filter lists the tasks matching the selector; empty means available.
func (s *QueryService) Filter(ctx context.Context, project string, sel domain.Selector) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.engine.View(ctx, project, func(t *tree.Tree, _ *domain.Project) error {
		var err error
		tasks, err = t.Filter(sel)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Search lists the tasks whose name or description contains query; an empty
// selector means all.
func (s *QueryService) Search(ctx context.Context, project, query string, sel domain.Selector) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.engine.View(ctx, project, func(t *tree.Tree, _ *domain.Project) error {
		var err error
		tasks, err = t.Search(query, sel)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
