package service

import (
	"context"
	"time"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/store/sqlite"
	"github.com/tasktree/tasktree/internal/tree"
)

// AuditService handles audit log queries.
type AuditService struct {
	engine *Engine
}

// NewAuditService creates a new AuditService.
func NewAuditService(engine *Engine) *AuditService {
	return &AuditService{engine: engine}
}

// History returns the audit history of a task, newest first. History of a
// removed task is still returned; a task that never existed is not found.
func (s *AuditService) History(ctx context.Context, project string, id domain.TaskID) ([]*domain.AuditEntry, error) {
	store, err := s.engine.manager.Open(project)
	if err != nil {
		return nil, asError(err)
	}
	entries, err := store.Audit().ListByTaskID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	if len(entries) == 0 {
		err := s.engine.View(ctx, project, func(t *tree.Tree, _ *domain.Project) error {
			_, err := t.Task(id)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// QueryInput contains the input for querying the audit log.
type QueryInput struct {
	TaskID      *domain.TaskID
	Action      *domain.AuditAction
	Actor       *string
	OperationID *string
	StartTime   *time.Time
	EndTime     *time.Time
	Page        int
	PerPage     int
}

// Query queries the audit log with filters.
func (s *AuditService) Query(ctx context.Context, project string, input QueryInput) ([]*domain.AuditEntry, int, error) {
	if input.Action != nil && !input.Action.IsValid() {
		return nil, 0, domain.NewValidationError([]string{"invalid action: " + string(*input.Action)})
	}

	store, err := s.engine.manager.Open(project)
	if err != nil {
		return nil, 0, asError(err)
	}
	entries, total, err := store.Audit().Query(ctx, sqlite.AuditQueryParams{
		TaskID:      input.TaskID,
		Action:      input.Action,
		Actor:       input.Actor,
		OperationID: input.OperationID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Page:        input.Page,
		PerPage:     input.PerPage,
	})
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return entries, total, nil
}
