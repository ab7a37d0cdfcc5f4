// Package sqlite implements project persistence on top of one SQLite
// database per project.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tasktree/tasktree/internal/domain"
)

// timeFormat keeps sub-second precision so timestamps survive a round trip.
const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

// dbExecutor is an interface for database operations that works with both *sql.DB and *sql.Tx
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store gives access to one project's database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open, migrated project database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Project returns the project repository bound to the database.
func (s *Store) Project() *ProjectRepository {
	return NewProjectRepository(s.db)
}

// Tasks returns the task repository bound to the database.
func (s *Store) Tasks() *TaskRepository {
	return NewTaskRepository(s.db)
}

// Dependencies returns the dependency repository bound to the database.
func (s *Store) Dependencies() *DependencyRepository {
	return NewDependencyRepository(s.db)
}

// Audit returns the audit repository bound to the database.
func (s *Store) Audit() *AuditRepository {
	return NewAuditRepository(s.db)
}

// Tx is the set of repositories bound to one transaction.
type Tx struct {
	Project      *ProjectRepository
	Tasks        *TaskRepository
	Dependencies *DependencyRepository
	Audit        *AuditRepository
}

// WithTx executes a function within a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	repos := &Tx{
		Project:      NewProjectRepository(tx),
		Tasks:        NewTaskRepository(tx),
		Dependencies: NewDependencyRepository(tx),
		Audit:        NewAuditRepository(tx),
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Init writes the metadata row of a freshly created project.
func (s *Store) Init(ctx context.Context, project domain.Project) error {
	return s.Project().Init(ctx, project)
}

// Load reads the complete persisted state of the project.
func (s *Store) Load(ctx context.Context) (*domain.ProjectState, error) {
	var state domain.ProjectState
	err := s.WithTx(ctx, func(tx *Tx) error {
		project, nextID, err := tx.Project.Get(ctx)
		if err != nil {
			return err
		}
		tasks, err := tx.Tasks.List(ctx)
		if err != nil {
			return err
		}
		deps, err := tx.Dependencies.List(ctx)
		if err != nil {
			return err
		}
		state = domain.ProjectState{
			Project:      *project,
			NextID:       nextID,
			Tasks:        tasks,
			Dependencies: deps,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Save replaces the persisted tasks and dependencies with state, stores the
// id counter and appends the audit entries. Everything is written in one
// transaction.
func (s *Store) Save(ctx context.Context, state *domain.ProjectState, entries []domain.AuditEntry) error {
	return s.WithTx(ctx, func(tx *Tx) error {
		if err := tx.Dependencies.DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Tasks.ReplaceAll(ctx, state.Tasks); err != nil {
			return err
		}
		for _, dep := range state.Dependencies {
			if err := tx.Dependencies.Add(ctx, dep); err != nil {
				return err
			}
		}
		if err := tx.Project.Update(ctx, state.Project, state.NextID); err != nil {
			return err
		}
		for i := range entries {
			if err := tx.Audit.Log(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
