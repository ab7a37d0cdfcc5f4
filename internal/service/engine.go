// Package service runs engine operations against persisted projects: each
// call loads a project's tree, applies one operation and saves the result
// together with its audit trail.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/store"
	"github.com/tasktree/tasktree/internal/store/sqlite"
	"github.com/tasktree/tasktree/internal/tree"
)

// Engine serialises load-operate-save cycles per project.
type Engine struct {
	manager *store.Manager
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an Engine over the given store manager.
func NewEngine(manager *store.Manager, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		manager: manager,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		locks:   make(map[string]*sync.Mutex),
	}
}

// Manager returns the underlying store manager.
func (e *Engine) Manager() *store.Manager {
	return e.manager
}

func (e *Engine) lock(project string) func() {
	e.mu.Lock()
	l, ok := e.locks[project]
	if !ok {
		l = &sync.Mutex{}
		e.locks[project] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// asError turns any failure into a DomainError, keeping domain errors as they are.
func asError(err error) error {
	if err == nil {
		return nil
	}
	return domain.AsDomainError(err)
}

func (e *Engine) load(ctx context.Context, project string) (*sqlite.Store, *domain.ProjectState, *tree.Tree, error) {
	s, err := e.manager.Open(project)
	if err != nil {
		return nil, nil, nil, asError(err)
	}
	state, err := s.Load(ctx)
	if err != nil {
		return nil, nil, nil, domain.NewInternalError(err)
	}
	t, err := tree.Restore(state.NextID, state.Tasks, state.Dependencies, tree.WithClock(e.now))
	if err != nil {
		return nil, nil, nil, domain.NewInternalError(fmt.Errorf("project %s holds an invalid graph: %w", project, err))
	}
	return s, state, t, nil
}

// View runs fn against a read-only snapshot of the project.
func (e *Engine) View(ctx context.Context, project string, fn func(*tree.Tree, *domain.Project) error) error {
	unlock := e.lock(project)
	defer unlock()

	_, state, t, err := e.load(ctx, project)
	if err != nil {
		return err
	}
	return asError(fn(t, &state.Project))
}

// Update runs fn against the project's tree and saves the resulting state
// with the audit entries fn recorded. When fn fails nothing is written.
func (e *Engine) Update(ctx context.Context, project, actor string, fn func(*tree.Tree, *Recorder) error) error {
	unlock := e.lock(project)
	defer unlock()

	s, state, t, err := e.load(ctx, project)
	if err != nil {
		return err
	}

	rec := newRecorder(actor, e.now())
	log := e.logger.With("project", project, "actor", rec.actor, "operation_id", rec.OperationID())

	if err := fn(t, rec); err != nil {
		log.Debug("operation rejected", "error", err)
		return asError(err)
	}
	entries := rec.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := t.State(state.Project)
	next.Project.UpdatedAt = rec.now
	if err := s.Save(ctx, &next, entries); err != nil {
		log.Error("failed to save project", "error", err)
		return domain.NewInternalError(err)
	}
	log.Debug("operation applied", "entries", len(entries))
	return nil
}

// Recorder collects the audit entries of one Update call. All of them share
// an operation id.
type Recorder struct {
	operationID string
	actor       string
	now         time.Time
	entries     []domain.AuditEntry
}

func newRecorder(actor string, now time.Time) *Recorder {
	if actor == "" {
		actor = "anonymous"
	}
	return &Recorder{
		operationID: uuid.NewString(),
		actor:       actor,
		now:         now,
	}
}

// OperationID returns the id shared by the recorded entries.
func (r *Recorder) OperationID() string {
	return r.operationID
}

// Record appends an entry built by the caller.
func (r *Recorder) Record(entry domain.AuditEntry) {
	entry.OperationID = r.operationID
	entry.ChangedBy = r.actor
	entry.ChangedAt = r.now
	r.entries = append(r.entries, entry)
}

// Action records an action on a task without field details.
func (r *Recorder) Action(taskID domain.TaskID, action domain.AuditAction) {
	r.Record(domain.AuditEntry{TaskID: taskID, Action: action})
}

// Change records a field change on a task. Empty values are left unset.
func (r *Recorder) Change(taskID domain.TaskID, action domain.AuditAction, field, oldValue, newValue string) {
	entry := domain.AuditEntry{TaskID: taskID, Action: action}.WithField(field)
	if oldValue != "" {
		entry = entry.WithOldValue(oldValue)
	}
	if newValue != "" {
		entry = entry.WithNewValue(newValue)
	}
	r.Record(entry)
}

// Entries returns the recorded entries.
func (r *Recorder) Entries() []domain.AuditEntry {
	return r.entries
}
