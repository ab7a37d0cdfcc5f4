// Package tree implements the per-project task dependency graph: a registry
// of tasks, the acyclic dependency relation between them, status changes
// with availability notification, and read-only queries.
//
// A Tree is a plain in-memory value owned by a single caller. It performs no
// I/O and no locking; loading, saving and serialising access across callers
// belong to the service layer.
package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/tasktree/tasktree/internal/domain"
)

// Tree is one project's task registry together with its dependency graph.
type Tree struct {
	registry *Registry
	graph    *Graph
	now      func() time.Time
}

// Option configures a Tree.
type Option func(*Tree)

// WithClock overrides the time source used for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) {
		t.now = now
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		registry: NewRegistry(),
		graph:    NewGraph(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Restore rebuilds a tree from persisted tasks and edges. It rejects state
// that would break the graph invariants: dangling or self edges, duplicate
// edges or task ids, cycles, and a counter that would reuse an id.
func Restore(nextID domain.TaskID, tasks []*domain.Task, edges []domain.Dependency, opts ...Option) (*Tree, error) {
	t := New(opts...)

	var details []string
	var maxID domain.TaskID
	for _, task := range tasks {
		switch {
		case task == nil:
			details = append(details, "nil task record")
			continue
		case task.ID < 1:
			details = append(details, fmt.Sprintf("task id %d is not positive", task.ID))
			continue
		case t.registry.Has(task.ID):
			details = append(details, fmt.Sprintf("task id %d appears twice", task.ID))
			continue
		case !task.Status.IsValid():
			details = append(details, fmt.Sprintf("task %d has invalid status %q", task.ID, task.Status))
			continue
		}
		t.registry.put(task.Clone())
		t.graph.addNode(task.ID)
		if task.ID > maxID {
			maxID = task.ID
		}
	}
	if nextID <= maxID {
		details = append(details, fmt.Sprintf("next id %d would reuse existing id %d", nextID, maxID))
	} else {
		t.registry.nextID = nextID
	}

	for _, edge := range edges {
		if err := t.graph.AddEdge(edge.ParentID, edge.ChildID); err != nil {
			details = append(details, fmt.Sprintf("edge %d->%d: %s", edge.ParentID, edge.ChildID, err))
		}
	}

	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}
	return t, nil
}

// Registry exposes the task registry.
func (t *Tree) Registry() *Registry {
	return t.registry
}

// Graph exposes the dependency graph.
func (t *Tree) Graph() *Graph {
	return t.graph
}

// NextID returns the identifier the next created task will receive.
func (t *Tree) NextID() domain.TaskID {
	return t.registry.NextID()
}

// CreateTask adds an open task with no dependencies.
func (t *Tree) CreateTask(name string, description *string) (*domain.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError([]string{"task name cannot be empty"})
	}

	task := domain.NewTask(t.registry.allocate(), name, t.now())
	if description != nil {
		task.SetDescription(*description)
	}
	t.registry.put(task)
	t.graph.addNode(task.ID)
	return task.Clone(), nil
}

// RemoveTask deletes a task. Every edge touching it is removed from both
// adjacency views before the record itself goes away.
func (t *Tree) RemoveTask(id domain.TaskID) error {
	if _, err := t.registry.lookup(id); err != nil {
		return err
	}
	t.graph.removeNode(id)
	t.registry.delete(id)
	return nil
}

// Task returns a copy of the task with the given id.
func (t *Tree) Task(id domain.TaskID) (*domain.Task, error) {
	return t.registry.Get(id)
}

// Tasks returns copies of every task in creation order.
func (t *Tree) Tasks() []*domain.Task {
	return t.registry.List()
}

// AddDependency records that parent depends on child.
func (t *Tree) AddDependency(parent, child domain.TaskID) error {
	return t.graph.AddEdge(parent, child)
}

// RemoveDependency deletes the dependency of parent on child.
func (t *Tree) RemoveDependency(parent, child domain.TaskID) error {
	return t.graph.RemoveEdge(parent, child)
}

// InsertBetween splits the dependency parent -> child into
// parent -> between -> child atomically.
func (t *Tree) InsertBetween(parent, between, child domain.TaskID) error {
	return t.graph.InsertBetween(parent, between, child)
}

// Children returns the direct dependencies of id.
func (t *Tree) Children(id domain.TaskID) ([]domain.TaskID, error) {
	return t.graph.Children(id)
}

// Parents returns the tasks depending directly on id.
func (t *Tree) Parents(id domain.TaskID) ([]domain.TaskID, error) {
	return t.graph.Parents(id)
}

// Edges returns every edge of the project.
func (t *Tree) Edges() []domain.Dependency {
	return t.graph.Edges()
}

// State snapshots the tree for persistence under the given project metadata.
func (t *Tree) State(project domain.Project) domain.ProjectState {
	return domain.ProjectState{
		Project:      project,
		NextID:       t.registry.NextID(),
		Tasks:        t.registry.List(),
		Dependencies: t.graph.Edges(),
	}
}

// Check verifies the graph invariants and that graph nodes and registry
// records name the same tasks.
func (t *Tree) Check() error {
	var details []string
	for id := range t.registry.tasks {
		if !t.graph.HasNode(id) {
			details = append(details, fmt.Sprintf("task %d missing from graph", id))
		}
	}
	for id := range t.graph.children {
		if !t.registry.Has(id) {
			details = append(details, fmt.Sprintf("graph node %d has no task record", id))
		}
	}
	if len(details) > 0 {
		return domain.NewValidationError(details)
	}
	return t.graph.Check()
}
