package tree

import (
	"github.com/tasktree/tasktree/internal/domain"
)

// Registry owns the task records of a project and hands out identifiers.
type Registry struct {
	nextID domain.TaskID
	tasks  map[domain.TaskID]*domain.Task
}

// NewRegistry creates an empty registry whose first id is 1.
func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		tasks:  make(map[domain.TaskID]*domain.Task),
	}
}

// NextID returns the identifier the next created task will receive.
func (r *Registry) NextID() domain.TaskID {
	return r.nextID
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Has reports whether id names a task.
func (r *Registry) Has(id domain.TaskID) bool {
	_, ok := r.tasks[id]
	return ok
}

func (r *Registry) allocate() domain.TaskID {
	id := r.nextID
	r.nextID++
	return id
}

func (r *Registry) put(task *domain.Task) {
	r.tasks[task.ID] = task
	if task.ID >= r.nextID {
		r.nextID = task.ID + 1
	}
}

func (r *Registry) lookup(id domain.TaskID) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.NewTaskNotFoundError(id)
	}
	return task, nil
}

func (r *Registry) delete(id domain.TaskID) {
	delete(r.tasks, id)
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(id domain.TaskID) (*domain.Task, error) {
	task, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return task.Clone(), nil
}

// ids returns every task id in creation order. IDs are allocated
// monotonically, so creation order is ascending id order.
func (r *Registry) ids() []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// List returns copies of every task in creation order.
func (r *Registry) List() []*domain.Task {
	ids := r.ids()
	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, r.tasks[id].Clone())
	}
	return tasks
}
