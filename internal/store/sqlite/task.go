package sqlite

import (
	"context"
	"database/sql"

	"github.com/tasktree/tasktree/internal/domain"
)

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db dbExecutor
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db dbExecutor) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		int64(task.ID),
		task.Name,
		task.Description,
		string(task.Status),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	return err
}

// ReplaceAll deletes every task and inserts the given ones. Dependencies
// referencing removed tasks are dropped by the foreign key cascade.
func (r *TaskRepository) ReplaceAll(ctx context.Context, tasks []*domain.Task) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return err
	}
	for _, task := range tasks {
		if err := r.Create(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// List returns every task in creation order.
func (r *TaskRepository) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM tasks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		var id int64
		var description sql.NullString
		var status, createdAt, updatedAt string

		if err := rows.Scan(&id, &task.Name, &description, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		task.ID = domain.TaskID(id)
		task.Status = domain.TaskStatus(status)
		if description.Valid {
			task.Description = &description.String
		}
		task.CreatedAt = parseTime(createdAt)
		task.UpdatedAt = parseTime(updatedAt)
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

// CountByStatus returns the number of tasks per status.
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.TaskStatus(status)] = n
	}
	return counts, rows.Err()
}
