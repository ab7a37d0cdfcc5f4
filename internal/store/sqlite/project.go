package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tasktree/tasktree/internal/domain"
)

// ProjectRepository handles the project metadata row.
type ProjectRepository struct {
	db dbExecutor
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db dbExecutor) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Init inserts the metadata row with an id counter of 1.
func (r *ProjectRepository) Init(ctx context.Context, project domain.Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project (id, name, description, next_id, created_at, updated_at)
		VALUES (1, ?, ?, 1, ?, ?)
	`,
		project.Name,
		project.Description,
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
	)
	return err
}

// Get returns the project metadata and the next task id.
func (r *ProjectRepository) Get(ctx context.Context) (*domain.Project, domain.TaskID, error) {
	var project domain.Project
	var nextID int64
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, `
		SELECT name, description, next_id, created_at, updated_at
		FROM project WHERE id = 1
	`).Scan(&project.Name, &project.Description, &nextID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("project metadata missing")
	}
	if err != nil {
		return nil, 0, err
	}

	project.CreatedAt = parseTime(createdAt)
	project.UpdatedAt = parseTime(updatedAt)
	return &project, domain.TaskID(nextID), nil
}

// Update stores the metadata and the id counter.
func (r *ProjectRepository) Update(ctx context.Context, project domain.Project, nextID domain.TaskID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE project SET description = ?, next_id = ?, updated_at = ?
		WHERE id = 1
	`,
		project.Description,
		int64(nextID),
		formatTime(project.UpdatedAt),
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project metadata missing")
	}
	return nil
}
