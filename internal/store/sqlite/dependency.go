package sqlite

import (
	"context"

	"github.com/tasktree/tasktree/internal/domain"
)

// DependencyRepository handles dependency edge persistence.
type DependencyRepository struct {
	db dbExecutor
}

// NewDependencyRepository creates a new DependencyRepository.
func NewDependencyRepository(db dbExecutor) *DependencyRepository {
	return &DependencyRepository{db: db}
}

// Add inserts an edge.
func (r *DependencyRepository) Add(ctx context.Context, dep domain.Dependency) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO dependencies (parent_id, child_id) VALUES (?, ?)",
		int64(dep.ParentID), int64(dep.ChildID),
	)
	return err
}

// DeleteAll removes every edge.
func (r *DependencyRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM dependencies")
	return err
}

// List returns every edge ordered by parent, then child.
func (r *DependencyRepository) List(ctx context.Context) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT parent_id, child_id FROM dependencies
		ORDER BY parent_id ASC, child_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []domain.Dependency
	for rows.Next() {
		var parent, child int64
		if err := rows.Scan(&parent, &child); err != nil {
			return nil, err
		}
		deps = append(deps, domain.NewDependency(domain.TaskID(parent), domain.TaskID(child)))
	}
	return deps, rows.Err()
}
