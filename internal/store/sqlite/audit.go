package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tasktree/tasktree/internal/domain"
)

// AuditRepository handles audit log persistence operations.
type AuditRepository struct {
	db dbExecutor
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db dbExecutor) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log creates an audit log entry and sets its ID.
func (r *AuditRepository) Log(ctx context.Context, entry *domain.AuditEntry) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (operation_id, task_id, action, field, old_value, new_value, changed_at, changed_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.OperationID,
		int64(entry.TaskID),
		string(entry.Action),
		entry.Field,
		entry.OldValue,
		entry.NewValue,
		formatTime(entry.ChangedAt),
		entry.ChangedBy,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// ListByTaskID returns all audit entries for a task, newest first.
func (r *AuditRepository) ListByTaskID(ctx context.Context, taskID domain.TaskID) ([]*domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, operation_id, task_id, action, field, old_value, new_value, changed_at, changed_by
		FROM audit_log
		WHERE task_id = ?
		ORDER BY id DESC
	`, int64(taskID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// AuditQueryParams contains parameters for querying the audit log.
type AuditQueryParams struct {
	TaskID      *domain.TaskID
	Action      *domain.AuditAction
	Actor       *string
	OperationID *string
	StartTime   *time.Time
	EndTime     *time.Time
	Page        int
	PerPage     int
}

// Query queries the audit log with filters and pagination, newest first.
func (r *AuditRepository) Query(ctx context.Context, params AuditQueryParams) ([]*domain.AuditEntry, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 50
	}
	offset := (params.Page - 1) * params.PerPage

	baseQuery := "FROM audit_log WHERE 1=1"
	args := []interface{}{}

	if params.TaskID != nil {
		baseQuery += " AND task_id = ?"
		args = append(args, int64(*params.TaskID))
	}
	if params.Action != nil {
		baseQuery += " AND action = ?"
		args = append(args, string(*params.Action))
	}
	if params.Actor != nil {
		baseQuery += " AND changed_by = ?"
		args = append(args, *params.Actor)
	}
	if params.OperationID != nil {
		baseQuery += " AND operation_id = ?"
		args = append(args, *params.OperationID)
	}
	if params.StartTime != nil {
		baseQuery += " AND changed_at >= ?"
		args = append(args, formatTime(*params.StartTime))
	}
	if params.EndTime != nil {
		baseQuery += " AND changed_at <= ?"
		args = append(args, formatTime(*params.EndTime))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectQuery := "SELECT id, operation_id, task_id, action, field, old_value, new_value, changed_at, changed_by " + baseQuery
	selectQuery += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, params.PerPage, offset)

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func scanEntries(rows *sql.Rows) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var taskID int64
		var action, changedAt string
		var field, oldValue, newValue sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.OperationID,
			&taskID,
			&action,
			&field,
			&oldValue,
			&newValue,
			&changedAt,
			&entry.ChangedBy,
		)
		if err != nil {
			return nil, err
		}

		entry.TaskID = domain.TaskID(taskID)
		entry.Action = domain.AuditAction(action)
		if field.Valid {
			entry.Field = &field.String
		}
		if oldValue.Valid {
			entry.OldValue = &oldValue.String
		}
		if newValue.Valid {
			entry.NewValue = &newValue.String
		}
		entry.ChangedAt = parseTime(changedAt)

		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
