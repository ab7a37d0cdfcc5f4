package request

import (
	"net/http"
	"time"

	"github.com/tasktree/tasktree/internal/domain"
)

// CreateProjectRequest represents a request to create a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description"`
	Replace     bool   `json:"replace"`
}

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Name        string  `json:"name" validate:"nonempty"`
	Description *string `json:"description,omitempty"`
}

// SetStatusRequest represents a request to overwrite a task status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress closed"`
}

// AddDependencyRequest represents a request to make a task depend on others.
type AddDependencyRequest struct {
	Children []int64 `json:"children" validate:"required,min=1,dive,gt=0"`
}

// ChildIDs returns the requested children as task ids.
func (r *AddDependencyRequest) ChildIDs() []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(r.Children))
	for _, c := range r.Children {
		ids = append(ids, domain.TaskID(c))
	}
	return ids
}

// InsertBetweenRequest represents a request to split an edge with a task.
type InsertBetweenRequest struct {
	Between int64 `json:"between" validate:"required,gt=0"`
}

// AuditQueryParams contains query parameters for audit log queries.
type AuditQueryParams struct {
	TaskID      *domain.TaskID
	Action      *domain.AuditAction
	Actor       *string
	OperationID *string
	StartTime   *time.Time
	EndTime     *time.Time
}

// ParseAuditQuery extracts audit query parameters from the request.
func ParseAuditQuery(r *http.Request) (AuditQueryParams, error) {
	params := AuditQueryParams{}
	q := r.URL.Query()

	if task := q.Get("task"); task != "" {
		id, err := domain.ParseTaskID(task)
		if err != nil {
			return params, err
		}
		params.TaskID = &id
	}

	if action := q.Get("action"); action != "" {
		a := domain.AuditAction(action)
		params.Action = &a
	}

	if actor := q.Get("actor"); actor != "" {
		params.Actor = &actor
	}

	if op := q.Get("operation"); op != "" {
		params.OperationID = &op
	}

	if startStr := q.Get("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return params, domain.NewValidationError([]string{"start must be an RFC3339 timestamp"})
		}
		params.StartTime = &t
	}

	if endStr := q.Get("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return params, domain.NewValidationError([]string{"end must be an RFC3339 timestamp"})
		}
		params.EndTime = &t
	}

	return params, nil
}
