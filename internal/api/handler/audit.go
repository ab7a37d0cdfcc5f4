package handler

import (
	"net/http"

	"github.com/tasktree/tasktree/internal/api/middleware"
	"github.com/tasktree/tasktree/internal/api/request"
	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

// AuditHandler handles audit log queries and project export.
type AuditHandler struct {
	audit  *service.AuditService
	export *service.ExportService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit *service.AuditService, export *service.ExportService) *AuditHandler {
	return &AuditHandler{audit: audit, export: export}
}

// GetTaskHistory handles GET /tasks/{id}/history.
func (h *AuditHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	entries, err := h.audit.History(r.Context(), middleware.GetProject(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	response.OK(w, entries)
}

// QueryAuditLog handles GET /audit.
func (h *AuditHandler) QueryAuditLog(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	params, err := request.ParseAuditQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	entries, total, err := h.audit.Query(r.Context(), middleware.GetProject(r.Context()), service.QueryInput{
		TaskID:      params.TaskID,
		Action:      params.Action,
		Actor:       params.Actor,
		OperationID: params.OperationID,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Page:        pagination.Page,
		PerPage:     pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	response.Paginated(w, entries, pagination.Page, pagination.PerPage, total)
}

// Export handles GET /export?format=.
func (h *AuditHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := service.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.Error(w, err)
		return
	}

	data, err := h.export.Export(r.Context(), middleware.GetProject(r.Context()), format)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Raw(w, format.ContentType(), data)
}
