package handler

import (
	"net/http"

	"github.com/tasktree/tasktree/internal/api/middleware"
	"github.com/tasktree/tasktree/internal/api/request"
	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

// StatusHandler handles status writes and availability checks.
type StatusHandler struct {
	status *service.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(status *service.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

// SetStatus handles PUT /tasks/{id}/status.
func (h *StatusHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req request.SetStatusRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	change, err := h.status.SetStatus(r.Context(),
		middleware.GetProject(r.Context()),
		middleware.GetActor(r.Context()),
		id, domain.TaskStatus(req.Status),
	)
	if err != nil {
		response.Error(w, err)
		return
	}
	change.Available = nonNil(change.Available)
	response.OK(w, change)
}

// Available handles GET /tasks/{id}/available.
func (h *StatusHandler) Available(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	ok, err := h.status.Available(r.Context(), middleware.GetProject(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"id": id, "available": ok})
}
