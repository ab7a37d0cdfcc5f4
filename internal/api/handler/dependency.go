package handler

import (
	"net/http"

	"github.com/tasktree/tasktree/internal/api/middleware"
	"github.com/tasktree/tasktree/internal/api/request"
	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

// DependencyHandler handles dependency edges.
type DependencyHandler struct {
	deps *service.DependencyService
}

// NewDependencyHandler creates a new DependencyHandler.
func NewDependencyHandler(deps *service.DependencyService) *DependencyHandler {
	return &DependencyHandler{deps: deps}
}

// ListDependencies handles GET /tasks/{id}/deps?select=.
func (h *DependencyHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	sel, err := request.Selector(r, domain.SelectAvailable)
	if err != nil {
		response.Error(w, err)
		return
	}

	tasks, err := h.deps.List(r.Context(), middleware.GetProject(r.Context()), id, sel)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, nonNil(tasks))
}

// AddDependency handles POST /tasks/{id}/deps.
func (h *DependencyHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req request.AddDependencyRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	err = h.deps.Add(r.Context(), middleware.GetProject(r.Context()), middleware.GetActor(r.Context()), id, req.ChildIDs()...)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// RemoveDependency handles DELETE /tasks/{id}/deps/{childID}.
func (h *DependencyHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	child, err := request.TaskID(r, "childID")
	if err != nil {
		response.Error(w, err)
		return
	}

	err = h.deps.Remove(r.Context(), middleware.GetProject(r.Context()), middleware.GetActor(r.Context()), id, child)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// InsertBetween handles POST /tasks/{id}/deps/{childID}/insert.
func (h *DependencyHandler) InsertBetween(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	child, err := request.TaskID(r, "childID")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req request.InsertBetweenRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	err = h.deps.InsertBetween(r.Context(),
		middleware.GetProject(r.Context()),
		middleware.GetActor(r.Context()),
		id, domain.TaskID(req.Between), child,
	)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
