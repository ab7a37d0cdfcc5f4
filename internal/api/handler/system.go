// Package handler implements the HTTP handlers of the tasktree API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktree/tasktree/internal/api/request"
	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/service"
)

// SystemHandler handles health and project-level operations.
type SystemHandler struct {
	projects *service.ProjectService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(projects *service.ProjectService) *SystemHandler {
	return &SystemHandler{projects: projects}
}

// Health handles GET /v1/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// ListProjects handles GET /v1/projects.
func (h *SystemHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, projects)
}

// CreateProject handles POST /v1/projects.
func (h *SystemHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProjectRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	project, err := h.projects.Create(r.Context(), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Replace:     req.Replace,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, project)
}

// GetProject handles GET /v1/projects/{project}.
func (h *SystemHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	summary, err := h.projects.Get(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, summary)
}

// DeleteProject handles DELETE /v1/projects/{project}.
func (h *SystemHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Remove(r.Context(), chi.URLParam(r, "project")); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
