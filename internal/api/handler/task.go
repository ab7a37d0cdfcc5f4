package handler

import (
	"net/http"

	"github.com/tasktree/tasktree/internal/api/middleware"
	"github.com/tasktree/tasktree/internal/api/request"
	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

// TaskHandler handles task operations and queries.
type TaskHandler struct {
	tasks *service.TaskService
	query *service.QueryService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, query *service.QueryService) *TaskHandler {
	return &TaskHandler{tasks: tasks, query: query}
}

func nonNil(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if err := request.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	task, err := h.tasks.Create(r.Context(),
		middleware.GetProject(r.Context()),
		middleware.GetActor(r.Context()),
		service.CreateTaskInput{Name: req.Name, Description: req.Description},
	)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, task)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	detail, err := h.tasks.Get(r.Context(), middleware.GetProject(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, detail)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := request.TaskID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	_, err = h.tasks.Remove(r.Context(), middleware.GetProject(r.Context()), middleware.GetActor(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// ListTasks handles GET /tasks?select=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	sel, err := request.Selector(r, domain.SelectAvailable)
	if err != nil {
		response.Error(w, err)
		return
	}

	tasks, err := h.query.Filter(r.Context(), middleware.GetProject(r.Context()), sel)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, nonNil(tasks))
}

// SearchTasks handles GET /tasks/search?q=&select=.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	sel, err := request.Selector(r, domain.SelectAll)
	if err != nil {
		response.Error(w, err)
		return
	}

	tasks, err := h.query.Search(r.Context(), middleware.GetProject(r.Context()), r.URL.Query().Get("q"), sel)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, nonNil(tasks))
}
