// Package api wires the HTTP routes of the tasktree server.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasktree/tasktree/internal/api/handler"
	"github.com/tasktree/tasktree/internal/api/middleware"
	"github.com/tasktree/tasktree/internal/service"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(engine *service.Engine, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Actor)

	projects := service.NewProjectService(engine)

	systemHandler := handler.NewSystemHandler(projects)
	taskHandler := handler.NewTaskHandler(service.NewTaskService(engine), service.NewQueryService(engine))
	statusHandler := handler.NewStatusHandler(service.NewStatusService(engine))
	dependencyHandler := handler.NewDependencyHandler(service.NewDependencyService(engine))
	auditHandler := handler.NewAuditHandler(service.NewAuditService(engine), service.NewExportService(engine))

	// System routes (no project context needed)
	r.Get("/v1/health", systemHandler.Health)
	r.Get("/v1/projects", systemHandler.ListProjects)
	r.Post("/v1/projects", systemHandler.CreateProject)

	// Project-scoped routes
	r.Route("/v1/projects/{project}", func(r chi.Router) {
		r.Use(middleware.ProjectContext(projects))

		r.Get("/", systemHandler.GetProject)
		r.Delete("/", systemHandler.DeleteProject)

		// Tasks
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/search", taskHandler.SearchTasks)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Status
		r.Put("/tasks/{id}/status", statusHandler.SetStatus)
		r.Get("/tasks/{id}/available", statusHandler.Available)

		// Dependencies
		r.Get("/tasks/{id}/deps", dependencyHandler.ListDependencies)
		r.Post("/tasks/{id}/deps", dependencyHandler.AddDependency)
		r.Delete("/tasks/{id}/deps/{childID}", dependencyHandler.RemoveDependency)
		r.Post("/tasks/{id}/deps/{childID}/insert", dependencyHandler.InsertBetween)

		// Audit and export
		r.Get("/tasks/{id}/history", auditHandler.GetTaskHistory)
		r.Get("/audit", auditHandler.QueryAuditLog)
		r.Get("/export", auditHandler.Export)
	})

	return r
}
