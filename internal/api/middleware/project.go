package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
)

// ProjectKey is the context key for the project name.
const ProjectKey contextKey = "project"

// ProjectContext middleware validates the project name, checks that the
// project exists and injects its name into the request context.
func ProjectContext(projects *service.ProjectService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			project := chi.URLParam(r, "project")

			exists, err := projects.Exists(r.Context(), project)
			if err != nil {
				response.Error(w, err)
				return
			}
			if !exists {
				response.Error(w, domain.NewProjectNotFoundError(project))
				return
			}

			ctx := context.WithValue(r.Context(), ProjectKey, project)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProject retrieves the project name from context.
func GetProject(ctx context.Context) string {
	if project, ok := ctx.Value(ProjectKey).(string); ok {
		return project
	}
	return ""
}
