package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktree/tasktree/internal/api/middleware"
	"github.com/tasktree/tasktree/internal/api/response"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
	"github.com/tasktree/tasktree/internal/store"
)

func TestRecovery_PanicReturns500(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong!")
	})

	var logs bytes.Buffer
	handler := middleware.Recovery(slog.New(slog.NewTextHandler(&logs, nil)))(panicHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestActorHeader_Extracted(t *testing.T) {
	var actor string
	handler := middleware.Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = middleware.GetActor(r.Context())
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(middleware.ActorHeader, "dana@laptop:/src/app")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "dana@laptop:/src/app", actor)
}

func TestActorHeader_DefaultsToAnonymous(t *testing.T) {
	var actor string
	handler := middleware.Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = middleware.GetActor(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, middleware.DefaultActor, actor)
}

func TestLogging_CapturesStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/v1/things", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Contains(t, logs.String(), "status=418")
	assert.Contains(t, logs.String(), "path=/v1/things")
}

func TestProjectContext(t *testing.T) {
	manager, err := store.NewManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	projects := service.NewProjectService(service.NewEngine(manager, nil))
	_, err = projects.Create(t.Context(), service.CreateProjectInput{Name: "alpha"})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/p/{project}", func(r chi.Router) {
		r.Use(middleware.ProjectContext(projects))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(middleware.GetProject(r.Context())))
		})
	})

	tests := []struct {
		name   string
		path   string
		status int
		code   domain.ErrorCode
	}{
		{"existing", "/p/alpha/", http.StatusOK, ""},
		{"missing", "/p/beta/", http.StatusNotFound, domain.ErrCodeProjectNotFound},
		{"invalid name", "/p/bad%20name/", http.StatusBadRequest, domain.ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			if tt.code == "" {
				assert.Equal(t, "alpha", rr.Body.String())
				return
			}
			var resp response.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, string(tt.code), resp.Error.Code)
		})
	}
}
