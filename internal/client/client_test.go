package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/tasktree/tasktree/internal/api"
	"github.com/tasktree/tasktree/internal/client"
	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/service"
	"github.com/tasktree/tasktree/internal/store"
)

// ClientSuite runs a real router over a temporary data directory.
type ClientSuite struct {
	suite.Suite
	manager *store.Manager
	server  *httptest.Server
	client  *client.Client
	ctx     context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.manager, err = store.NewManager(s.T().TempDir())
	s.Require().NoError(err)
	s.server = httptest.NewServer(api.NewRouter(service.NewEngine(s.manager, logger), logger))
	s.client = client.New(s.server.URL, client.WithActor("tester"))
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
	s.manager.Close()
}

func (s *ClientSuite) newProject(name string) {
	_, err := s.client.CreateProject(s.ctx, name, "", false)
	s.Require().NoError(err)
}

func (s *ClientSuite) newTasks(project string, names ...string) []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(names))
	for _, name := range names {
		task, err := s.client.CreateTask(s.ctx, project, name, nil)
		s.Require().NoError(err)
		ids = append(ids, task.ID)
	}
	return ids
}

func taskIDs(tasks []*domain.Task) []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func errorCode(err error) domain.ErrorCode {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func (s *ClientSuite) TestHealth() {
	s.NoError(s.client.Health(s.ctx))
}

func (s *ClientSuite) TestProjectLifecycle() {
	names, err := s.client.ListProjects(s.ctx)
	s.Require().NoError(err)
	s.Empty(names)

	project, err := s.client.CreateProject(s.ctx, "alpha", "first", false)
	s.Require().NoError(err)
	s.Equal("alpha", project.Name)

	_, err = s.client.CreateProject(s.ctx, "alpha", "", false)
	s.Equal(domain.ErrCodeProjectExists, errorCode(err))

	s.newTasks("alpha", "one")
	_, err = s.client.CreateProject(s.ctx, "alpha", "fresh", true)
	s.Require().NoError(err)
	summary, err := s.client.GetProject(s.ctx, "alpha")
	s.Require().NoError(err)
	s.Equal(0, summary.Tasks)

	s.Require().NoError(s.client.DeleteProject(s.ctx, "alpha"))
	_, err = s.client.GetProject(s.ctx, "alpha")
	s.Equal(domain.ErrCodeProjectNotFound, errorCode(err))
}

func (s *ClientSuite) TestWorkflow() {
	s.newProject("work")
	ids := s.newTasks("work", "release", "build", "test")
	release, build, test := ids[0], ids[1], ids[2]

	s.Require().NoError(s.client.AddDependencies(s.ctx, "work", release, build, test))

	available, err := s.client.ListTasks(s.ctx, "work", "")
	s.Require().NoError(err)
	s.Equal([]domain.TaskID{build, test}, taskIDs(available))

	ok, err := s.client.Available(s.ctx, "work", release)
	s.Require().NoError(err)
	s.False(ok)

	change, err := s.client.SetStatus(s.ctx, "work", build, domain.StatusClosed)
	s.Require().NoError(err)
	s.Empty(change.Available)

	change, err = s.client.SetStatus(s.ctx, "work", test, domain.StatusClosed)
	s.Require().NoError(err)
	s.Equal([]domain.TaskID{release}, taskIDs(change.Available))

	detail, err := s.client.GetTask(s.ctx, "work", release)
	s.Require().NoError(err)
	s.True(detail.Available)
	s.Equal([]domain.TaskID{build, test}, taskIDs(detail.Children))

	deps, err := s.client.ListDependencies(s.ctx, "work", release, domain.SelectClosed)
	s.Require().NoError(err)
	s.Len(deps, 2)

	found, err := s.client.SearchTasks(s.ctx, "work", "BUI", "")
	s.Require().NoError(err)
	s.Equal([]domain.TaskID{build}, taskIDs(found))
}

func (s *ClientSuite) TestInsertBetweenAndRemove() {
	s.newProject("chain")
	ids := s.newTasks("chain", "parent", "middle", "child")
	s.Require().NoError(s.client.AddDependencies(s.ctx, "chain", ids[0], ids[2]))

	s.Require().NoError(s.client.InsertBetween(s.ctx, "chain", ids[0], ids[1], ids[2]))
	detail, err := s.client.GetTask(s.ctx, "chain", ids[0])
	s.Require().NoError(err)
	s.Equal([]domain.TaskID{ids[1]}, taskIDs(detail.Children))

	err = s.client.RemoveDependency(s.ctx, "chain", ids[0], ids[2])
	s.Equal(domain.ErrCodeDependencyNotFound, errorCode(err))

	s.Require().NoError(s.client.RemoveDependency(s.ctx, "chain", ids[1], ids[2]))
	s.Require().NoError(s.client.DeleteTask(s.ctx, "chain", ids[2]))
	_, err = s.client.GetTask(s.ctx, "chain", ids[2])
	s.Equal(domain.ErrCodeTaskNotFound, errorCode(err))
}

func (s *ClientSuite) TestErrorsCarryContext() {
	s.newProject("errs")
	ids := s.newTasks("errs", "a", "b")
	s.Require().NoError(s.client.AddDependencies(s.ctx, "errs", ids[0], ids[1]))

	err := s.client.AddDependencies(s.ctx, "errs", ids[1], ids[0])
	var domainErr *domain.DomainError
	s.Require().ErrorAs(err, &domainErr)
	s.Equal(domain.ErrCodeCycleDetected, domainErr.Code)
	s.Equal([]interface{}{float64(2), float64(1), float64(2)}, domainErr.Context["path"])

	err = s.client.AddDependencies(s.ctx, "errs", ids[0], ids[0])
	s.Equal(domain.ErrCodeSelfDependency, errorCode(err))

	_, err = s.client.SetStatus(s.ctx, "errs", ids[0], "done")
	s.Equal(domain.ErrCodeValidationFailed, errorCode(err))

	_, err = s.client.SearchTasks(s.ctx, "errs", "", "")
	s.Equal(domain.ErrCodeValidationFailed, errorCode(err))
}

func (s *ClientSuite) TestProjectIsolation() {
	s.newProject("left")
	s.newProject("right")
	left := s.newTasks("left", "l1", "l2")
	right := s.newTasks("right", "r1")

	s.Equal([]domain.TaskID{1, 2}, left)
	s.Equal([]domain.TaskID{1}, right)

	_, err := s.client.SetStatus(s.ctx, "left", 1, domain.StatusClosed)
	s.Require().NoError(err)

	rightTasks, err := s.client.ListTasks(s.ctx, "right", domain.SelectAll)
	s.Require().NoError(err)
	s.Require().Len(rightTasks, 1)
	s.Equal("r1", rightTasks[0].Name)
	s.Equal(domain.StatusOpen, rightTasks[0].Status)

	_, err = s.client.GetTask(s.ctx, "right", 2)
	s.Equal(domain.ErrCodeTaskNotFound, errorCode(err))

	_, err = s.client.ListTasks(s.ctx, "missing", "")
	s.Equal(domain.ErrCodeProjectNotFound, errorCode(err))
}

func (s *ClientSuite) TestConcurrentCreatesGetDistinctIDs() {
	s.newProject("busy")
	const n = 20

	var wg sync.WaitGroup
	results := make(chan domain.TaskID, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := s.client.CreateTask(s.ctx, "busy", "task", nil)
			if err != nil {
				errs <- err
				return
			}
			results <- task.ID
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	var ids []int
	for id := range results {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	s.Require().Len(ids, n)
	for i, id := range ids {
		s.Equal(i+1, id)
	}
}

func (s *ClientSuite) TestConcurrentOppositeEdgesOneWins() {
	s.newProject("race")
	ids := s.newTasks("race", "a", "b")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	pairs := [][2]domain.TaskID{{ids[0], ids[1]}, {ids[1], ids[0]}}
	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, parent, child domain.TaskID) {
			defer wg.Done()
			errs[i] = s.client.AddDependencies(s.ctx, "race", parent, child)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			failures++
			s.Equal(domain.ErrCodeCycleDetected, errorCode(err))
		}
	}
	s.Equal(1, failures)
}

func (s *ClientSuite) TestAuditAndExport() {
	s.newProject("audit")
	ids := s.newTasks("audit", "a", "b")
	s.Require().NoError(s.client.AddDependencies(s.ctx, "audit", ids[0], ids[1]))

	history, err := s.client.History(s.ctx, "audit", ids[0])
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(domain.ActionAddDependency, history[0].Action)
	s.Equal("tester", history[0].ChangedBy)

	page, err := s.client.QueryAudit(s.ctx, "audit", url.Values{"action": {"create"}, "per_page": {"1"}})
	s.Require().NoError(err)
	s.Len(page.Data, 1)
	s.Equal(2, page.Pagination.Total)
	s.Equal(2, page.Pagination.TotalPages)

	raw, err := s.client.Export(s.ctx, "audit", service.FormatYAML)
	s.Require().NoError(err)
	var snapshot map[string]interface{}
	s.Require().NoError(yaml.Unmarshal(raw, &snapshot))
	s.Contains(snapshot, "tasks")

	_, err = s.client.Export(s.ctx, "audit", "xml")
	s.Equal(domain.ErrCodeValidationFailed, errorCode(err))
}

func TestServerNotRunning(t *testing.T) {
	srv := httptest.NewServer(nil)
	addr := srv.URL
	srv.Close()

	err := client.New(addr).Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrServerNotRunning)
}
