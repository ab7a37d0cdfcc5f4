package service

import (
	"context"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/tree"
)

// ProjectService handles project lifecycle operations.
type ProjectService struct {
	engine *Engine
}

// NewProjectService creates a new ProjectService.
func NewProjectService(engine *Engine) *ProjectService {
	return &ProjectService{engine: engine}
}

// CreateProjectInput contains the input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	// Replace deletes an existing project of the same name first.
	Replace bool
}

// Create creates an empty project.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	if err := domain.ValidateProjectName(input.Name); err != nil {
		return nil, err
	}

	unlock := s.engine.lock(input.Name)
	defer unlock()

	if input.Replace {
		err := s.engine.manager.Remove(input.Name)
		if err != nil && !domain.HasCode(err, domain.ErrCodeProjectNotFound) {
			return nil, asError(err)
		}
	}

	now := s.engine.now()
	project := domain.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.engine.manager.Create(ctx, project); err != nil {
		return nil, asError(err)
	}
	s.engine.logger.Info("project created", "project", input.Name, "replaced", input.Replace)
	return &project, nil
}

// Remove deletes a project and everything in it.
func (s *ProjectService) Remove(ctx context.Context, name string) error {
	unlock := s.engine.lock(name)
	defer unlock()

	if err := s.engine.manager.Remove(name); err != nil {
		return asError(err)
	}
	s.engine.logger.Info("project removed", "project", name)
	return nil
}

// Exists reports whether a project exists.
func (s *ProjectService) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.engine.manager.Exists(name)
	return ok, asError(err)
}

// List returns the names of every project, sorted.
func (s *ProjectService) List(ctx context.Context) ([]string, error) {
	projects, err := s.engine.manager.List()
	if err != nil {
		return nil, asError(err)
	}
	return projects, nil
}

// ProjectSummary describes a project and the shape of its task set.
type ProjectSummary struct {
	Project      domain.Project            `json:"project" yaml:"project"`
	NextID       domain.TaskID             `json:"next_id" yaml:"next_id"`
	Tasks        int                       `json:"tasks" yaml:"tasks"`
	Dependencies int                       `json:"dependencies" yaml:"dependencies"`
	Available    int                       `json:"available" yaml:"available"`
	ByStatus     map[domain.TaskStatus]int `json:"by_status" yaml:"by_status"`
}

// Get returns the project metadata with task counts.
func (s *ProjectService) Get(ctx context.Context, name string) (*ProjectSummary, error) {
	var summary ProjectSummary
	err := s.engine.View(ctx, name, func(t *tree.Tree, project *domain.Project) error {
		summary.Project = *project
		summary.NextID = t.NextID()
		summary.ByStatus = make(map[domain.TaskStatus]int, len(domain.ValidStatuses))
		for _, status := range domain.ValidStatuses {
			summary.ByStatus[status] = 0
		}
		for _, task := range t.Tasks() {
			summary.Tasks++
			summary.ByStatus[task.Status]++
		}
		summary.Dependencies = len(t.Edges())

		available, err := t.Filter(domain.SelectAvailable)
		if err != nil {
			return err
		}
		summary.Available = len(available)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
