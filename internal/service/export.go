package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tasktree/tasktree/internal/domain"
	"github.com/tasktree/tasktree/internal/tree"
)

// ExportFormat names a snapshot encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat parses a format name; empty means JSON.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", domain.NewValidationError([]string{fmt.Sprintf("unsupported export format %q (use json or yaml)", s)})
	}
}

// ContentType returns the media type of the encoding.
func (f ExportFormat) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// ExportService produces whole-project snapshots.
type ExportService struct {
	engine *Engine
}

// NewExportService creates a new ExportService.
func NewExportService(engine *Engine) *ExportService {
	return &ExportService{engine: engine}
}

// Snapshot returns the full state of a project.
func (s *ExportService) Snapshot(ctx context.Context, project string) (*domain.ProjectState, error) {
	var state domain.ProjectState
	err := s.engine.View(ctx, project, func(t *tree.Tree, p *domain.Project) error {
		state = t.State(*p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if state.Tasks == nil {
		state.Tasks = []*domain.Task{}
	}
	if state.Dependencies == nil {
		state.Dependencies = []domain.Dependency{}
	}
	return &state, nil
}

// Export encodes the project snapshot in the given format.
func (s *ExportService) Export(ctx context.Context, project string, format ExportFormat) ([]byte, error) {
	state, err := s.Snapshot(ctx, project)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(state)
	case FormatJSON:
		data, err = json.MarshalIndent(state, "", "  ")
	default:
		return nil, domain.NewValidationError([]string{fmt.Sprintf("unsupported export format %q", format)})
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return data, nil
}
