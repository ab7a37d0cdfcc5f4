package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Valid project name pattern: alphanumeric, hyphens, underscores, 1-64 chars.
var validProjectName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateProjectName checks that a project name is safe to use as a file name.
func ValidateProjectName(name string) error {
	if !validProjectName.MatchString(name) {
		return NewValidationError([]string{
			fmt.Sprintf("invalid project name %q: must be 1-64 alphanumeric characters, hyphens, or underscores", name),
		})
	}
	return nil
}

// Project holds a project's metadata.
type Project struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// ProjectState is everything persisted for a project: enough to rebuild both
// adjacency views of the dependency graph.
type ProjectState struct {
	Project      Project      `json:"project" yaml:"project"`
	NextID       TaskID       `json:"next_id" yaml:"next_id"`
	Tasks        []*Task      `json:"tasks" yaml:"tasks"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}
