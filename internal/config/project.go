package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// ProjectFileName is the name of the per-directory project pin file
const ProjectFileName = "tasktree.toml"

// ErrNoProjectPin is returned when no tasktree.toml exists up to the root.
var ErrNoProjectPin = errors.New("no " + ProjectFileName + " found")

// ProjectPin is a tasktree.toml file binding a directory tree to a project.
type ProjectPin struct {
	Project string `toml:"project"`
	// Path is the file the pin was read from.
	Path string `toml:"-"`
}

// DiscoverProjectPin looks for tasktree.toml in startDir and each of its
// parents, returning ErrNoProjectPin when none exists.
func DiscoverProjectPin(fs afero.Fs, startDir string) (*ProjectPin, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, ProjectFileName)
		if ok, err := afero.Exists(fs, path); err != nil {
			return nil, err
		} else if ok {
			return ParseProjectPin(fs, path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoProjectPin
		}
		dir = parent
	}
}

// ParseProjectPin parses the tasktree.toml at path.
func ParseProjectPin(fs afero.Fs, path string) (*ProjectPin, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var pin ProjectPin
	if _, err := toml.Decode(string(data), &pin); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	pin.Project = strings.TrimSpace(pin.Project)
	if pin.Project == "" {
		return nil, fmt.Errorf("%s: project name cannot be empty", path)
	}
	pin.Path = path
	return &pin, nil
}
