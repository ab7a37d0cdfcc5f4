package config

import (
	"errors"
	"net"
	"os"
	"strconv"

	"github.com/spf13/afero"
)

// EnvProject selects the project when no --project flag is given.
const EnvProject = "TASKTREE_PROJECT"

// ErrNoProject is returned by RequireProject when no source names a project.
var ErrNoProject = errors.New("no project selected: use --project, set " + EnvProject +
	", add a " + ProjectFileName + " or run 'tasktree switch <project>'")

// Source says where the resolved project came from.
type Source string

const (
	SourceNone   Source = ""
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourcePin    Source = "pin"
	SourceGlobal Source = "global"
)

// Options are the inputs to Resolve. Zero values fall back to the real
// filesystem, environment and working directory.
type Options struct {
	Fs      afero.Fs
	Home    string
	Cwd     string
	Getenv  func(string) string
	Project string // --project flag
	Addr    string // --addr flag
}

// Resolved is the merged configuration. Project precedence, highest first:
// 1. --project flag
// 2. TASKTREE_PROJECT
// 3. tasktree.toml found upward from the working directory
// 4. active_project in ~/.tasktree/config.toml
type Resolved struct {
	Project       string
	ProjectSource Source
	DataDir       string
	ServerAddr    string
	Home          string
	Global        *GlobalConfig
}

// RequireProject returns the resolved project or ErrNoProject.
func (r *Resolved) RequireProject() (string, error) {
	if r.Project == "" {
		return "", ErrNoProject
	}
	return r.Project, nil
}

// Resolve loads the global config and the project pin and applies the
// precedence rules.
func Resolve(opts Options) (*Resolved, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		opts.Home = home
	}
	if opts.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		opts.Cwd = cwd
	}

	global, err := LoadGlobalConfig(opts.Fs, opts.Home)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		DataDir:    global.ResolveDataDir(opts.Home),
		ServerAddr: serverAddr(opts.Addr, global.Server),
		Home:       opts.Home,
		Global:     global,
	}

	switch {
	case opts.Project != "":
		resolved.Project, resolved.ProjectSource = opts.Project, SourceFlag
	case opts.Getenv(EnvProject) != "":
		resolved.Project, resolved.ProjectSource = opts.Getenv(EnvProject), SourceEnv
	default:
		pin, err := DiscoverProjectPin(opts.Fs, opts.Cwd)
		switch {
		case err == nil:
			resolved.Project, resolved.ProjectSource = pin.Project, SourcePin
		case !errors.Is(err, ErrNoProjectPin):
			return nil, err
		case global.ActiveProject != "":
			resolved.Project, resolved.ProjectSource = global.ActiveProject, SourceGlobal
		}
	}

	return resolved, nil
}

// serverAddr applies flag > global > default.
func serverAddr(flag string, server ServerConfig) string {
	if flag != "" {
		return flag
	}
	host, port := DefaultServerHost, DefaultServerPort
	if server.Host != "" {
		host = server.Host
	}
	if server.Port != 0 {
		port = server.Port
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
