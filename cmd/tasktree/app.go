package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/tasktree/tasktree/internal/config"
	"github.com/tasktree/tasktree/internal/identity"
	"github.com/tasktree/tasktree/internal/service"
	"github.com/tasktree/tasktree/internal/store"
)

// errNotConfirmed is returned when a destructive command runs without a
// terminal and without --yes.
var errNotConfirmed = errors.New("confirmation required: rerun with --yes")

// app holds the I/O streams, global flags and lazily opened services shared
// by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	fs         afero.Fs
	home       string
	cwd        string
	getenv     func(string) string
	actor      func() string
	isTerminal func() bool

	// global flags
	jsonOutput bool
	project    string
	verbose    bool
	yes        bool

	cfg     *config.Resolved
	logger  *slog.Logger
	manager *store.Manager
	engine  *service.Engine
	style   *styles
	lines   *bufio.Reader
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		in:     in,
		out:    out,
		errOut: errOut,
		fs:     afero.NewOsFs(),
		getenv: os.Getenv,
		actor:  identity.Actor,
	}
	a.isTerminal = func() bool { return isTTY(a.in) }
	return a
}

func isTTY(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// setup resolves the configuration and opens the project store.
func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.style = newStyles(a.out)

	cfg, err := config.Resolve(config.Options{
		Fs:      a.fs,
		Home:    a.home,
		Cwd:     a.cwd,
		Getenv:  a.getenv,
		Project: a.project,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config resolved",
		"project", cfg.Project,
		"source", cfg.ProjectSource,
		"data_dir", cfg.DataDir,
	)

	a.manager, err = store.NewManager(cfg.DataDir)
	if err != nil {
		return err
	}
	a.engine = service.NewEngine(a.manager, a.logger)
	return nil
}

func (a *app) close() {
	if a.manager != nil {
		if err := a.manager.Close(); err != nil && a.logger != nil {
			a.logger.Warn("closing project databases", "error", err)
		}
	}
}

// activeProject returns the resolved project, which must exist.
func (a *app) activeProject(ctx context.Context) (string, error) {
	name, err := a.cfg.RequireProject()
	if err != nil {
		return "", err
	}
	exists, err := service.NewProjectService(a.engine).Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("project %q (from %s) does not exist: %w", name, a.cfg.ProjectSource, config.ErrNoProject)
	}
	return name, nil
}

// confirm asks a y/n question on a terminal. Without a terminal it succeeds
// only when --yes was given.
func (a *app) confirm(prompt string) (bool, error) {
	if a.yes {
		return true, nil
	}
	if !a.isTerminal() {
		return false, errNotConfirmed
	}
	if a.lines == nil {
		a.lines = bufio.NewReader(a.in)
	}
	for {
		fmt.Fprintf(a.out, "%s (y/n)? ", prompt)
		line, err := a.lines.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		if err != nil {
			return false, nil
		}
	}
}
