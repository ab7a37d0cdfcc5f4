package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

type testEnv struct {
	fs  afero.Fs
	env map[string]string
}

func newTestEnv() *testEnv {
	return &testEnv{fs: afero.NewMemMapFs(), env: map[string]string{}}
}

func (e *testEnv) options(flag string) Options {
	return Options{
		Fs:      e.fs,
		Home:    home,
		Cwd:     "/work/repo/sub",
		Getenv:  func(k string) string { return e.env[k] },
		Project: flag,
	}
}

func TestResolve_ProjectPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		env        string
		pin        bool
		active     bool
		want       string
		wantSource Source
	}{
		{"flag wins", "from-flag", "from-env", true, true, "from-flag", SourceFlag},
		{"env over pin", "", "from-env", true, true, "from-env", SourceEnv},
		{"pin over global", "", "", true, true, "from-pin", SourcePin},
		{"global last", "", "", false, true, "from-global", SourceGlobal},
		{"nothing", "", "", false, false, "", SourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv()
			if tt.env != "" {
				e.env[EnvProject] = tt.env
			}
			if tt.pin {
				writeFile(t, e.fs, "/work/repo/tasktree.toml", `project = "from-pin"`)
			}
			if tt.active {
				writeFile(t, e.fs, GlobalConfigPath(home), `active_project = "from-global"`)
			}

			resolved, err := Resolve(e.options(tt.flag))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resolved.Project != tt.want {
				t.Errorf("expected project %q, got %q", tt.want, resolved.Project)
			}
			if resolved.ProjectSource != tt.wantSource {
				t.Errorf("expected source %q, got %q", tt.wantSource, resolved.ProjectSource)
			}
		})
	}
}

func TestResolve_RequireProject(t *testing.T) {
	resolved, err := Resolve(newTestEnv().options(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := resolved.RequireProject(); !errors.Is(err, ErrNoProject) {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}

func TestResolve_ServerAddress(t *testing.T) {
	tests := []struct {
		name   string
		global string
		flag   string
		want   string
	}{
		{"defaults", "", "", "localhost:7433"},
		{"global host only", "[server]\nhost = \"0.0.0.0\"", "", "0.0.0.0:7433"},
		{"global port only", "[server]\nport = 9000", "", "localhost:9000"},
		{"flag overrides", "[server]\nport = 9000", "127.0.0.1:1234", "127.0.0.1:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv()
			if tt.global != "" {
				writeFile(t, e.fs, GlobalConfigPath(home), tt.global)
			}
			opts := e.options("")
			opts.Addr = tt.flag

			resolved, err := Resolve(opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resolved.ServerAddr != tt.want {
				t.Errorf("expected addr %q, got %q", tt.want, resolved.ServerAddr)
			}
		})
	}
}

func TestResolve_DataDir(t *testing.T) {
	e := newTestEnv()
	resolved, err := Resolve(e.options(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(home, ".tasktree", "projects"); resolved.DataDir != want {
		t.Errorf("expected data dir %q, got %q", want, resolved.DataDir)
	}
}

func TestResolve_InvalidPinIsAnError(t *testing.T) {
	e := newTestEnv()
	writeFile(t, e.fs, "/work/tasktree.toml", `project = ""`)

	if _, err := Resolve(e.options("")); err == nil {
		t.Error("expected error for empty project pin")
	}
}

func TestResolve_GlobalConfigInvalid(t *testing.T) {
	e := newTestEnv()
	writeFile(t, e.fs, GlobalConfigPath(home), "not toml [")

	if _, err := Resolve(e.options("from-flag")); err == nil {
		t.Error("expected error for invalid global config")
	}
}
