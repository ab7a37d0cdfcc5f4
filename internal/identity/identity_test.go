package identity

import (
	"regexp"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		hostname string
		cwd      string
		want     string
	}{
		{"full", "alice", "macbook", "/Users/alice/projects/myapp", "alice@macbook:/Users/alice/projects/myapp"},
		{"root path", "root", "host", "/", "root@host:/"},
		{"path with spaces", "user", "host", "/home/user/My Projects/app", "user@host:/home/user/My Projects/app"},
		{"only user missing", "", "myhost", "/path", "unknown@myhost:/path"},
		{"only hostname missing", "myuser", "", "/path", "myuser@localhost:/path"},
		{"only cwd missing", "myuser", "myhost", "", "myuser@myhost:."},
		{"all missing", "", "", "", "unknown@localhost:."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.user, tt.hostname, tt.cwd); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActor_Generated(t *testing.T) {
	t.Setenv(EnvActor, "")
	t.Setenv("USER", "testenvuser")

	actor := Actor()

	if !regexp.MustCompile(`^testenvuser@[^:]+:.+$`).MatchString(actor) {
		t.Errorf("Actor() = %q, want testenvuser@host:path", actor)
	}
}

func TestActor_EnvOverride(t *testing.T) {
	t.Setenv(EnvActor, "  release-bot  ")

	if got := Actor(); got != "release-bot" {
		t.Errorf("Actor() = %q, want %q", got, "release-bot")
	}
}
