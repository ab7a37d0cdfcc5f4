// Package identity names the actor recorded as changed_by in the audit log
// and sent as the X-Tasktree-Actor header.
package identity

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

const (
	// EnvActor overrides the generated actor when set.
	EnvActor = "TASKTREE_ACTOR"

	FallbackUser     = "unknown"
	FallbackHostname = "localhost"
	FallbackCwd      = "."
)

// Actor returns the TASKTREE_ACTOR value if set, otherwise user@hostname:cwd,
// e.g. alice@macbook:/Users/alice/projects/myapp.
func Actor() string {
	if actor := strings.TrimSpace(os.Getenv(EnvActor)); actor != "" {
		return actor
	}
	return Format(getUser(), getHostname(), getCwd())
}

// Format builds user@hostname:cwd, substituting fallbacks for empty parts.
func Format(usr, hostname, cwd string) string {
	if usr == "" {
		usr = FallbackUser
	}
	if hostname == "" {
		hostname = FallbackHostname
	}
	if cwd == "" {
		cwd = FallbackCwd
	}
	return fmt.Sprintf("%s@%s:%s", usr, hostname, cwd)
}

func getUser() string {
	if usr := os.Getenv("USER"); usr != "" {
		return usr
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return ""
}

func getHostname() string {
	if hostname, err := os.Hostname(); err == nil {
		return hostname
	}
	return ""
}

func getCwd() string {
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return ""
}
