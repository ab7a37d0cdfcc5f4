package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	// ActorKey is the context key for the actor.
	ActorKey contextKey = "actor"
	// ActorHeader is the HTTP header naming who makes a change.
	ActorHeader = "X-Tasktree-Actor"
	// DefaultActor is used when no actor header is provided.
	DefaultActor = "anonymous"
)

// Actor middleware extracts the X-Tasktree-Actor header and adds it to context.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			actor = DefaultActor
		}

		ctx := context.WithValue(r.Context(), ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor retrieves the actor from context.
func GetActor(ctx context.Context) string {
	if actor, ok := ctx.Value(ActorKey).(string); ok {
		return actor
	}
	return DefaultActor
}
