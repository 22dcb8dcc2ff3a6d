package usecase

import (
	"context"
	"strings"
)

type actorKey struct{}

// WithActor returns a context naming the actor that mutations are attributed to.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, strings.TrimSpace(actor))
}

// ActorFrom returns the actor stored in ctx or fallback when none is set.
func ActorFrom(ctx context.Context, fallback string) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return fallback
}
