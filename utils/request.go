package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type requestMetaKey struct{}
type actorKey struct{}

// RequestMeta identifies one request for the response envelope.
type RequestMeta struct {
	ID    string
	Start time.Time
}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the metadata stored in ctx, or a fresh one when
// the call did not come through the HTTP middleware.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	if meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return meta
	}
	return RequestMeta{ID: uuid.NewString(), Start: time.Now()}
}

// Actor is the authenticated staff member on whose behalf a call runs.
type Actor struct {
	StaffID  string
	CasinoID string
	Role     string
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.StaffID == "" || actor.CasinoID == "" {
		return Actor{}, false
	}
	return actor, true
}
