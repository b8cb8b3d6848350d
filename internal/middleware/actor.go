package middleware

import (
	"context"
	"net/http"
	"strings"

	"emergencyHub/internal/domain"
	"emergencyHub/internal/policy"
	"emergencyHub/internal/render"
	"emergencyHub/pkg/e"
)

// Identity is asserted by the upstream identity provider through these headers.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorKind = "X-Actor-Kind"
	HeaderActorRole = "X-Actor-Role"
)

type actorKey struct{}

// Identify puts the calling actor into the request context. A missing role means guest;
// a missing kind is derived from the role.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middleware.Identify"

		role := policy.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole))))
		if role == "" {
			role = policy.RoleGuest
		}
		if !role.Valid() {
			render.Error(w, e.Field(op, e.ErrInvalidInput, HeaderActorRole, string(role)))
			return
		}

		kind := domain.ActorKind(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorKind))))
		if kind == "" {
			kind = domain.ActorRegistered
			if role == policy.RoleGuest {
				kind = domain.ActorGuest
			}
		}
		if !kind.Valid() {
			render.Error(w, e.Field(op, e.ErrInvalidInput, HeaderActorKind, string(kind)))
			return
		}

		actor := domain.Actor{
			ID:   strings.TrimSpace(r.Header.Get(HeaderActorID)),
			Kind: kind,
			Role: string(role),
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor set by Identify, or an anonymous guest.
func ActorFrom(ctx context.Context) domain.Actor {
	if a, ok := ctx.Value(actorKey{}).(domain.Actor); ok {
		return a
	}
	return domain.Actor{Kind: domain.ActorGuest, Role: string(policy.RoleGuest)}
}

// Authorize rejects actors whose role may not perform action on resource.
func Authorize(resource policy.Resource, action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFrom(r.Context())
			if !policy.Allowed(resource, action, policy.Role(actor.Role)) {
				render.Error(w, e.Field("middleware.Authorize", e.ErrForbidden, string(resource)+"."+string(action), actor.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
