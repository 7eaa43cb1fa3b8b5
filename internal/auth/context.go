package auth

import (
	"context"

	"github.com/tickline/tickline/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// sessionKey is the context key for the authenticated session.
const sessionKey contextKey = "auth_session"

// Session is the result of a successful token resolution.
// RawToken is the exact header value, kept so logout can remove it.
type Session struct {
	User     *model.User
	RawToken string
}

// ContextWithSession adds an authenticated session to the context.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext retrieves the session from the context.
// Returns nil if the request was not authenticated.
func SessionFromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(sessionKey).(*Session)
	if !ok {
		return nil
	}
	return s
}

// MustSessionFromContext retrieves the session from the context.
// Panics if not present (use only behind the auth middleware).
func MustSessionFromContext(ctx context.Context) *Session {
	s := SessionFromContext(ctx)
	if s == nil {
		panic("auth session not found - ensure auth middleware is applied")
	}
	return s
}
