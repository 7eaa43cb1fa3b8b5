package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickline/tickline/internal/auth"
	"github.com/tickline/tickline/internal/metrics"
	"github.com/tickline/tickline/internal/model"
)

// UserResolver looks up the user owning a still-listed token.
type UserResolver interface {
	GetUserByToken(ctx context.Context, id primitive.ObjectID, token string) (*model.User, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Tokens  *auth.TokenManager
	Users   UserResolver
	Metrics metrics.Recorder
}

// Auth returns a middleware that authenticates requests via the x-auth header.
// The token's signature is verified first, then the user is resolved by id and
// exact token value; any failure short-circuits with a 401 and empty body.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(reason string) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncAuthFailure()
				w.WriteHeader(http.StatusUnauthorized)
			}

			token := r.Header.Get(auth.HeaderName)
			if token == "" {
				reject("missing_token")
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				reject("invalid_token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				reject("malformed_user_id")
				return
			}

			user, err := cfg.Users.GetUserByToken(r.Context(), userID, token)
			if err != nil {
				// Covers both revoked tokens and deleted users; the caller
				// cannot tell which.
				reject("token_not_listed")
				return
			}

			recorder.IncAuthSuccess()

			session := &auth.Session{User: user, RawToken: token}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(r.Context(), session)))
		})
	}
}
