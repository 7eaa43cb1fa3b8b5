package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickline/tickline/internal/auth"
	"github.com/tickline/tickline/internal/handler/dto"
	"github.com/tickline/tickline/internal/metrics"
	"github.com/tickline/tickline/internal/model"
	"github.com/tickline/tickline/internal/service"
)

// UserAccounts is the account flow surface the user endpoints need.
type UserAccounts interface {
	Signup(ctx context.Context, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, userID primitive.ObjectID, token string) error
}

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc     UserAccounts
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserAccounts, logger *slog.Logger, recorder metrics.Recorder) *UserHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserHandler{
		svc:     svc,
		logger:  logger,
		metrics: recorder,
	}
}

// Signup handles POST /users.
// On success the fresh token travels in the x-auth response header.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, token, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleSignupError(w, err)
		return
	}

	h.metrics.IncUserSignup()
	h.logger.Info("user_signed_up", "user_id", user.ID.Hex())

	w.Header().Set(auth.HeaderName, token)
	writeJSON(w, http.StatusOK, user.Public())
}

// Login handles POST /users/login.
// Unknown email and wrong password both answer 400 with an empty body,
// so callers cannot probe which check failed.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeEmpty(w, http.StatusBadRequest)
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeInternalError(w)
		return
	}

	h.metrics.IncUserLogin()
	h.logger.Info("user_logged_in", "user_id", user.ID.Hex())

	w.Header().Set(auth.HeaderName, token)
	writeJSON(w, http.StatusOK, user.Public())
}

// Me handles GET /users/me. Requires the auth middleware.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, session.User.Public())
}

// Logout handles DELETE /users/me/token. Requires the auth middleware.
// Only the token used for this request is removed; other sessions survive.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.MustSessionFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), session.User.ID, session.RawToken); err != nil {
		h.logger.Error("internal_error", "error", err)
		writeInternalError(w)
		return
	}

	h.metrics.IncUserLogout()
	h.logger.Info("user_logged_out", "user_id", session.User.ID.Hex())

	writeJSON(w, http.StatusOK, struct{}{})
}

// handleSignupError maps signup failures to HTTP responses.
func (h *UserHandler) handleSignupError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "validation failed", map[string]string{
			"email": "email already in use",
		})
	default:
		h.logger.Error("internal_error", "error", err)
		writeInternalError(w)
	}
}
