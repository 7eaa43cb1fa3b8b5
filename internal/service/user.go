// Package service provides business logic for account flows.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickline/tickline/internal/auth"
	"github.com/tickline/tickline/internal/model"
	"github.com/tickline/tickline/internal/store"
)

// Service errors.
var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore is the subset of store operations the user flows need.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	AddToken(ctx context.Context, id primitive.ObjectID, token model.Token) error
	RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error
}

// UserService handles signup, login, and logout.
type UserService struct {
	store  UserStore
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, tokens *auth.TokenManager) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
	}
}

// Signup validates credentials, hashes the password exactly once, persists the
// user, and issues a first session token. Returns the stored user and the
// signed token for the x-auth response header.
func (s *UserService) Signup(ctx context.Context, email, password string) (*model.User, string, error) {
	email = model.NormalizeEmail(email)
	if err := model.ValidateCredentials(email, password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: hash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and appends a fresh token to the user's
// session list. Unknown email and wrong password are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = model.NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil || !match {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout removes the given token from the user's session list.
// Other concurrent sessions stay valid.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, token string) error {
	return s.store.RemoveToken(ctx, userID, token)
}

// issueToken signs a token for the user and appends it to the session list.
func (s *UserService) issueToken(ctx context.Context, user *model.User) (string, error) {
	token, err := s.tokens.Sign(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	entry := model.Token{Access: model.AccessAuth, Token: token}
	if err := s.store.AddToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, entry)

	return token, nil
}
