package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tickline/tickline/internal/model"
)

// HeaderName is the request and response header carrying the auth token.
const HeaderName = "x-auth"

var (
	// ErrInvalidToken indicates a token that failed signature or structure checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongAccess indicates a token signed for an access level we do not issue.
	ErrWrongAccess = errors.New("unexpected access level")
)

// Claims binds a user id and access level into a signed token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Access string `json:"access"`
}

// TokenManager signs and verifies auth tokens with an HMAC secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager.
// A zero ttl issues tokens without an expiry claim.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Sign issues a token for the given user id at the "auth" access level.
func (m *TokenManager) Sign(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		Access: model.AccessAuth,
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify parses a token and checks its signature, expiry, and access level.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Access != model.AccessAuth {
		return nil, ErrWrongAccess
	}

	return claims, nil
}
