package model

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessAuth is the only access level issued in this version.
// Present for forward extensibility, not otherwise discriminated.
const AccessAuth = "auth"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// emailRegex is a pragmatic format check, not a full RFC 5322 parser.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Token is one entry in a user's session list.
type Token struct {
	Access string `bson:"access" json:"-"`
	Token  string `bson:"token" json:"-"`
}

// User represents an account.
// Password holds only the Argon2id hash; plaintext never persists.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Tokens   []Token            `bson:"tokens" json:"-"`
}

// PublicUser is the outward-facing view of a User.
// Password and token list are never serialized.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the outward-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Email: u.Email,
	}
}

// NormalizeEmail trims and lower-cases an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks a normalized email and a plaintext password
// against the signup rules. Returns a ValidationError naming each bad field.
func ValidateCredentials(email, password string) error {
	fields := make(map[string]string)

	if email == "" {
		fields["email"] = "email is required"
	} else if !emailRegex.MatchString(email) {
		fields["email"] = "email is not a valid address"
	}

	if len(password) < MinPasswordLength {
		fields["password"] = "password must be at least 6 characters"
	}

	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}
