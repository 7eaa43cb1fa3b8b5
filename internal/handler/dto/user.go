package dto

// CredentialsRequest represents the body of signup and login requests.
// Any other submitted field is ignored.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ErrorResponse represents an API error.
// Fields carries per-field validation details when present.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
