package auth

// AuthError represents a token error
type AuthError string

func (e AuthError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      AuthError = "config cannot be nil"
	ErrEmptySecret    AuthError = "token secret cannot be empty"
	ErrEmptyToken     AuthError = "empty token"
	ErrMalformedToken AuthError = "malformed token"
	ErrExpiredToken   AuthError = "expired token"
	ErrInvalidToken   AuthError = "invalid token"
)
