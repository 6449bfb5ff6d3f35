package custom_err

import "errors"

var (
	// Normalization errors
	ErrUnrepresentable = errors.New("record cannot be represented")
	ErrUnknownCorridor = errors.New("unknown corridor")
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateRecord = errors.New("duplicate record")

	// User errors
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenNotActive     = errors.New("token not active yet")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidAmount   = errors.New("invalid amount")
)
