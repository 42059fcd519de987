package identity

import "errors"

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
)

// OAuth errors
var (
	ErrUnknownOAuthProvider = errors.New("unknown OAuth provider")
	ErrInvalidState         = errors.New("invalid OAuth state")
	ErrInvalidCode          = errors.New("invalid OAuth code")
	ErrNoPrimaryEmail       = errors.New("no primary email from provider")
	ErrUnverifiedEmail      = errors.New("email not verified by provider")
)
