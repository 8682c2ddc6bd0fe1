package store

import "errors"

// Sentinel errors returned by the account and library stores. The
// presentation layer maps these to user-facing notifications; the
// stores themselves never talk to the user.
var (
	// ErrDuplicateAccount is returned by Register when the email is
	// already present in the registry.
	ErrDuplicateAccount = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned by Authenticate when no account
	// matches the given email and password exactly.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSongNotFound is returned by Update when no song carries the
	// given identifier.
	ErrSongNotFound = errors.New("song not found")
)
