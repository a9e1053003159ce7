package store

import "errors"

var (
	// ErrStorageUnavailable means the local database could not be opened or
	// migrated. Callers must treat this as non-fatal and degrade (offline
	// login, bookmarks and the pending queue become unavailable).
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrNotFound is returned by point lookups when no record matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAccount is returned when registering an email that is
	// already present in the local account store.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidCredentials is returned when no local account matches the
	// given email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
