package services

import "errors"

var (
	// ErrNoCachedData means the server was unreachable and the local cache
	// had nothing to serve either.
	ErrNoCachedData = errors.New("no cached data available")

	// ErrAuthenticationFailed means both the online and the offline login
	// paths were exhausted. The caller is deliberately not told whether the
	// credentials were wrong or no offline account existed; the wrapped
	// chain carries the detail for logs.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrLocalPersistence means the offline fallback write itself failed.
	// This is the only way a create-story call surfaces an error to the user.
	ErrLocalPersistence = errors.New("local persistence failed")
)
