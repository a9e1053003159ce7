package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a transport-level failure: no connection, timeout,
// DNS. Wherever a local path exists, it triggers fallback-to-local.
var ErrUnavailable = errors.New("server unavailable")

// StatusError means the server was reachable but rejected the request
// (bad credentials, validation error). It never triggers a local fallback
// for reads; auth flows translate it into their own sentinels.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected request: status %d", e.Code)
	}
	return fmt.Sprintf("server rejected request: status %d: %s", e.Code, e.Message)
}

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
