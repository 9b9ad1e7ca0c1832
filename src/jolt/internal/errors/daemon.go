package errors

import (
	stderr "errors"
	"fmt"
	"strings"
)

// RuntimeNotFoundError indicates that no executable satisfying the minimum runtime version was found.
type RuntimeNotFoundError struct {
	MinMajorVersion int
	Searched        []string
}

// Error is an implementation of the error interface.
func (n *RuntimeNotFoundError) Error() string {
	if len(n.Searched) == 0 {
		return fmt.Sprintf("no node runtime >= %d found", n.MinMajorVersion)
	}
	return fmt.Sprintf("no node runtime >= %d found among: %s", n.MinMajorVersion, strings.Join(n.Searched, ", "))
}

// IsRuntimeNotFound reports whether RuntimeNotFoundError is part of the error chain.
func IsRuntimeNotFound(e error) bool {
	var nf *RuntimeNotFoundError
	return stderr.As(e, &nf)
}

// StartupError wraps any failure that prevented the daemon from reaching a running state.
type StartupError struct {
	Step string
	Err  error
}

// Error is an implementation of the error interface.
func (s *StartupError) Error() string {
	return fmt.Sprintf("starting daemon (%s): %v", s.Step, s.Err)
}

// Unwrap returns the underlying cause.
func (s *StartupError) Unwrap() error {
	return s.Err
}
