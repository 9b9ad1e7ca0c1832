package errors

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// UUIDNotFoundError is a service domain error for not found.
type UUIDNotFoundError struct {
	UUID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *UUIDNotFoundError) Error() string {
	return fmt.Sprintf("UUID %q not found", n.UUID)
}

// NoSessionFoundError indicates that a session cannot be found within the context.
type NoSessionFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoSessionFoundError) Error() string {
	return "No session found in context"
}

// FileNotFoundError indicates that a file requested by the UI does not exist on disk.
type FileNotFoundError struct {
	Path string
}

// Error is an implementation of the error interface.
func (n *FileNotFoundError) Error() string {
	return fmt.Sprintf("File not found: %s", n.Path)
}
