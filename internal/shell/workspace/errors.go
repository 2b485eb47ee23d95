// Package workspace provides file access rooted at a project directory.
package workspace

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrWriteFailed is returned when an artifact cannot be written.
	ErrWriteFailed = errors.New("write failed")

	// ErrReadFailed is returned when a file exists but cannot be read.
	ErrReadFailed = errors.New("read failed")
)

// WriteError wraps errors with additional context.
type WriteError struct {
	Op   string // Operation that failed (e.g., "mkdir", "write")
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}
