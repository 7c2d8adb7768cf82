// File: pkg/locator/errors.go
package locator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors that can be checked with errors.Is.
var (
	// ErrEmptyRepository indicates no repository argument was given.
	ErrEmptyRepository = errors.New("repository argument is empty")

	// ErrNotDirectory indicates the resolved repository path is not an existing directory.
	ErrNotDirectory = errors.New("not a valid directory")

	// ErrSyncFailed indicates a clone or pull did not succeed.
	ErrSyncFailed = errors.New("repository sync failed")
)

// GitError describes a failed git operation, including captured stderr.
type GitError struct {
	Operation string
	Args      []string
	Err       error
	Output    string
}

// Error implements the error interface.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Operation)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg = fmt.Sprintf("%s: %s", msg, out)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *GitError) Unwrap() error {
	return e.Err
}

// NewGitError creates a GitError whose chain includes ErrSyncFailed.
func NewGitError(operation string, args []string, err error, output string) *GitError {
	if err == nil {
		err = ErrSyncFailed
	} else if !errors.Is(err, ErrSyncFailed) {
		err = fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}
	return &GitError{
		Operation: operation,
		Args:      args,
		Err:       err,
		Output:    output,
	}
}
