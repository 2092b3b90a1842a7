package reminder

import (
	"errors"
	"fmt"
)

// Error kinds. Store operations never return these; they are logged and kept
// as the store's last error.
var (
	ErrParse         = errors.New("parse error")
	ErrReadFailed    = errors.New("read error")
	ErrNoDestination = errors.New("no destination")
	ErrWrite         = errors.New("write error")
)

// PathError ties an error kind to the file it happened on.
type PathError struct {
	Kind error
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *PathError) Unwrap() []error { return []error{e.Kind, e.Err} }

func newPathError(kind error, path string, err error) *PathError {
	return &PathError{Kind: kind, Path: path, Err: err}
}

// kindLabel names the error kind for logs and metrics.
func kindLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrReadFailed):
		return "read_error"
	case errors.Is(err, ErrNoDestination):
		return "no_destination"
	case errors.Is(err, ErrWrite):
		return "write_error"
	default:
		return "unknown"
	}
}
