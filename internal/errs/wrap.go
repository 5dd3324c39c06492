package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap attaches cause to kind, preserving both for errors.Is checks.
//
// The returned error's message is "<kind>: <cause>"; errors.Is(result, kind)
// and errors.Is(result, cause) both hold.
func Wrap(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: errors.WithStack(cause)}
}

// Wrapf is like Wrap but formats an additional message between kind and
// cause, in the style of fmt.Errorf("%w", ...).
func Wrapf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, cause: errors.WithStack(fmt.Errorf(format, args...))}
}

// kindError pairs a tagged sentinel with the underlying cause so that
// errors.Is matches either one.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}
