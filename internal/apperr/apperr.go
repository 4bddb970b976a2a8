// Package apperr classifies errors that cross the explorer's query boundary.
package apperr

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind identifies how a caller should treat an error.
type Kind string

const (
	// KindConfiguration marks a fatal startup problem: unreadable dataset,
	// malformed mapping, invalid settings.
	KindConfiguration Kind = "configuration"
	// KindInvalidArgument marks a rejected request: unknown sort key, major or preset.
	KindInvalidArgument Kind = "invalid_argument"
)

// Error wraps an underlying error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration wraps err as a configuration error with a context message.
func Configuration(err error, msg string) error {
	if err == nil {
		return &Error{Kind: KindConfiguration, Err: eris.New(msg)}
	}
	return &Error{Kind: KindConfiguration, Err: eris.Wrap(err, msg)}
}

// Configurationf creates a configuration error without an underlying cause.
func Configurationf(format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Err: eris.New(fmt.Sprintf(format, args...))}
}

// InvalidArgument creates an invalid-argument error.
func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Err: eris.New(fmt.Sprintf(format, args...))}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsConfiguration reports whether err carries KindConfiguration.
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

// IsInvalidArgument reports whether err carries KindInvalidArgument.
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}
