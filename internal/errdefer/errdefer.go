// Package errdefer runs cleanup operations in defer statements
// and joins their errors into a named return value.
package errdefer

import (
	"errors"
	"io"

	"braces.dev/errtrace"
)

// Close calls Close on the given Closer,
// and joins any error returned with the given error.
//
//	defer errdefer.Close(&err, f)
func Close(err *error, closer io.Closer) {
	Do(err, closer.Close)
}

// Do calls fn and joins any error it returns with the given error.
//
//	defer errdefer.Do(&err, logger.Sync)
func Do(err *error, fn func() error) {
	if ferr := fn(); ferr != nil {
		*err = errtrace.Wrap(errors.Join(*err, ferr))
	}
}
