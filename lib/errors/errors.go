// Package errors re-exports the error helpers this repo's packages are
// written against, following the same thin-wrapper convention the teacher
// monorepo uses for its own lib/errors package: callers import this package
// instead of the standard library errors package or cockroachdb/errors
// directly, so the underlying implementation can change in one place.
package errors

import (
	"github.com/cockroachdb/errors"
)

type Error = error

var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Cause  = errors.Cause
	Append = errors.Append
)

// Combine merges all non-nil errors into one, returning nil if none are set.
func Combine(errs ...error) error {
	var combined error
	for _, err := range errs {
		if err == nil {
			continue
		}
		combined = Append(combined, err)
	}
	return combined
}
