// Package errors provides error handling for atomspace.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and hints from a single import, and defines the sentinel errors
// every store operation reports through.
//
//	if _, err := space.AddLink(atom.InheritanceLink, out); errors.Is(err, errors.ErrInvalidArgument) {
//	    // bad type family, empty outgoing, or dangling handle
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
	Is       = crdb.Is
	As       = crdb.As
	GetHints = crdb.GetAllHints

	AssertionFailedf = crdb.AssertionFailedf
)

var (
	// ErrInvalidArgument: empty required input, wrong type family for the
	// operation, or an outgoing handle that does not resolve to a live atom.
	ErrInvalidArgument = New("invalid argument")

	// ErrNotFound: the handle does not resolve to a live atom.
	ErrNotFound = New("not found")
)

// InvalidArgumentf wraps ErrInvalidArgument with a formatted reason.
func InvalidArgumentf(format string, args ...any) error {
	return Wrapf(ErrInvalidArgument, format, args...)
}

// NotFoundf wraps ErrNotFound with a formatted reason.
func NotFoundf(format string, args ...any) error {
	return Wrapf(ErrNotFound, format, args...)
}

// IsInvalidArgument reports whether err is or wraps ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}
