// Package errors provides error handling for aurexgen.
//
// It re-exports github.com/cockroachdb/errors and declares the failure
// taxonomy of the build pipeline. Each failure kind is a sentinel that is
// attached with Mark, so errors.Is keeps working after further wrapping:
//
//	err = errors.Mark(errors.Wrap(err, "cargo build"), errors.ErrBuildFailed)
//	if errors.Is(err, errors.ErrBuildFailed) {
//	    // report build output
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Pipeline failure kinds. Use with Is.
var (
	// ErrUsage indicates the command line was incomplete or invalid.
	ErrUsage = New("usage error")

	// ErrConfig indicates the configuration could not be loaded or is invalid.
	ErrConfig = New("configuration error")

	// ErrBuildFailed indicates the native release build did not succeed.
	ErrBuildFailed = New("build failed")

	// ErrUnknownPlatform indicates the host OS has no known shared library naming.
	ErrUnknownPlatform = New("unknown platform")

	// ErrArtifactMissing indicates the shared library is not on disk after a
	// build reported success.
	ErrArtifactMissing = New("artifact missing")

	// ErrBindgenFailed indicates the bindings generator did not succeed.
	ErrBindgenFailed = New("bindgen failed")
)

// Usagef creates a usage error with a formatted message.
func Usagef(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUsage)
}

// WrapConfig marks err as a configuration error with context.
func WrapConfig(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrConfig)
}
