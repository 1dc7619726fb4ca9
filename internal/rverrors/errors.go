// Package rverrors classifies the fatal and non-fatal error kinds the
// translation pipeline can report. Every kind is a sentinel error usable
// with errors.Is; callers wrap a sentinel with github.com/pkg/errors to
// attach call-path context (function name, block address, file) without
// losing the ability to classify the root cause.
package rverrors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error kinds.
var (
	// InputMissing is reported when a required file, spec, or function is
	// absent or unparseable.
	InputMissing = errors.New("input missing")

	// DwarfResolution is reported when a referenced variable or field has no
	// DWARF entry. Not raised when the reference is a sub-identifier of a
	// struct-field operation left untyped by policy.
	DwarfResolution = errors.New("dwarf resolution failed")

	// TypeMismatch is reported when inferred operand types disagree in an
	// operator that requires uniform operand types.
	TypeMismatch = errors.New("type mismatch")

	// UnsupportedInstruction marks a mnemonic absent from the system-model
	// table. Non-fatal: callers lower it to an unimplemented-instruction
	// statement instead of aborting.
	UnsupportedInstruction = errors.New("unsupported instruction")

	// CycleInCFG is reported when the basic-block topological sort fails to
	// make progress.
	CycleInCFG = errors.New("cycle in control-flow graph")

	// UnsupportedConfiguration is reported for configuration the core
	// explicitly does not support, chiefly XLEN != 64.
	UnsupportedConfiguration = errors.New("unsupported configuration")

	// Internal marks an invariant violation inside the core itself (for
	// example a rewriter dispatched against the wrong AST variant). Its
	// presence indicates a bug in this module, not bad input.
	Internal = errors.New("internal invariant violation")
)

// kindError pairs a sentinel kind with a lower-level cause, so a single
// errors.Is walk can classify the root cause while %v / Error() still prints
// the full call-path message pkg/errors built for the cause.
type kindError struct {
	kind  error
	cause error
	msg   string
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Is reports whether target is this error's kind or, failing that, whether
// it matches somewhere in the wrapped cause's own chain.
func (e *kindError) Is(target error) bool {
	if target == e.kind {
		return true
	}
	return e.cause != nil && stderrors.Is(e.cause, target)
}

// Unwrap exposes the wrapped cause, if any, so errors.As can reach it.
func (e *kindError) Unwrap() error { return e.cause }

// Cause returns the underlying, lower-level error, or nil for a bare Wrap.
func (e *kindError) Cause() error { return e.cause }

// Wrap classifies a fresh error as belonging to kind, with a formatted
// message. The result satisfies errors.Is(result, kind).
func Wrap(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrapf classifies an existing cause as belonging to kind, attaching a
// formatted message describing where the wrap happened. The result
// satisfies both errors.Is(result, kind) and errors.Is(result, cause).
func Wrapf(cause error, kind error, format string, args ...interface{}) error {
	if cause == nil {
		return Wrap(kind, format, args...)
	}
	return &kindError{kind: kind, cause: errors.WithStack(cause), msg: fmt.Sprintf(format, args...)}
}
