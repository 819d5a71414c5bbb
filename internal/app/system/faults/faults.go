// Package faults defines the error taxonomy shared by all operations.
//
// Every operation converts internal failures into a *Fault carrying a
// user-readable message; the RPC layer turns that message into the flat
// `error` result field. Anything that is not a *Fault is classified as
// Internal and its message is never shown to callers.
package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Internal is the default for unclassified store/mailer failures.
	Internal Kind = iota
	// InvalidArgument covers malformed, missing, or out-of-range input.
	InvalidArgument
	// InvalidCredential is a failed password comparison.
	InvalidCredential
	// InvalidSession is a missing, malformed, or expired session token.
	InvalidSession
	// InvalidIdentityToken is a federated ID token that failed verification.
	InvalidIdentityToken
	// NotFound is a missing user, semester, course, or reset token.
	NotFound
	// DuplicateIdentity is an email collision on registration.
	DuplicateIdentity
	// TokenAlreadyUsed is a reset token that was already consumed.
	TokenAlreadyUsed
	// TokenExpired is a reset token past its expiry instant.
	TokenExpired
	// WeakPassword is a new password that fails the minimum-length rule.
	WeakPassword
)

// Fault is a classified, user-visible failure.
type Fault struct {
	Kind    Kind
	Message string
}

func (f *Fault) Error() string { return f.Message }

// New builds a Fault with a fixed message.
func New(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// Newf builds a Fault with a formatted message.
func Newf(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or Internal when err is not a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return Internal
}

// Is reports whether err is a Fault of the given kind.
func Is(err error, kind Kind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}

// genericInternal is what callers see for unclassified failures; the real
// error goes to the log, never over the wire.
const genericInternal = "Error interno del servidor"

// Message returns the caller-visible text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Message
	}
	return genericInternal
}
