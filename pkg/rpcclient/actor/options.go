package actor

import (
	"errors"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
)

// Options tunes how an Actor builds and checks transactions.
type Options struct {
	// Attributes are appended to every transaction Actor builds.
	Attributes []transaction.Attribute
	// Modifier runs on every unsigned transaction right before it is
	// returned from a MakeUnsigned* call, letting a caller tweak
	// ValidUntilBlock, fees, or attributes.
	Modifier func(*transaction.Transaction) error
	// CheckerModifier runs after a test invocation, receiving both the
	// invocation result and the transaction under construction; it
	// decides whether the transaction is accepted (return nil) or
	// rejected (return an error). DefaultCheckerModifier is used when
	// this is nil.
	CheckerModifier func(*result.Invoke, *transaction.Transaction) error
}

// NewDefaultOptions returns Options with CheckerModifier set to
// DefaultCheckerModifier and everything else left zero.
func NewDefaultOptions() Options {
	return Options{CheckerModifier: DefaultCheckerModifier}
}

// DefaultCheckerModifier rejects any invocation that did not end in
// HALT, the baseline safety check every Make*Run/Make*Call applies
// before it will let a script become a sendable transaction.
func DefaultCheckerModifier(r *result.Invoke, _ *transaction.Transaction) error {
	if r.State != "HALT" {
		return errFaultedInvocation(r)
	}
	return nil
}

func errFaultedInvocation(r *result.Invoke) error {
	msg := "actor: invocation faulted"
	if r.FaultException != "" {
		msg += ": " + r.FaultException
	}
	return errors.New(msg)
}
