// Package errors defines the failure taxonomy shared by the ledger engine,
// the application facade and the HTTP adapter.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind groups failures by how a caller is expected to react to them.
type Kind string

const (
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
	KindDomainValidation  Kind = "DOMAIN_VALIDATION"
	KindStoreFault        Kind = "STORE_FAULT"
)

// Retryable reports whether a caller may safely retry after this kind of
// failure. Only store faults qualify; the engine itself never retries.
func (k Kind) Retryable() bool {
	return k == KindStoreFault
}

// DomainError is a classified failure with a stable machine-readable code.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so wrapped or
// re-messaged copies still compare equal to the package sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Wrap returns a copy of e that carries cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

// StoreFault wraps an error coming out of the persistence boundary. Errors
// that are already classified pass through unchanged.
func StoreFault(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return ErrStoreFault.Wrap(err)
}

// KindOf classifies err. Unclassified errors are reported as store faults.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindStoreFault
}

// CodeOf returns the code of the outermost DomainError in err's chain.
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ErrStoreFault.Code
}
