package attest

import (
	"errors"
	"strings"
)

// Kind classifies failures so callers can map them to responses without
// inspecting messages.
type Kind string

const (
	KindConfig            Kind = "config"
	KindUpstreamAuth      Kind = "upstream_auth"
	KindUpstream          Kind = "upstream"
	KindConflict          Kind = "conflict"
	KindLedgerUnavailable Kind = "ledger_unavailable"
	KindPersistence       Kind = "persistence"
	KindNotFound          Kind = "not_found"
	KindInvalidArgument   Kind = "invalid_argument"
)

// Error is the error type returned across the attestation pipeline.
// EntityKey is set when a ledger write succeeded but a later step failed,
// so the orphaned entity can be reconciled.
type Error struct {
	Kind      Kind
	Op        string
	Message   string
	EntityKey string
	Err       error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrConfig            = &Error{Kind: KindConfig}
	ErrUpstreamAuth      = &Error{Kind: KindUpstreamAuth}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrLedgerUnavailable = &Error{Kind: KindLedgerUnavailable}
	ErrPersistence       = &Error{Kind: KindPersistence}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
)

// NewError builds an *Error of the given kind.
func NewError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.EntityKey != "" {
		b.WriteString(" (entity key ")
		b.WriteString(e.EntityKey)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == "" && t.Err == nil
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// EntityKeyOf returns the ledger entity key carried by err, if any.
func EntityKeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.EntityKey
	}
	return ""
}
