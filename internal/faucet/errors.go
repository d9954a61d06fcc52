package faucet

import (
	"errors"
	"fmt"
)

// Kind classifies faucet failures.
type Kind int

const (
	// KindUnknown is any failure not classified below.
	KindUnknown Kind = iota
	// KindNotFound means the faucet object does not exist.
	KindNotFound
	// KindTypeMismatch means the object exists but is not a Move object.
	KindTypeMismatch
	// KindNoPriorClaim means the last-claim simulation produced no value.
	// Callers treat it as "never claimed".
	KindNoPriorClaim
	// KindSubmissionRejected means the wallet or node refused a transaction.
	KindSubmissionRejected
	// KindInvalidInput means a user-entered value failed validation.
	KindInvalidInput
	// KindNetwork means the node could not be reached.
	KindNetwork
	// KindNotConnected means no wallet is connected.
	KindNotConnected
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindNoPriorClaim:
		return "no_prior_claim"
	case KindSubmissionRejected:
		return "submission_rejected"
	case KindInvalidInput:
		return "invalid_input"
	case KindNetwork:
		return "network"
	case KindNotConnected:
		return "not_connected"
	default:
		return "unknown"
	}
}

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Kind, so errors.Is(err,
// &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

func newError(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Message returns the text shown to the user for err, or fallback when err
// carries no text.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
