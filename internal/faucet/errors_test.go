package faucet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("connection refused")

	assert.Equal(t, "custom", (&Error{Kind: KindNetwork, Msg: "custom", Err: cause}).Error())
	assert.Equal(t, "connection refused", (&Error{Kind: KindNetwork, Err: cause}).Error())
	assert.Equal(t, "not_found", (&Error{Kind: KindNotFound}).Error())
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindTypeMismatch})

	assert.Equal(t, KindTypeMismatch, KindOf(err))
	assert.True(t, IsKind(err, KindTypeMismatch))
	assert.False(t, IsKind(err, KindNotFound))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindUnknown))
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := &Error{Kind: KindSubmissionRejected, Op: "claim", Msg: "rejected", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Kind: KindSubmissionRejected})
	assert.NotErrorIs(t, err, &Error{Kind: KindNetwork})
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "fallback", Message(nil, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New(""), "fallback"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "fallback"))
}

func TestKind_String(t *testing.T) {
	kinds := map[Kind]string{
		KindUnknown:            "unknown",
		KindNotFound:           "not_found",
		KindTypeMismatch:       "type_mismatch",
		KindNoPriorClaim:       "no_prior_claim",
		KindSubmissionRejected: "submission_rejected",
		KindInvalidInput:       "invalid_input",
		KindNetwork:            "network",
		KindNotConnected:       "not_connected",
	}
	for k, want := range kinds {
		assert.Equal(t, want, k.String())
	}
}
