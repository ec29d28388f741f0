package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "nothing"))

	base := stderrors.New("disk full")
	wrapped := errors.Wrap(base, errors.CodeChangeSetReadError, "reading plan")
	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeChangeSetReadError, wrapped.Code)
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "[CHANGESET_READ_ERROR] reading plan: disk full", wrapped.Error())

	again := errors.Wrap(wrapped, errors.CodeInternal, "outer")
	assert.Same(t, wrapped, again)
}

func TestGetUserFacingMessage(t *testing.T) {
	inner := errors.NewUserFacing(errors.CodeExceptionParseError, "exception document is not a list", "Wrap the records in an array.")
	outer := errors.Wrap(inner, errors.CodeInternal, "loading")

	msg, suggestion, ok := errors.GetUserFacingMessage(outer)
	assert.True(t, ok)
	assert.Equal(t, "exception document is not a list", msg)
	assert.Equal(t, "Wrap the records in an array.", suggestion)

	internal := errors.Wrap(stderrors.New("boom"), errors.CodeInternal, "engine")
	_, _, ok = errors.GetUserFacingMessage(internal)
	assert.False(t, ok)

	promoted := errors.WrapUserFacing(internal, errors.CodeRuleEvaluationError, "rule failed", "")
	msg, _, ok = errors.GetUserFacingMessage(promoted)
	assert.True(t, ok)
	assert.Equal(t, "rule failed", msg)
	assert.Equal(t, internal.StackTrace, promoted.StackTrace)
}

func TestCodeHelpers(t *testing.T) {
	err := errors.Newf(errors.CodeUnknownRule, "rule %q", "x")
	assert.True(t, errors.Is(err, errors.CodeUnknownRule))
	assert.False(t, errors.Is(err, errors.CodeInternal))
	assert.Equal(t, errors.CodeUnknownRule, errors.GetCode(err))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	var appErr *errors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, `rule "x"`, appErr.Message)
}
