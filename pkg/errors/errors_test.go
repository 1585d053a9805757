package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeTriggerNotFound, "trigger not found")
	assert.Equal(t, "[DOCKET_001] trigger not found", err.Error())

	withDetail := err.WithDetail("id=7f3a")
	assert.Equal(t, "[DOCKET_001] trigger not found: id=7f3a", withDetail.Error())
	assert.Empty(t, err.Detail, "WithDetail clones rather than mutating")
}

func TestWrapPreservesCodeOnUnknown(t *testing.T) {
	inner := New(ErrCodeRecalculationConflict, "completed deadlines present")
	wrapped := Wrap(inner, CodeUnknown, "recalculation failed")

	assert.Equal(t, ErrCodeRecalculationConflict, wrapped.Code)
	assert.Same(t, inner, stderrors.Unwrap(wrapped))
}

func TestWrapOverridesCodeWhenGiven(t *testing.T) {
	inner := New(ErrCodeDatabaseError, "connection reset")
	wrapped := Wrap(inner, ErrCodeCascadeExpansionFailed, "cascade not committed")

	assert.Equal(t, ErrCodeCascadeExpansionFailed, wrapped.Code)
	assert.True(t, IsCode(wrapped, ErrCodeDatabaseError), "inner code remains visible through the chain")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestIsCodeTraversesChain(t *testing.T) {
	base := New(ErrCodeJurisdictionNotOnboarded, "atlantis not onboarded")
	mid := fmt.Errorf("loading rules: %w", base)
	top := Wrap(mid, ErrCodeInternal, "request failed")

	assert.True(t, IsCode(top, ErrCodeJurisdictionNotOnboarded))
	assert.False(t, IsCode(top, ErrCodeValidation))
}

func TestClassHelpers(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeRuleTemplateNotFound, "missing")))
	assert.True(t, IsConflict(New(ErrCodeRecalculationConflict, "conflict")))
	assert.True(t, IsValidation(New(ErrCodeInvalidDate, "bad date")))
	assert.False(t, IsNotFound(New(ErrCodeInternal, "boom")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeTriggerNotFound, GetCode(New(ErrCodeTriggerNotFound, "missing")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, 404, HTTPStatusForCode(ErrCodeTriggerNotFound))
	assert.Equal(t, 409, HTTPStatusForCode(ErrCodeRecalculationConflict))
	assert.Equal(t, 400, HTTPStatusForCode(ErrCodeInvalidDate))
	assert.Equal(t, 500, HTTPStatusForCode(ErrorCode("NOT_A_CODE")))
}

func TestStackCaptured(t *testing.T) {
	err := Internal("boom")
	require.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Stack, "errors_test.go")
}
