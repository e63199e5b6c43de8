package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_FormatsOffset(t *testing.T) {
	withOffset := &Error{Code: CodeSyntax, Message: "boom", Offset: 7}
	assert.Equal(t, "PIPELINE_SYNTAX: boom (offset 7)", withOffset.Error())

	noOffset := &Error{Code: CodeExecFailed, Message: "boom"}
	assert.Equal(t, "EXEC_FAILED: boom", noOffset.Error())
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		code Code
		pred func(error) bool
	}{
		{CodeInvalidContext, IsInvalidContext},
		{CodeSyntax, IsSyntaxError},
		{CodeAnchorMismatch, IsAnchorMismatch},
		{CodeVerifyFailed, IsVerifyFailure},
		{CodeExecFailed, IsExecFailure},
		{CodeInvalidHandle, IsInvalidHandle},
	}
	for _, tt := range tests {
		err := newError(tt.code, "x")
		assert.True(t, tt.pred(err), tt.code)
		assert.False(t, tt.pred(newError("OTHER", "x")), tt.code)

		// Predicates unwrap.
		assert.True(t, tt.pred(fmt.Errorf("wrapped: %w", err)), tt.code)
	}
	assert.False(t, IsSyntaxError(nil))
	assert.False(t, IsSyntaxError(fmt.Errorf("plain")))
}

func TestDiagnosticBuffer(t *testing.T) {
	b := &DiagnosticBuffer{}
	assert.True(t, b.Empty())
	assert.Equal(t, "", b.Join())

	b.Append("first %d", 1)
	b.Append("second")
	assert.False(t, b.Empty())
	assert.Equal(t, "first 1\nsecond", b.Join())
}
