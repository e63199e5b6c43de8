package pipeline

import (
	"errors"
	"fmt"
)

// Code categorizes pipeline errors.
type Code string

const (
	// CodeInvalidContext indicates manager construction without a context.
	CodeInvalidContext Code = "INVALID_CONTEXT"

	// CodeSyntax indicates malformed pipeline text or an unknown pass name.
	CodeSyntax Code = "PIPELINE_SYNTAX"

	// CodeAnchorMismatch indicates the target module's root operation kind
	// does not match the pipeline's anchor.
	CodeAnchorMismatch Code = "ANCHOR_MISMATCH"

	// CodeVerifyFailed indicates the structural verifier rejected the IR
	// after a pass ran (only when verification is enabled).
	CodeVerifyFailed Code = "VERIFY_FAILED"

	// CodeExecFailed indicates a pass reported failure during a run.
	CodeExecFailed Code = "EXEC_FAILED"

	// CodeInvalidHandle indicates ownership-boundary misuse: a nil, consumed,
	// or foreign handle, or use of a manager after its ownership was released.
	CodeInvalidHandle Code = "INVALID_HANDLE"
)

// Error is the structured error for every failure the pipeline core reports.
//
// Diagnostics carries the joined DiagnosticBuffer of the failing call.
// Offset is a best-effort 1-based position into the pipeline text for
// syntax errors, 0 otherwise.
type Error struct {
	Code        Code
	Message     string
	Diagnostics string
	Offset      int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Code, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func newSyntaxError(offset int, diags *DiagnosticBuffer, format string, args ...any) *Error {
	e := &Error{Code: CodeSyntax, Message: fmt.Sprintf(format, args...), Offset: offset}
	if diags != nil {
		e.Diagnostics = diags.Join()
	}
	return e
}

// errCode reports whether err is (or wraps) a pipeline Error with the code.
func errCode(err error, code Code) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsInvalidContext reports an INVALID_CONTEXT error.
func IsInvalidContext(err error) bool { return errCode(err, CodeInvalidContext) }

// IsSyntaxError reports a PIPELINE_SYNTAX error.
func IsSyntaxError(err error) bool { return errCode(err, CodeSyntax) }

// IsAnchorMismatch reports an ANCHOR_MISMATCH error.
func IsAnchorMismatch(err error) bool { return errCode(err, CodeAnchorMismatch) }

// IsVerifyFailure reports a VERIFY_FAILED error.
func IsVerifyFailure(err error) bool { return errCode(err, CodeVerifyFailed) }

// IsExecFailure reports an EXEC_FAILED error.
func IsExecFailure(err error) bool { return errCode(err, CodeExecFailed) }

// IsInvalidHandle reports an INVALID_HANDLE error.
func IsInvalidHandle(err error) bool { return errCode(err, CodeInvalidHandle) }
