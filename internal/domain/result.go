package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed tool invocation for rendering.
type ErrorKind string

const (
	ErrNotFound        ErrorKind = "not_found"
	ErrFutureDate      ErrorKind = "future_date"
	ErrUnparseableDate ErrorKind = "unparseable_date"
	ErrOutOfRange      ErrorKind = "out_of_range"
	ErrUpstream        ErrorKind = "upstream"
	ErrFormat          ErrorKind = "format"
)

// ToolError is a classified, user-reportable tool failure.
type ToolError struct {
	Kind    ErrorKind
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewToolError(kind ErrorKind, format string, args ...any) *ToolError {
	return &ToolError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsToolError converts any error into a *ToolError. Errors that do not
// already carry a taxonomy kind become upstream failures.
func AsToolError(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return &ToolError{Kind: ErrUpstream, Message: err.Error()}
}

// ToolResult is the outcome of one dispatch cycle. Exactly one of Payload
// and Err is set. Transient: it exists only within the turn that produced it.
type ToolResult struct {
	Function string
	Payload  any
	Err      *ToolError
}

func (r ToolResult) OK() bool { return r.Err == nil }

func Success(function string, payload any) ToolResult {
	return ToolResult{Function: function, Payload: payload}
}

func Failure(function string, err error) ToolResult {
	return ToolResult{Function: function, Err: AsToolError(err)}
}
