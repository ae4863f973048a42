package difftypes

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable error taxonomy every layer of the engine
// and its collaborators report through (§7).
type ErrorKind string

const (
	ErrInvalidInput    ErrorKind = "ERR_INVALID_INPUT"
	ErrParseFailure    ErrorKind = "ERR_PARSE_FAILURE"
	ErrAnalysisFailure ErrorKind = "ERR_ANALYSIS_FAILURE"
	ErrResourceLimit   ErrorKind = "ERR_RESOURCE_LIMIT"
	ErrCancelled       ErrorKind = "ERR_CANCELLED"
	ErrCollaborator    ErrorKind = "ERR_COLLABORATOR"
	ErrInternal        ErrorKind = "ERR_INTERNAL"
)

// Sentinel errors for errors.Is comparisons against the kind alone, mirroring
// the package-level sentinel-plus-code pattern used elsewhere in this
// codebase's error handling.
var (
	ErrSentinelInvalidInput    = errors.New("invalid input")
	ErrSentinelParseFailure    = errors.New("parse failure")
	ErrSentinelAnalysisFailure = errors.New("analysis failure")
	ErrSentinelResourceLimit   = errors.New("resource limit exceeded")
	ErrSentinelCancelled       = errors.New("operation cancelled")
	ErrSentinelCollaborator    = errors.New("collaborator error")
	ErrSentinelInternal        = errors.New("internal error")
)

var sentinelByKind = map[ErrorKind]error{
	ErrInvalidInput:    ErrSentinelInvalidInput,
	ErrParseFailure:    ErrSentinelParseFailure,
	ErrAnalysisFailure: ErrSentinelAnalysisFailure,
	ErrResourceLimit:   ErrSentinelResourceLimit,
	ErrCancelled:       ErrSentinelCancelled,
	ErrCollaborator:    ErrSentinelCollaborator,
	ErrInternal:        ErrSentinelInternal,
}

// Error is the typed error every exported operation in this module returns
// on failure. Kind is stable and machine-readable; Context carries free-form
// diagnostic fields (file path, node count, limit hit, …); Wrapped is the
// underlying cause, if any.
type Error struct {
	Kind    ErrorKind
	Message string
	Context map[string]string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is the sentinel associated with e.Kind, so
// callers can write errors.Is(err, difftypes.ErrSentinelResourceLimit)
// without needing to type-assert to *Error first.
func (e *Error) Is(target error) bool {
	return sentinelByKind[e.Kind] == target
}

// NewError constructs an *Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError constructs an *Error of the given kind wrapping cause.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: cause}
}

// WithContext returns a copy of e with key=value merged into Context.
func (e *Error) WithContext(key, value string) *Error {
	cp := *e
	cp.Context = make(map[string]string, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}
