// Package upload implements the document upload client.
//
// This file defines sentinel errors and the UploadError wrapper used to
// classify upload failures. These enable callers to use errors.Is/errors.As
// for typed assertions rather than string matching.
package upload

import (
	"errors"
	"fmt"
)

// Sentinel errors for upload failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrConfig indicates missing or unusable configuration
	// (no auth token, no resolvable recipient).
	ErrConfig = errors.New("configuration error")

	// ErrAccessDenied indicates the file path escapes the sandbox root.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound indicates the file does not exist or is not a regular file.
	ErrNotFound = errors.New("file not found")

	// ErrProtocol indicates a non-JSON or malformed remote response.
	ErrProtocol = errors.New("protocol error")

	// ErrRemote indicates a well-formed remote response reporting failure.
	ErrRemote = errors.New("remote error")

	// ErrTransport indicates a network-level failure (connect, write, read).
	ErrTransport = errors.New("transport error")
)

// BodyExcerptLimit bounds the raw response bytes carried inside an
// UploadError. Errors are logged and rendered; an unbounded body would
// make both unbounded.
const BodyExcerptLimit = 200

// UploadError wraps an underlying error with upload classification.
// It preserves the original error in the chain for inspection via errors.As.
type UploadError struct {
	// Kind is the sentinel error for classification (e.g., ErrRemote).
	Kind error
	// Op is the operation that failed (e.g., "send", "validate").
	Op string
	// Status is the HTTP status code, if a response was received.
	Status int
	// Reason is the HTTP reason phrase or remote description, if any.
	Reason string
	// Body holds at most BodyExcerptLimit bytes of the raw response.
	Body []byte
	// Err is the underlying error, if any.
	Err error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *UploadError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// newError creates a classified upload error with no response context.
func newError(kind error, op string, err error) *UploadError {
	return &UploadError{Kind: kind, Op: op, Err: err}
}
