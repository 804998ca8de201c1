package memento

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeIllegalState indicates the engine is not in a state that allows the operation.
	ErrCodeIllegalState ErrorCode = "ILLEGAL_STATE"

	// ErrCodeInvalidArgument indicates a required argument was missing or unusable.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeProtocolViolation indicates an event broke the rollback contract,
	// e.g. a leaf event whose rollback yields a Batch.
	ErrCodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
)

// Error is a programming-contract violation reported by the engine or an event.
//
// Errors are never transient: retrying the same call in the same state fails
// the same way.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the operation that failed (e.g. "undo", "begin_batch").
	Op string

	// Message is a human-readable description.
	Message string

	// Param names the offending argument for invalid-argument errors.
	Param string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Param != "":
		return fmt.Sprintf("%s: %s: %s (param=%s)", e.Code, e.Op, e.Message, e.Param)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	case e.Param != "":
		return fmt.Sprintf("%s: %s (param=%s)", e.Code, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common errors for history operations.
var (
	ErrNothingToUndo = &Error{Code: ErrCodeIllegalState, Op: "undo", Message: "there is nothing to undo"}
	ErrNothingToRedo = &Error{Code: ErrCodeIllegalState, Op: "redo", Message: "there is nothing to redo"}
	ErrNestedBatch   = &Error{Code: ErrCodeIllegalState, Op: "begin_batch", Message: "re-entrant batch is not supported"}
	ErrNoActiveBatch = &Error{Code: ErrCodeIllegalState, Op: "end_batch", Message: "a batch has not been started yet"}
	ErrBatchActive   = &Error{Code: ErrCodeIllegalState, Message: "finish the active batch first"}
)

// IsIllegalState reports whether err is an illegal-state error.
// Protocol violations count as illegal state: they surface while the engine
// is rolling back and leave it unable to continue the operation.
func IsIllegalState(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeIllegalState || e.Code == ErrCodeProtocolViolation
	}
	return false
}

// IsInvalidArgument reports whether err is an invalid-argument error.
func IsInvalidArgument(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeInvalidArgument
	}
	return false
}

// IsProtocolViolation reports whether err is a rollback protocol violation.
func IsProtocolViolation(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeProtocolViolation
	}
	return false
}

func newArgumentError(param, message string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: message, Param: param}
}

func newNilArgumentError(param string) *Error {
	return newArgumentError(param, "value must not be nil")
}

func newProtocolError(op string) *Error {
	return &Error{Code: ErrCodeProtocolViolation, Op: op, Message: "leaf event rollback must not return a Batch"}
}
