package pipeline

import (
	"errors"
	"fmt"
)

// StageError reports a definition or execution failure tied to one stage.
type StageError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Stage is the stage kind ("where", "group_by", ...). Empty for
	// definition-level errors.
	Stage string

	// Index is the zero-based stage position, or -1 when not tied to one.
	Index int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes stage errors.
type ErrorCode string

const (
	// ErrCodeInvalidStage indicates a malformed definition or stage.
	ErrCodeInvalidStage ErrorCode = "INVALID_STAGE"

	// ErrCodeTypeMismatch indicates a value of the wrong type, such as
	// summing a string column.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeUnknownField indicates a referenced field that no input row
	// carries. Only raised when the executor runs with WithStrictFields.
	ErrCodeUnknownField ErrorCode = "UNKNOWN_FIELD"
)

// Error implements the error interface.
func (e *StageError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Index >= 0 && e.Stage != "" {
		return fmt.Sprintf("%s: stage %d (%s): %s", e.Code, e.Index, e.Stage, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// IsInvalidStage returns true if err is a StageError with ErrCodeInvalidStage.
func IsInvalidStage(err error) bool {
	return hasCode(err, ErrCodeInvalidStage)
}

// IsTypeMismatch returns true if err is a StageError with ErrCodeTypeMismatch.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

// IsUnknownField returns true if err is a StageError with ErrCodeUnknownField.
func IsUnknownField(err error) bool {
	return hasCode(err, ErrCodeUnknownField)
}

func hasCode(err error, code ErrorCode) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func invalidStage(index int, stage, format string, args ...any) *StageError {
	return &StageError{
		Code:    ErrCodeInvalidStage,
		Stage:   stage,
		Index:   index,
		Message: fmt.Sprintf(format, args...),
	}
}
