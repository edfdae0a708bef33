package source

import (
	"errors"
	"fmt"
)

// LoadError reports a dataset that could not be loaded.
type LoadError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Path is the file or database involved.
	Path string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes load errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the file does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnsupportedFormat indicates an unknown file extension.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeDecodeFailed indicates malformed content or an unsupported
	// value shape.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"

	// ErrCodeUnknownTable indicates a table name missing from the database.
	ErrCodeUnknownTable ErrorCode = "UNKNOWN_TABLE"
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is a LoadError with ErrCodeNotFound.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeNotFound
	}
	return false
}

// IsUnknownTable returns true if err is a LoadError with ErrCodeUnknownTable.
func IsUnknownTable(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeUnknownTable
	}
	return false
}

func decodeFailed(path, message string, err error) *LoadError {
	return &LoadError{Code: ErrCodeDecodeFailed, Path: path, Message: message, Err: err}
}
