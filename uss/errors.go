package uss

import (
	"errors"
	"fmt"
)

// ErrorCode classifies pipeline failures.
type ErrorCode int

const (
	CodeOutOfOrderTimestamp ErrorCode = iota + 1
	CodeMissingVehicleState
	CodeInvalidInput
	CodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOutOfOrderTimestamp:
		return "OutOfOrderTimestamp"
	case CodeMissingVehicleState:
		return "MissingVehicleState"
	case CodeInvalidInput:
		return "InvalidInput"
	case CodeInternal:
		return "InternalError"
	}
	return "Unknown"
}

// Error carries an error kind and a human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errf builds a classified error.
func Errf(code ErrorCode, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error kind, or CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
