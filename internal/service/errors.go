package service

import (
	"errors"
	"fmt"
)

// Code classifies a failure for transport mapping and audit records.
type Code string

const (
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeResourceLimit Code = "RESOURCE_LIMIT"
	CodeUpstream      Code = "UPSTREAM_ERROR"
	CodeMalformed     Code = "MALFORMED_RESPONSE"
	CodeBusy          Code = "BUSY"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Generic text shown when model output is unusable. Details go to the log.
const msgMalformed = "The model returned an invalid storefront. Please try again."

// Error is a classified service failure. Message is safe to show to users.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the classification of err, or CodeInternal.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing text of err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
