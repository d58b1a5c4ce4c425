package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"group_project_service/pkg/errcodes"
)

type AppError struct {
	Code    failure.ErrorCode
	Message string
	Fields  []FieldError
	cause   error
}

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func NewValidationError(message string, fields ...FieldError) *AppError {
	return &AppError{
		Code:    errcodes.InvalidArgument,
		Message: message,
		Fields:  fields,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or InternalServerError.
func CodeOf(err error) failure.ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return errcodes.InternalServerError
}
