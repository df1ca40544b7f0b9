package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error codes surfaced to callers when the pipeline cannot produce a report.
const (
	CodeFetchFailure      = "FETCH_FAILURE"
	CodeConversionFailure = "CONVERSION_FAILURE"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrFetch        = errors.New("document fetch failed")
	ErrConversion   = errors.New("document conversion failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// FetchError reports a document that could not be retrieved.
func FetchError(message string, cause error) *AppError {
	return NewAppError(CodeFetchFailure, message, errors.Join(ErrFetch, cause))
}

// ConversionError reports document bytes that could not be rasterized.
func ConversionError(message string, cause error) *AppError {
	return NewAppError(CodeConversionFailure, message, errors.Join(ErrConversion, cause))
}

// UserMessage returns the message callers see in the {"error": ...} body.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatus maps pipeline failures onto gRPC status codes.
func ToStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFetch):
		return status.Error(codes.Unavailable, UserMessage(err))
	case errors.Is(err, ErrConversion):
		return status.Error(codes.InvalidArgument, UserMessage(err))
	case errors.Is(err, ErrInvalidInput):
		return InvalidArgumentError(UserMessage(err))
	default:
		return InternalError(UserMessage(err))
	}
}
