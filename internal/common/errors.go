package common

import (
	"errors"
	"fmt"
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

const (
	CodeDocument   = "DOCUMENT_ERROR"
	CodeExtraction = "EXTRACTION_ERROR"
	CodeBackend    = "BACKEND_ERROR"
	CodeItem       = "ITEM_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

// Error taxonomy. Document and extraction errors are fatal for one document;
// backend and item errors are recovered from and reported as warnings.
var (
	ErrDocument     = errors.New("document error")
	ErrExtraction   = errors.New("extraction error")
	ErrBackend      = errors.New("backend error")
	ErrItem         = errors.New("item error")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported format")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// DocumentError: file missing, unreadable, unsupported or oversize.
func DocumentError(message string, cause error) *AppError {
	return NewAppError(CodeDocument, message, join(ErrDocument, cause))
}

// ExtractionError: the reader failed or produced no usable text.
func ExtractionError(message string, cause error) *AppError {
	return NewAppError(CodeExtraction, message, join(ErrExtraction, cause))
}

// BackendError: model backend unavailable or its output unparseable.
func BackendError(message string, cause error) *AppError {
	return NewAppError(CodeBackend, message, join(ErrBackend, cause))
}

// ItemError: a single candidate failed normalization.
func ItemError(message string, cause error) *AppError {
	return NewAppError(CodeItem, message, join(ErrItem, cause))
}

// IsFatal reports whether err aborts processing of the current document.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDocument) || errors.Is(err, ErrExtraction)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func join(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}
