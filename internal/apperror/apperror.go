package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can map it to a status code
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidUpload
	KindInvalidParameter
	KindValidationSchema
	KindEncoding
	KindArchiveBuild
	KindProcessing
)

func (k Kind) String() string {
	switch k {
	case KindInvalidUpload:
		return "InvalidUpload"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindValidationSchema:
		return "ValidationSchemaError"
	case KindEncoding:
		return "EncodingError"
	case KindArchiveBuild:
		return "ArchiveBuildError"
	case KindProcessing:
		return "ProcessingError"
	default:
		return "InternalError"
	}
}

// Param describes the offending value of an InvalidParameter error
type Param struct {
	Name       string
	Value      any
	Constraint string
}

// Error is the single error type returned across package boundaries.
// Message is user facing and localized; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Param   *Param
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidUpload reports a missing, malformed or unreadable upload
func InvalidUpload(message string) *Error {
	return &Error{Kind: KindInvalidUpload, Status: http.StatusBadRequest, Message: message}
}

// UploadTooLarge reports an upload above the configured size limit
func UploadTooLarge(message string) *Error {
	return &Error{Kind: KindInvalidUpload, Status: http.StatusRequestEntityTooLarge, Message: message}
}

// InvalidParameter reports a value outside its domain constraint
func InvalidParameter(name string, value any, constraint string) *Error {
	return &Error{
		Kind:    KindInvalidParameter,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("%s %s (recebido: %v)", name, constraint, value),
		Param:   &Param{Name: name, Value: value, Constraint: constraint},
	}
}

// ValidationSchema reports a request whose shape could not be bound or validated
func ValidationSchema(message string, err error) *Error {
	return &Error{Kind: KindValidationSchema, Status: http.StatusUnprocessableEntity, Message: message, Err: err}
}

func Encoding(message string, err error) *Error {
	return &Error{Kind: KindEncoding, Status: http.StatusInternalServerError, Message: message, Err: err}
}

func ArchiveBuild(message string, err error) *Error {
	return &Error{Kind: KindArchiveBuild, Status: http.StatusInternalServerError, Message: message, Err: err}
}

func Processing(message string, err error) *Error {
	return &Error{Kind: KindProcessing, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Is reports whether err carries an *Error of the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// StatusOf returns the HTTP status for err, 500 when err is unclassified
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
