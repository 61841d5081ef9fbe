package apperror

import "net/http"

// Kind classifies an error for HTTP mapping and logging.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
)

// AppError is a custom error type that includes an error kind, an HTTP status
// code and an optional metadata payload (e.g. the occupying patient on a bed
// conflict).
type AppError struct {
	Kind    Kind
	Code    int               // HTTP Status Code (e.g., 400, 404)
	Message string            // User-facing error message
	Meta    map[string]string // Extra payload exposed to the caller
	Err     error             // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is makes sentinel comparison via errors.Is work for copies produced by
// WithMeta: two AppErrors match when kind and message agree.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// WithMeta returns a copy of the error carrying the given metadata. The
// original sentinel stays untouched so errors.Is still matches it.
func (e *AppError) WithMeta(meta map[string]string) *AppError {
	clone := *e
	clone.Meta = meta
	return &clone
}

// New creates a new AppError with an explicit kind and status code.
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NotFound creates an AppError for an unknown resource or record id.
func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message)
}

// Conflict creates an AppError for an overlap or duplicate-slot rejection.
func Conflict(message string) *AppError {
	return New(KindConflict, http.StatusConflict, message)
}

// InvalidState creates an AppError for an illegal lifecycle transition.
func InvalidState(message string) *AppError {
	return New(KindInvalidState, http.StatusConflict, message)
}

// Validation creates an AppError for malformed or backdated input.
func Validation(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message)
}

// Wrap creates an internal AppError wrapping an existing error.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}
