package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    string       `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is allows errors.Is matching against the sentinel errors below by kind
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	if t.Kind != "" {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Error kinds used for programmatic matching
const (
	KindMissingSource        = "MISSING_SOURCE"
	KindReferenceRequired    = "REFERENCE_REQUIRED"
	KindInstrumentRequired   = "INSTRUMENT_REQUIRED"
	KindInvalidTransition    = "INVALID_TRANSITION"
	KindCancellationBlocked  = "CANCELLATION_BLOCKED"
	KindOverpayment          = "OVERPAYMENT"
	KindTripAlreadyRecorded  = "TRIP_ALREADY_RECORDED"
	KindUnsupportedTaxRate   = "UNSUPPORTED_TAX_RATE"
	KindInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrTokenExpired   = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Billing errors
var (
	// ErrMissingSource is returned when an invoice is built without any order
	// reference and without a manual subtotal.
	ErrMissingSource = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindMissingSource, Message: "Invoice source requires at least one order or a manual subtotal"}

	// ErrReferenceRequired is returned when a non-cash payment is recorded
	// without a transaction reference.
	ErrReferenceRequired = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindReferenceRequired, Message: "Reference number is required for non-cash payments"}

	// ErrInvalidTransition is returned when an invoice status change is not
	// permitted from the current status.
	ErrInvalidTransition = &AppError{Code: http.StatusConflict, Kind: KindInvalidTransition, Message: "Invalid invoice status transition"}

	// ErrCancellationBlocked is returned when cancelling an invoice that has
	// payments applied; payments must be reversed first.
	ErrCancellationBlocked = &AppError{Code: http.StatusConflict, Kind: KindCancellationBlocked, Message: "Invoice with recorded payments cannot be cancelled; reverse the payments first"}

	// ErrOverpayment is returned when a payment exceeds the outstanding balance.
	ErrOverpayment = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindOverpayment, Message: "Payment amount exceeds the outstanding balance"}

	// ErrTripAlreadyRecorded is returned when a driver submits a second payment
	// record for the same trip.
	ErrTripAlreadyRecorded = &AppError{Code: http.StatusConflict, Kind: KindTripAlreadyRecorded, Message: "A payment has already been recorded for this trip"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewInvalidTransitionError creates a transition error naming the statuses involved
func NewInvalidTransitionError(from, action string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: "Cannot " + action + " an invoice in " + from + " status",
	}
}

// NewUnprocessableError creates an unprocessable entity error with a custom kind
func NewUnprocessableError(kind, message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    kind,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
