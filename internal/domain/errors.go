package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures so callers can branch without string matching.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindConflict            Kind = "CONFLICT"
	KindNotFound            Kind = "NOT_FOUND"
	KindForbidden           Kind = "FORBIDDEN"
	KindGatewayVerification Kind = "GATEWAY_VERIFICATION"
	KindAmountMismatch      Kind = "AMOUNT_MISMATCH"
	KindTransientStorage    Kind = "TRANSIENT_STORAGE"
)

// Error is the single error type crossing service boundaries. Code is the
// stable machine-readable identifier surfaced to API clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindGatewayVerification:
		return http.StatusUnauthorized
	case KindAmountMismatch:
		return http.StatusUnprocessableEntity
	case KindTransientStorage:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Booking-creation failure codes. The codes are part of the API contract.
var (
	ErrInvalidWindow   = newError(KindValidation, "InvalidWindow", "booking window is invalid")
	ErrSlotUnavailable = newError(KindConflict, "SlotUnavailable", "slot no longer available")
	ErrCourtInactive   = newError(KindValidation, "CourtInactive", "court is not open for booking")
)

var (
	ErrBookingNotFound  = newError(KindNotFound, "BookingNotFound", "booking not found")
	ErrPaymentNotFound  = newError(KindNotFound, "PaymentNotFound", "payment not found")
	ErrRefundNotFound   = newError(KindNotFound, "RefundNotFound", "refund not found")
	ErrCourtNotFound    = newError(KindNotFound, "CourtNotFound", "court not found")
	ErrFacilityNotFound = newError(KindNotFound, "FacilityNotFound", "facility not found")
	ErrNotOwner         = newError(KindForbidden, "NotOwner", "actor does not own this resource")

	ErrBadSignature   = newError(KindGatewayVerification, "BadSignature", "webhook signature verification failed")
	ErrAmountMismatch = newError(KindAmountMismatch, "AmountMismatch", "captured amount does not match expected total")

	ErrInvalidTransition = newError(KindConflict, "InvalidTransition", "booking state does not permit this transition")
	ErrRefundExceeds     = newError(KindValidation, "RefundExceedsBalance", "refund exceeds remaining captured balance")
	ErrRefundNotCaptured = newError(KindValidation, "PaymentNotCaptured", "refund requires a captured payment")
)

// Validationf builds a one-off validation error with a dynamic message.
func Validationf(code, format string, args ...any) *Error {
	return newError(KindValidation, code, fmt.Sprintf(format, args...))
}

// Transient wraps a storage error so the transport layer returns a retryable
// status.
func Transient(err error) *Error {
	return &Error{Kind: KindTransientStorage, Code: "StorageUnavailable", Message: "storage operation failed", Err: err}
}

// KindOf extracts the kind from any error in the chain; plain errors report
// as transient storage failures, the conservative default for retries.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindTransientStorage
}

// AsDomain returns the domain error in the chain, or wraps err as transient.
func AsDomain(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return Transient(err)
}
