package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindPrecondition      Kind = "precondition"
	KindGatewayIO         Kind = "gateway_io"
	KindUnsupportedMethod Kind = "unsupported_method"
)

// Error represents an application error with an HTTP status code.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation signals malformed or missing input (empty item list, duplicate product ids).
func Validation(message string, err error) *Error {
	return New(KindValidation, http.StatusBadRequest, message, err)
}

// NotFound signals an absent order, ledger entry, or transaction detail.
func NotFound(message string, err error) *Error {
	return New(KindNotFound, http.StatusNotFound, message, err)
}

// Precondition signals a violated state-machine guard (wrong order status,
// insufficient balance, mismatched payment key).
func Precondition(message string, err error) *Error {
	return New(KindPrecondition, http.StatusConflict, message, err)
}

// GatewayIO signals a failed payment-gateway call or an unsuccessful HTTP status.
func GatewayIO(message string, err error) *Error {
	return New(KindGatewayIO, http.StatusBadGateway, message, err)
}

// UnsupportedMethod signals a payment method with no registered transaction-detail
// store. This is a configuration error, not a per-request condition.
func UnsupportedMethod(message string, err error) *Error {
	return New(KindUnsupportedMethod, http.StatusInternalServerError, message, err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
