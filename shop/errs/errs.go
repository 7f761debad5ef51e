// Package errs defines the error vocabulary shared by the shop services.
// Every error carries a stable code surfaced in handler summary logs.
package errs

import "fmt"

// Error is a domain error with a stable machine-readable code.
type Error struct {
	code string
	msg  string
	err  error
}

// Code returns the stable error code.
func (e *Error) Code() string { return e.code }

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Is matches two domain errors by code, so sentinel comparisons with
// errors.Is work across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

func newErr(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Sentinel errors for the shop domain.
var (
	ErrInvalidPayload  = newErr("INVALID_PAYLOAD", "malformed callback payload")
	ErrInvalidQuantity = newErr("INVALID_QUANTITY", "quantity must be positive")
	ErrItemNotFound    = newErr("ITEM_NOT_FOUND", "catalog item not found")
	ErrEmptyCart       = newErr("EMPTY_CART", "cart is empty")
	ErrPaymentProvider = newErr("PAYMENT_PROVIDER", "payment provider rejected the request")
)

// Store wraps an underlying storage failure with the STORE code.
func Store(op string, err error) *Error {
	return &Error{code: "STORE", msg: "store: " + op, err: err}
}
