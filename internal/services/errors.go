package services

import "errors"

// Core error taxonomy. Handlers map these to HTTP status codes; nothing in
// this package retries or swallows a failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrForbidden         = errors.New("forbidden")
)
