package domain

import "errors"

var (
	ErrUnauthorized        = errors.New("notification signature rejected")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderExists         = errors.New("order already exists")
	ErrOrderHasNoItems     = errors.New("order has no items")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrProviderRejected    = errors.New("payment rejected by provider")
	ErrInvalidRequest      = errors.New("invalid payment request")
	ErrUnknownProvider     = errors.New("unknown payment provider")
	ErrCancelOrder         = errors.New("order cannot be cancelled")
	ErrNotRefundable       = errors.New("order is not refundable")
)
