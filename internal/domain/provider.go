package domain

import (
	"context"
	"net/http"
)

// PaymentResult is the provider-agnostic outcome of a payment attempt.
type PaymentResult string

const (
	ResultSucceeded PaymentResult = "succeeded"
	ResultFailed    PaymentResult = "failed"
	ResultPending   PaymentResult = "pending"
)

type Customer struct {
	Name  string
	Email string
}

type RedirectTargets struct {
	SuccessURL string
	CancelURL  string
}

type CreateIntentRequest struct {
	OrderID  string
	Amount   float64
	Currency string
	Customer Customer
	Redirect RedirectTargets
}

// PaymentIntent is the provider-side handle created before the client pays.
// HostedURL is empty for direct-charge providers.
type PaymentIntent struct {
	ProviderRef string
	HostedURL   string
}

type CaptureResult struct {
	Status        PaymentResult
	PaymentID     string
	TransactionID string
	Amount        float64
	Currency      string
	PaymentMethod string
}

// Notification is the normalized form of an inbound provider webhook.
// Either OrderID or ProviderRef is set; a nil Notification from
// ParseNotification means the event type is not payment-relevant.
type Notification struct {
	Provider      Provider
	OrderID       string
	ProviderRef   string
	PaymentID     string
	Status        PaymentResult
	TransactionID string
	Amount        float64
	Currency      string
	PaymentMethod string
}

// PaymentProvider abstracts a payment processor behind one capability set.
// Variants that have no real work for an operation implement it as a safe
// no-op reporting the already-known state.
type PaymentProvider interface {
	Name() Provider

	CreateIntent(ctx context.Context, req *CreateIntentRequest) (*PaymentIntent, error)

	// ConfirmOrCapture settles the payment for two-phase providers. A
	// repeated call for an already-captured payment returns the prior
	// success result, not an error.
	ConfirmOrCapture(ctx context.Context, providerRef string) (*CaptureResult, error)

	// CheckStatus is the read-only polling fallback, safe to call repeatedly.
	CheckStatus(ctx context.Context, providerRef string) (PaymentResult, error)

	// VerifyNotification reports whether an inbound webhook is authentic.
	// A missing or malformed signature yields false, never a panic or error.
	VerifyNotification(payload []byte, headers http.Header) bool

	ParseNotification(payload []byte) (*Notification, error)
}
