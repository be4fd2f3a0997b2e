package domain

import "time"

type Provider string

const (
	ProviderPayPal  Provider = "paypal"
	ProviderTilopay Provider = "tilopay"
	ProviderOnvopay Provider = "onvopay"
	ProviderStripe  Provider = "stripe"
)

// Payment is one attempt in the append-only payment log of an order.
// (OrderID, PaymentID) is the idempotency key: redelivered notifications
// for the same attempt collapse into one row.
type Payment struct {
	ID            string
	OrderID       string
	PaymentID     string
	Amount        float64
	Currency      string
	Status        string
	Provider      Provider
	TransactionID string
	PaymentMethod string
	CreatedAt     time.Time
}
