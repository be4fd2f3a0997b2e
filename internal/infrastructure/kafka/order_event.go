package kafka

import "time"

// OrderEvent notifies downstream collaborators (mail, inventory) about a
// payment-state transition. They trigger their side effects off it; the
// reconciliation core itself stays side-effect free.
type OrderEvent struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Provider      string    `json:"provider"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
