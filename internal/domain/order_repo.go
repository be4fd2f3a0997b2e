package domain

import (
	"context"
	"time"
)

// OrderRepository owns all writes to the order, order_items and payments
// tables. Every mutation is a single atomic statement or transaction so
// concurrent webhook redelivery and client-return handling never race on
// read-then-write from the caller's side.
type OrderRepository interface {
	// CreateOrderWithItems inserts the order and its items in one
	// transaction. A duplicate order id yields ErrOrderExists so the
	// loser of a concurrent create can re-read the winner's row.
	// An order without items is rejected with ErrOrderHasNoItems.
	CreateOrderWithItems(ctx context.Context, order *Order) error

	GetOrderByID(ctx context.Context, orderID string) (*Order, error)

	// SettlePayment applies a payment outcome as one conditional update.
	// The guard payment_status NOT IN (paid, refunded) enforces
	// monotonicity in the store itself. Returns false when the guard
	// rejected the write.
	SettlePayment(ctx context.Context, orderID string, payment PaymentStatus, status OrderStatus, transactionID string) (bool, error)

	// AppendPayment inserts a payment attempt if absent, keyed by
	// (order_id, payment_id). Returns false for a duplicate.
	AppendPayment(ctx context.Context, payment *Payment) (bool, error)

	// MarkRefunded moves paid to refunded; false when the order is not paid.
	MarkRefunded(ctx context.Context, orderID string) (bool, error)

	// CancelOrder cancels a pending, unpaid order; false when the guard fails.
	CancelOrder(ctx context.Context, orderID string) (bool, error)

	ListOrders(ctx context.Context, filters OrderFilters, page, limit int) ([]*Order, int64, error)

	// CancelExpired cancels pending/pending orders created before the
	// cutoff and reports how many were affected.
	CancelExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
