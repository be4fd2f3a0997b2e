package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID            string
	OrderNumber   string
	UserID        string
	TotalAmount   float64
	Currency      string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TransactionID string
	Items         []OrderItem
	Payments      []Payment
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Paid reports whether the order reached a payment state that must never
// be downgraded. Refunded counts: it is only reachable from paid.
func (o *Order) Paid() bool {
	return o.PaymentStatus == PaymentPaid || o.PaymentStatus == PaymentRefunded
}

// Cancellable guards the status machine: paid orders must go through a
// refund first, they are never cancelled directly.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending &&
		(o.PaymentStatus == PaymentPending || o.PaymentStatus == PaymentFailed)
}

// OrderItem is a price snapshot taken at order time. Immutable once created.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     float64
	Subtotal  float64
}

// CartItem mirrors the client-held cart entry embedded in reconciliation
// payloads when the server-side order row does not exist yet.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CartSnapshot struct {
	Items []CartItem `json:"items"`
}

func (c *CartSnapshot) Total() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

type OrderFilters struct {
	UserID        string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	DateFrom      time.Time
	DateTo        time.Time
}
