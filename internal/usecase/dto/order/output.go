package orderdto

import (
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
)

type CheckoutOutput struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	ProviderRef string `json:"provider_ref"`
	HostedURL   string `json:"hosted_url,omitempty"`
}

type OrderItemOutput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

type PaymentOutput struct {
	PaymentID     string    `json:"payment_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Provider      string    `json:"provider"`
	TransactionID string    `json:"transaction_id,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type OrderOutput struct {
	ID            string            `json:"id"`
	OrderNumber   string            `json:"order_number"`
	UserID        string            `json:"user_id,omitempty"`
	TotalAmount   float64           `json:"total_amount"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	TransactionID string            `json:"transaction_id,omitempty"`
	Items         []OrderItemOutput `json:"items"`
	Payments      []PaymentOutput   `json:"payments"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ReturnOutput reports the post-return state. State is "paid", "failed"
// or "pending"; Order is nil while the payment is still pending and no
// order row exists yet.
type ReturnOutput struct {
	State string       `json:"state"`
	Order *OrderOutput `json:"order,omitempty"`
}

type PaymentStateOutput struct {
	State string `json:"state"`
}

type ListOrdersOutput struct {
	Orders []*OrderOutput `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

func ToOrderOutput(order *domain.Order) *OrderOutput {
	out := &OrderOutput{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TransactionID: order.TransactionID,
		Items:         make([]OrderItemOutput, 0, len(order.Items)),
		Payments:      make([]PaymentOutput, 0, len(order.Payments)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, OrderItemOutput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		})
	}
	for _, payment := range order.Payments {
		out.Payments = append(out.Payments, PaymentOutput{
			PaymentID:     payment.PaymentID,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			Status:        payment.Status,
			Provider:      string(payment.Provider),
			TransactionID: payment.TransactionID,
			PaymentMethod: payment.PaymentMethod,
			CreatedAt:     payment.CreatedAt,
		})
	}
	return out
}
