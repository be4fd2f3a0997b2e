package orderdto

import "github.com/Zaheeroo/tejidosyami-sub000/internal/domain"

type CheckoutItemInput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type InitiateCheckoutInput struct {
	Provider  string              `json:"provider"`
	UserID    string              `json:"user_id"`
	Currency  string              `json:"currency"`
	Items     []CheckoutItemInput `json:"items"`
	Customer  domain.Customer     `json:"customer"`
	ReturnURL string              `json:"return_url"`
	CancelURL string              `json:"cancel_url"`
}

// ClientReturnInput is what the storefront posts after the shopper comes
// back from the provider. Cart rides along so the order can be created
// here if the webhook has not arrived yet.
type ClientReturnInput struct {
	Provider    string              `json:"provider"`
	OrderID     string              `json:"order_id"`
	ProviderRef string              `json:"provider_ref"`
	UserID      string              `json:"user_id"`
	Currency    string              `json:"currency"`
	Items       []CheckoutItemInput `json:"items"`
}

type PaymentStatusInput struct {
	Provider    string `form:"provider"`
	ProviderRef string `form:"provider_ref"`
}

type ListOrdersInput struct {
	Page    int
	Limit   int
	Filters domain.OrderFilters
}

func (in *ClientReturnInput) CartSnapshot() *domain.CartSnapshot {
	if len(in.Items) == 0 {
		return nil
	}
	cart := &domain.CartSnapshot{Items: make([]domain.CartItem, 0, len(in.Items))}
	for _, item := range in.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return cart
}
