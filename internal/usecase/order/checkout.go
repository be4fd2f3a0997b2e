package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/session"
	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

// No lookalike characters so support staff can read numbers over the phone.
const orderNumberAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func newOrderNumber() string {
	gen, err := nanoid.CustomASCII(orderNumberAlphabet, 10)
	if err != nil {
		panic(err)
	}
	return "ORD-" + gen()
}

// InitiateCheckout creates the order eagerly, asks the provider for a
// payment intent and records the checkout session so later notifications
// can find their way back to the order.
func (uc *DefaultOrderUsecase) InitiateCheckout(ctx context.Context, input *orderdto.InitiateCheckoutInput) (*orderdto.CheckoutOutput, error) {
	const op = "usecase.InitiateCheckout"

	if len(input.Items) == 0 {
		return nil, domain.ErrOrderHasNoItems
	}

	provider, err := uc.Providers.Get(domain.Provider(input.Provider))
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:            uuid.New().String(),
		OrderNumber:   uc.newOrderNumber(),
		UserID:        input.UserID,
		Currency:      input.Currency,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Items:         make([]domain.OrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		order.TotalAmount += item.Price * float64(item.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Price * float64(item.Quantity),
		})
	}

	if err := uc.OrderRepo.CreateOrderWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	uc.Metrics.OrdersCreatedTotal.WithLabelValues("checkout").Inc()

	intent, err := provider.CreateIntent(ctx, &domain.CreateIntentRequest{
		OrderID:  order.ID,
		Amount:   order.TotalAmount,
		Currency: order.Currency,
		Customer: input.Customer,
		Redirect: domain.RedirectTargets{
			SuccessURL: input.ReturnURL,
			CancelURL:  input.CancelURL,
		},
	})
	if err != nil {
		uc.Log.Error("provider rejected checkout intent",
			zap.String("order_id", order.ID),
			zap.String("provider", input.Provider),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart := &domain.CartSnapshot{Items: make([]domain.CartItem, 0, len(input.Items))}
	for _, item := range input.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	sess := &session.CheckoutSession{
		OrderID:   order.ID,
		Provider:  input.Provider,
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
		UserID:    input.UserID,
		Cart:      cart,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Sessions.Save(ctx, intent.ProviderRef, sess); err != nil {
		// The order and intent already exist; reconciliation can still
		// reach the order through an explicit order_id.
		uc.Log.Warn("failed to save checkout session",
			zap.String("order_id", order.ID),
			zap.String("provider_ref", intent.ProviderRef),
			zap.Error(err))
	}

	uc.Log.Info("checkout initiated",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("provider", input.Provider),
		zap.Float64("amount", order.TotalAmount))

	return &orderdto.CheckoutOutput{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		ProviderRef: intent.ProviderRef,
		HostedURL:   intent.HostedURL,
	}, nil
}

// ensureOrder resolves or lazily creates the order a reconciliation
// event refers to. First writer wins: losing a create race degrades
// into reading what the winner wrote.
func (uc *DefaultOrderUsecase) ensureOrder(ctx context.Context, event *ReconcileEvent) (*domain.Order, error) {
	if event.OrderID != "" {
		order, err := uc.OrderRepo.GetOrderByID(ctx, event.OrderID)
		if err == nil || !errors.Is(err, domain.ErrOrderNotFound) {
			return order, err
		}
	}

	// The checkout session resolves a notification that only carries the
	// provider's reference, and holds the cart snapshot a webhook needs
	// to create the order it is paying for.
	if event.ProviderRef != "" && uc.Sessions != nil {
		sess, err := uc.Sessions.Get(ctx, event.ProviderRef)
		if err != nil {
			uc.Log.Warn("session lookup failed",
				zap.String("provider_ref", event.ProviderRef),
				zap.Error(err))
		}
		if sess != nil {
			if event.UserID == "" {
				event.UserID = sess.UserID
			}
			if event.Cart == nil {
				event.Cart = sess.Cart
			}
			if event.OrderID == "" && sess.OrderID != "" {
				event.OrderID = sess.OrderID
				order, err := uc.OrderRepo.GetOrderByID(ctx, event.OrderID)
				if err == nil || !errors.Is(err, domain.ErrOrderNotFound) {
					return order, err
				}
			}
		}
	}

	if event.OrderID == "" || event.Cart == nil {
		// nothing identifies the order, or nothing can reconstruct it
		return nil, domain.ErrOrderNotFound
	}
	if len(event.Cart.Items) == 0 {
		// Never fabricate an order without line items.
		return nil, domain.ErrOrderHasNoItems
	}

	order := &domain.Order{
		ID:            event.OrderID,
		OrderNumber:   uc.newOrderNumber(),
		UserID:        event.UserID,
		TotalAmount:   event.Cart.Total(),
		Currency:      event.Currency,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Items:         make([]domain.OrderItem, 0, len(event.Cart.Items)),
	}
	for _, item := range event.Cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Price * float64(item.Quantity),
		})
	}

	err := uc.OrderRepo.CreateOrderWithItems(ctx, order)
	switch {
	case err == nil:
		uc.Metrics.OrdersCreatedTotal.WithLabelValues(string(event.Source)).Inc()
		uc.Log.Info("order created from cart snapshot",
			zap.String("order_id", order.ID),
			zap.String("source", string(event.Source)))
		return order, nil
	case errors.Is(err, domain.ErrOrderExists):
		// Lost the race; the concurrent writer's row is authoritative.
		return uc.OrderRepo.GetOrderByID(ctx, event.OrderID)
	default:
		return nil, err
	}
}
