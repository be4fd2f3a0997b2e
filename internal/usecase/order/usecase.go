package usecase

import (
	"context"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/kafka"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/metrics"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/session"
	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
	"go.uber.org/zap"
)

// EventSource tags where a reconciliation event entered the system.
type EventSource string

const (
	SourceWebhook      EventSource = "webhook"
	SourceClientReturn EventSource = "client_return"
	SourceAdmin        EventSource = "admin"
)

// ReconcileEvent is the provider-neutral shape every entry path is
// normalized into before it touches the order store.
type ReconcileEvent struct {
	Source        EventSource
	Provider      domain.Provider
	OrderID       string
	ProviderRef   string
	PaymentID     string
	Status        domain.PaymentResult
	TransactionID string
	Amount        float64
	Currency      string
	PaymentMethod string
	UserID        string
	Cart          *domain.CartSnapshot
}

type OrderUsecase interface {
	InitiateCheckout(ctx context.Context, input *orderdto.InitiateCheckoutInput) (*orderdto.CheckoutOutput, error)
	Reconcile(ctx context.Context, event *ReconcileEvent) (*domain.Order, error)
	HandleClientReturn(ctx context.Context, input *orderdto.ClientReturnInput) (*orderdto.ReturnOutput, error)
	CheckPayment(ctx context.Context, input *orderdto.PaymentStatusInput) (*orderdto.PaymentStateOutput, error)
	GetOrderByID(ctx context.Context, orderID string) (*orderdto.OrderOutput, error)
	ListOrders(ctx context.Context, input *orderdto.ListOrdersInput) (*orderdto.ListOrdersOutput, error)
	CancelOrder(ctx context.Context, orderID string) error
	CancelExpiredOrders(ctx context.Context) (int64, error)
	RefundOrder(ctx context.Context, orderID string) (*orderdto.OrderOutput, error)
}

type ProviderRegistry interface {
	Get(name domain.Provider) (domain.PaymentProvider, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error
}

type SessionStore interface {
	Save(ctx context.Context, providerRef string, sess *session.CheckoutSession) error
	Get(ctx context.Context, providerRef string) (*session.CheckoutSession, error)
	Delete(ctx context.Context, providerRef string) error
}

type DefaultOrderUsecase struct {
	OrderRepo domain.OrderRepository
	Providers ProviderRegistry
	Sessions  SessionStore
	Publisher EventPublisher
	Metrics   *metrics.OrderMetrics
	Log       *zap.Logger

	CompleteOnPaid bool
	PendingTTL     time.Duration

	newOrderNumber func() string
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	providers ProviderRegistry,
	sessions SessionStore,
	publisher EventPublisher,
	orderMetrics *metrics.OrderMetrics,
	log *zap.Logger,
	completeOnPaid bool,
	pendingTTL time.Duration) *DefaultOrderUsecase {

	return &DefaultOrderUsecase{
		OrderRepo:      orderRepo,
		Providers:      providers,
		Sessions:       sessions,
		Publisher:      publisher,
		Metrics:        orderMetrics,
		Log:            log,
		CompleteOnPaid: completeOnPaid,
		PendingTTL:     pendingTTL,
		newOrderNumber: newOrderNumber,
	}
}

func (uc *DefaultOrderUsecase) publishEvent(order *domain.Order, provider domain.Provider) {
	if uc.Publisher == nil {
		return
	}
	event := kafka.OrderEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Provider:      string(provider),
		Amount:        order.TotalAmount,
		Currency:      order.Currency,
		TransactionID: order.TransactionID,
		OccurredAt:    time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.Publisher.PublishOrderEvent(ctx, event); err != nil {
			uc.Log.Warn("failed to publish order event",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}()
}
