package usecase_test

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/kafka"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/metrics"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/session"
	"github.com/google/uuid"
)

// promauto registers on the default registry, so the whole test binary
// shares one metrics instance.
var testMetrics = metrics.NewOrderMetrics()

// ---- in-memory order repository ----

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order

	createErr error
	settleErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	c.Payments = append([]domain.Payment(nil), o.Payments...)
	return &c
}

func (r *memOrderRepo) CreateOrderWithItems(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if len(order.Items) == 0 {
		return domain.ErrOrderHasNoItems
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return domain.ErrOrderExists
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memOrderRepo) GetOrderByID(_ context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *memOrderRepo) SettlePayment(_ context.Context, orderID string, payment domain.PaymentStatus, status domain.OrderStatus, transactionID string) (bool, error) {
	if r.settleErr != nil {
		return false, r.settleErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	if order.PaymentStatus == domain.PaymentPaid || order.PaymentStatus == domain.PaymentRefunded {
		return false, nil
	}
	order.PaymentStatus = payment
	if status != "" {
		order.Status = status
	}
	if transactionID != "" {
		order.TransactionID = transactionID
	}
	order.UpdatedAt = time.Now()
	return true, nil
}

func (r *memOrderRepo) AppendPayment(_ context.Context, payment *domain.Payment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[payment.OrderID]
	if !ok {
		return false, nil
	}
	for _, existing := range order.Payments {
		if existing.PaymentID == payment.PaymentID {
			return false, nil
		}
	}
	p := *payment
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	order.Payments = append(order.Payments, p)
	return true, nil
}

func (r *memOrderRepo) MarkRefunded(_ context.Context, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.PaymentStatus != domain.PaymentPaid {
		return false, nil
	}
	order.PaymentStatus = domain.PaymentRefunded
	return true, nil
}

func (r *memOrderRepo) CancelOrder(_ context.Context, orderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || !order.Cancellable() {
		return false, nil
	}
	order.Status = domain.StatusCancelled
	return true, nil
}

func (r *memOrderRepo) ListOrders(_ context.Context, filters domain.OrderFilters, page, limit int) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, order := range r.orders {
		if filters.UserID != "" && order.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && order.Status != filters.Status {
			continue
		}
		if filters.PaymentStatus != "" && order.PaymentStatus != filters.PaymentStatus {
			continue
		}
		out = append(out, cloneOrder(order))
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) CancelExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, order := range r.orders {
		if order.Status == domain.StatusPending &&
			order.PaymentStatus == domain.PaymentPending &&
			order.CreatedAt.Before(cutoff) {
			order.Status = domain.StatusCancelled
			n++
		}
	}
	return n, nil
}

// ---- mock payment provider ----

type mockProvider struct {
	name domain.Provider

	intent    *domain.PaymentIntent
	intentErr error

	capture    *domain.CaptureResult
	captureErr error

	status    domain.PaymentResult
	statusErr error
}

func (p *mockProvider) Name() domain.Provider {
	if p.name == "" {
		return domain.ProviderTilopay
	}
	return p.name
}

func (p *mockProvider) CreateIntent(_ context.Context, _ *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	if p.intentErr != nil {
		return nil, p.intentErr
	}
	if p.intent != nil {
		return p.intent, nil
	}
	return &domain.PaymentIntent{ProviderRef: "ref-1"}, nil
}

func (p *mockProvider) ConfirmOrCapture(_ context.Context, _ string) (*domain.CaptureResult, error) {
	return p.capture, p.captureErr
}

func (p *mockProvider) CheckStatus(_ context.Context, _ string) (domain.PaymentResult, error) {
	return p.status, p.statusErr
}

func (p *mockProvider) VerifyNotification(_ []byte, _ http.Header) bool { return true }

func (p *mockProvider) ParseNotification(_ []byte) (*domain.Notification, error) {
	return nil, nil
}

// ---- mock registry ----

type mockRegistry struct {
	provider domain.PaymentProvider
}

func (r *mockRegistry) Get(name domain.Provider) (domain.PaymentProvider, error) {
	if r.provider == nil {
		return nil, domain.ErrUnknownProvider
	}
	return r.provider, nil
}

// ---- mock session store ----

type mockSessions struct {
	mu       sync.Mutex
	sessions map[string]*session.CheckoutSession
	saveErr  error
}

func newMockSessions() *mockSessions {
	return &mockSessions{sessions: make(map[string]*session.CheckoutSession)}
}

func (s *mockSessions) Save(_ context.Context, ref string, sess *session.CheckoutSession) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ref] = sess
	return nil
}

func (s *mockSessions) Get(_ context.Context, ref string) (*session.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[ref], nil
}

func (s *mockSessions) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ref)
	return nil
}

// ---- mock event publisher ----

type mockPublisher struct {
	mu     sync.Mutex
	events []kafka.OrderEvent
}

func (p *mockPublisher) PublishOrderEvent(_ context.Context, event kafka.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
