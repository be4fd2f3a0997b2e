package usecase

import (
	"context"
	"errors"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
	"go.uber.org/zap"
)

// HandleClientReturn settles the payment from the browser redirect. The
// provider is consulted directly, so a forged or replayed return cannot
// mark anything paid, and a webhook that already settled the order just
// makes this a read.
func (uc *DefaultOrderUsecase) HandleClientReturn(ctx context.Context, input *orderdto.ClientReturnInput) (*orderdto.ReturnOutput, error) {
	provider, err := uc.Providers.Get(domain.Provider(input.Provider))
	if err != nil {
		return nil, err
	}

	capture, err := provider.ConfirmOrCapture(ctx, input.ProviderRef)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			// The provider will still deliver a webhook; tell the
			// shopper the payment is in flight rather than failing.
			uc.Log.Warn("provider unreachable on client return",
				zap.String("provider", input.Provider),
				zap.String("provider_ref", input.ProviderRef),
				zap.Error(err))
			return &orderdto.ReturnOutput{State: string(domain.ResultPending)}, nil
		}
		return nil, err
	}

	if capture.Status == domain.ResultPending {
		return &orderdto.ReturnOutput{State: string(domain.ResultPending)}, nil
	}

	order, err := uc.Reconcile(ctx, &ReconcileEvent{
		Source:        SourceClientReturn,
		Provider:      provider.Name(),
		OrderID:       input.OrderID,
		ProviderRef:   input.ProviderRef,
		PaymentID:     capture.PaymentID,
		Status:        capture.Status,
		TransactionID: capture.TransactionID,
		Amount:        capture.Amount,
		Currency:      capture.Currency,
		PaymentMethod: capture.PaymentMethod,
		UserID:        input.UserID,
		Cart:          input.CartSnapshot(),
	})
	if err != nil {
		return nil, err
	}

	state := string(domain.ResultFailed)
	if order.Paid() {
		state = "paid"
	}
	return &orderdto.ReturnOutput{
		State: state,
		Order: orderdto.ToOrderOutput(order),
	}, nil
}

// CheckPayment is the storefront's polling endpoint. Read-only: it asks
// the provider for the current state but never settles anything, that
// is Reconcile's job.
func (uc *DefaultOrderUsecase) CheckPayment(ctx context.Context, input *orderdto.PaymentStatusInput) (*orderdto.PaymentStateOutput, error) {
	provider, err := uc.Providers.Get(domain.Provider(input.Provider))
	if err != nil {
		return nil, err
	}

	result, err := provider.CheckStatus(ctx, input.ProviderRef)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			// an unreachable provider means the outcome is unknown, which
			// the shopper sees as a payment still in flight
			uc.Log.Warn("provider unreachable on status poll",
				zap.String("provider", input.Provider),
				zap.String("provider_ref", input.ProviderRef),
				zap.Error(err))
			return &orderdto.PaymentStateOutput{State: string(domain.ResultPending)}, nil
		}
		return nil, err
	}
	return &orderdto.PaymentStateOutput{State: string(result)}, nil
}
