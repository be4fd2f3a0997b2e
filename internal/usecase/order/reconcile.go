package usecase

import (
	"context"
	"math"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"go.uber.org/zap"
)

// Amounts are compared as floats coming back from providers; half a
// cent absorbs their rounding.
const amountTolerance = 0.005

// Reconcile applies one payment notification to the order store. It is
// safe to call any number of times with the same event and safe to call
// concurrently from the webhook and client-return paths: the order only
// ever moves forward, and redeliveries collapse into no-ops.
func (uc *DefaultOrderUsecase) Reconcile(ctx context.Context, event *ReconcileEvent) (*domain.Order, error) {
	start := time.Now()
	defer func() {
		uc.Metrics.ReconcileDuration.WithLabelValues(string(event.Provider)).Observe(time.Since(start).Seconds())
	}()

	order, err := uc.ensureOrder(ctx, event)
	if err != nil {
		return nil, err
	}

	// The payment log is append-only and records every attempt, stale
	// failures against an already-paid order included.
	if event.PaymentID != "" {
		inserted, err := uc.OrderRepo.AppendPayment(ctx, &domain.Payment{
			OrderID:       order.ID,
			PaymentID:     event.PaymentID,
			Amount:        event.Amount,
			Currency:      event.Currency,
			Status:        string(event.Status),
			Provider:      event.Provider,
			TransactionID: event.TransactionID,
			PaymentMethod: event.PaymentMethod,
		})
		if err != nil {
			return nil, err
		}
		if !inserted {
			uc.Metrics.DuplicateNotificationsTotal.WithLabelValues(string(event.Provider)).Inc()
		}
	}

	if order.Paid() {
		// Terminal payment state; whatever arrives now is either a
		// redelivery or a stale attempt already logged above.
		uc.Log.Info("notification for settled order ignored",
			zap.String("order_id", order.ID),
			zap.String("payment_id", event.PaymentID),
			zap.String("incoming_status", string(event.Status)))
		return uc.OrderRepo.GetOrderByID(ctx, order.ID)
	}

	if event.Status == domain.ResultPending {
		return uc.OrderRepo.GetOrderByID(ctx, order.ID)
	}

	if event.Amount > 0 && math.Abs(event.Amount-order.TotalAmount) > amountTolerance {
		uc.Metrics.AmountMismatchTotal.WithLabelValues(string(event.Provider)).Inc()
		uc.Log.Warn("payment amount differs from order total",
			zap.String("order_id", order.ID),
			zap.Float64("order_total", order.TotalAmount),
			zap.Float64("payment_amount", event.Amount))
	}

	paymentStatus := domain.PaymentFailed
	orderStatus := domain.OrderStatus("")
	if event.Status == domain.ResultSucceeded {
		paymentStatus = domain.PaymentPaid
		orderStatus = domain.StatusProcessing
		if uc.CompleteOnPaid {
			orderStatus = domain.StatusCompleted
		}
	}

	updated, err := uc.OrderRepo.SettlePayment(ctx, order.ID, paymentStatus, orderStatus, event.TransactionID)
	if err != nil {
		return nil, err
	}
	if !updated {
		// A concurrent settle won; re-read and report the winner's state.
		uc.Metrics.DuplicateNotificationsTotal.WithLabelValues(string(event.Provider)).Inc()
		return uc.OrderRepo.GetOrderByID(ctx, order.ID)
	}

	uc.Metrics.PaymentsReconciledTotal.WithLabelValues(
		string(event.Provider), string(paymentStatus), string(event.Source)).Inc()

	order, err = uc.OrderRepo.GetOrderByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if paymentStatus == domain.PaymentPaid {
		uc.Metrics.OrdersCompletedTotal.WithLabelValues(string(event.Provider)).Inc()
		if event.ProviderRef != "" && uc.Sessions != nil {
			if err := uc.Sessions.Delete(ctx, event.ProviderRef); err != nil {
				uc.Log.Warn("failed to delete checkout session",
					zap.String("provider_ref", event.ProviderRef),
					zap.Error(err))
			}
		}
	}

	uc.Log.Info("payment reconciled",
		zap.String("order_id", order.ID),
		zap.String("provider", string(event.Provider)),
		zap.String("source", string(event.Source)),
		zap.String("payment_status", string(paymentStatus)))

	uc.publishEvent(order, event.Provider)
	return order, nil
}
