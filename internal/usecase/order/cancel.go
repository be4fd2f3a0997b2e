package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
	"go.uber.org/zap"
)

// CancelOrder cancels an unpaid pending order. Paid orders are refused:
// they must go through RefundOrder.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID string) error {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Cancellable() {
		return fmt.Errorf("%w: order %s is %s/%s",
			domain.ErrCancelOrder, orderID, order.Status, order.PaymentStatus)
	}

	updated, err := uc.OrderRepo.CancelOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !updated {
		// Raced a settle between the read and the update.
		return fmt.Errorf("%w: order %s changed state", domain.ErrCancelOrder, orderID)
	}

	uc.Metrics.OrdersCancelledTotal.WithLabelValues("manual").Inc()
	uc.Log.Info("order cancelled", zap.String("order_id", orderID))
	return nil
}

// CancelExpiredOrders sweeps orders that sat in pending/pending past the
// configured TTL. Runs from a background ticker.
func (uc *DefaultOrderUsecase) CancelExpiredOrders(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-uc.PendingTTL)
	cancelled, err := uc.OrderRepo.CancelExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel expired orders: %w", err)
	}
	if cancelled > 0 {
		uc.Metrics.OrdersCancelledTotal.WithLabelValues("expired").Add(float64(cancelled))
		uc.Log.Info("expired orders cancelled", zap.Int64("count", cancelled))
	}
	return cancelled, nil
}

// RefundOrder flips a paid order to refunded. The provider-side refund is
// issued out of band; this records the outcome and keeps refunded
// terminal so later notifications stay no-ops.
func (uc *DefaultOrderUsecase) RefundOrder(ctx context.Context, orderID string) (*orderdto.OrderOutput, error) {
	updated, err := uc.OrderRepo.MarkRefunded(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %s is %s",
			domain.ErrNotRefundable, orderID, order.PaymentStatus)
	}

	var provider domain.Provider
	if n := len(order.Payments); n > 0 {
		provider = order.Payments[n-1].Provider
	}

	uc.Log.Info("order refunded",
		zap.String("order_id", orderID),
		zap.Float64("amount", order.TotalAmount))
	uc.publishEvent(order, provider)
	return orderdto.ToOrderOutput(order), nil
}
