package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/mappers"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrderWithItems(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return domain.ErrOrderHasNoItems
	}

	orderModel := mappers.ToOrderModel(order)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// items ride along via the association; if any insert fails the
		// whole transaction rolls back - no order without items
		return tx.Create(orderModel).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.created_at ASC")
		}).
		First(&orderModel, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel), nil
}

// SettlePayment is a single conditional UPDATE. The WHERE guard is the
// defense-in-depth check for the paid-monotonicity invariant: a stale
// failed event can never claw back a paid order.
func (r *DefaultOrderRepository) SettlePayment(
	ctx context.Context,
	orderID string,
	payment domain.PaymentStatus,
	status domain.OrderStatus,
	transactionID string,
) (bool, error) {
	updates := map[string]interface{}{
		"payment_status": string(payment),
	}
	if status != "" {
		updates["status"] = string(status)
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}

	res := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND payment_status NOT IN ?", orderID, []string{
			string(domain.PaymentPaid),
			string(domain.PaymentRefunded),
		}).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to settle payment for order %s: %w", orderID, res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *DefaultOrderRepository) AppendPayment(ctx context.Context, payment *domain.Payment) (bool, error) {
	paymentModel := mappers.ToPaymentModel(payment)
	if paymentModel.ID == "" {
		paymentModel.ID = uuid.NewString()
	}
	if paymentModel.CreatedAt.IsZero() {
		paymentModel.CreatedAt = time.Now()
	}

	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "payment_id"}},
			DoNothing: true,
		}).
		Create(paymentModel)
	if res.Error != nil {
		return false, fmt.Errorf("failed to append payment %s/%s: %w", payment.OrderID, payment.PaymentID, res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *DefaultOrderRepository) MarkRefunded(ctx context.Context, orderID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND payment_status = ?", orderID, string(domain.PaymentPaid)).
		Update("payment_status", string(domain.PaymentRefunded))
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *DefaultOrderRepository) CancelOrder(ctx context.Context, orderID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status = ? AND payment_status IN ?", orderID,
			string(domain.StatusPending),
			[]string{string(domain.PaymentPending), string(domain.PaymentFailed)},
		).
		Update("status", string(domain.StatusCancelled))
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *DefaultOrderRepository) ListOrders(
	ctx context.Context,
	filters domain.OrderFilters,
	page, limit int,
) ([]*domain.Order, int64, error) {
	var orderModels []models.OrderModel
	var total int64

	baseQuery := r.DB.WithContext(ctx).Model(&models.OrderModel{})

	if filters.UserID != "" {
		baseQuery = baseQuery.Where("user_id = ?", filters.UserID)
	}
	if filters.Status != "" {
		baseQuery = baseQuery.Where("status = ?", string(filters.Status))
	}
	if filters.PaymentStatus != "" {
		baseQuery = baseQuery.Where("payment_status = ?", string(filters.PaymentStatus))
	}
	if !filters.DateFrom.IsZero() {
		baseQuery = baseQuery.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		baseQuery = baseQuery.Where("created_at <= ?", filters.DateTo)
	}

	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Preload("Items").
		Preload("Payments").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}

	return orders, total, nil
}

func (r *DefaultOrderRepository) CancelExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			string(domain.StatusPending),
			string(domain.PaymentPending),
			cutoff,
		).
		Update("status", string(domain.StatusCancelled))
	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}
