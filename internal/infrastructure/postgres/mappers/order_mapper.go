package mappers

import (
	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/models"
)

func ToOrderModel(order *domain.Order) *models.OrderModel {
	var userID *string
	if order.UserID != "" {
		uid := order.UserID
		userID = &uid
	}

	items := make([]models.OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = *ToOrderItemModel(&item)
	}

	return &models.OrderModel{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        userID,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TransactionID: order.TransactionID,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func ToOrderItemModel(item *domain.OrderItem) *models.OrderItemModel {
	return &models.OrderItemModel{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Subtotal:  item.Subtotal,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	userID := ""
	if model.UserID != nil {
		userID = *model.UserID
	}

	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
	}

	payments := make([]domain.Payment, len(model.Payments))
	for i, payment := range model.Payments {
		payments[i] = *ToDomainPayment(&payment)
	}

	return &domain.Order{
		ID:            model.ID,
		OrderNumber:   model.OrderNumber,
		UserID:        userID,
		TotalAmount:   model.TotalAmount,
		Currency:      model.Currency,
		Status:        domain.OrderStatus(model.Status),
		PaymentStatus: domain.PaymentStatus(model.PaymentStatus),
		TransactionID: model.TransactionID,
		Items:         items,
		Payments:      payments,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
