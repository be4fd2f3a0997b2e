package mappers

import (
	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/models"
)

func ToPaymentModel(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		PaymentID:     payment.PaymentID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Status:        payment.Status,
		Provider:      string(payment.Provider),
		TransactionID: payment.TransactionID,
		PaymentMethod: payment.PaymentMethod,
		CreatedAt:     payment.CreatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:            model.ID,
		OrderID:       model.OrderID,
		PaymentID:     model.PaymentID,
		Amount:        model.Amount,
		Currency:      model.Currency,
		Status:        model.Status,
		Provider:      domain.Provider(model.Provider),
		TransactionID: model.TransactionID,
		PaymentMethod: model.PaymentMethod,
		CreatedAt:     model.CreatedAt,
	}
}
