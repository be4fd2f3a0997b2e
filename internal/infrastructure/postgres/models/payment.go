package models

import "time"

// PaymentModel is the append-only log of payment attempts. The composite
// unique index makes duplicate webhook deliveries collapse on insert.
type PaymentModel struct {
	ID            string  `gorm:"primaryKey;type:uuid"`
	OrderID       string  `gorm:"type:uuid;not null;uniqueIndex:idx_order_payment"`
	PaymentID     string  `gorm:"not null;uniqueIndex:idx_order_payment"`
	Amount        float64 `gorm:"not null"`
	Currency      string  `gorm:"size:8"`
	Status        string  `gorm:"size:32"`
	Provider      string  `gorm:"size:32;index"`
	TransactionID string
	PaymentMethod string `gorm:"size:32"`
	CreatedAt     time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
