package models

import "time"

type OrderModel struct {
	ID            string  `gorm:"primaryKey;type:uuid"`
	OrderNumber   string  `gorm:"uniqueIndex;not null"`
	UserID        *string `gorm:"size:64;index"`
	TotalAmount   float64 `gorm:"not null"`
	Currency      string  `gorm:"size:8;not null"`
	Status        string  `gorm:"type:varchar(20);not null;default:'pending';index:idx_status_created"`
	PaymentStatus string  `gorm:"type:varchar(20);not null;default:'pending';index"`
	TransactionID string
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Payments      []PaymentModel   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"index:idx_status_created"`
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID        string  `gorm:"primaryKey;type:uuid"`
	OrderID   string  `gorm:"type:uuid;not null;index"`
	ProductID string  `gorm:"not null;index"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"not null"`
	Subtotal  float64 `gorm:"not null"`
	CreatedAt time.Time
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
