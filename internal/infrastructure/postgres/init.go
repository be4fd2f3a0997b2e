package postgres

import (
	"log"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/config"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.OrderConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	// TranslateError maps driver unique-violations onto gorm.ErrDuplicatedKey,
	// which the repository relies on for first-writer-wins creation.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.OrderModel{}, &models.OrderItemModel{}, &models.PaymentModel{})

	return db
}
