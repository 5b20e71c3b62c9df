package infra

import (
	"fmt"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for all domain tables. Decimal precision and composite unique
// indexes are declared in the models' gorm tags.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Supplier{},
		&model.SupplierLedgerEntry{},
		&model.Product{},
		&model.ProductVariant{},
		&model.StockMovement{},
		&model.Customer{},
		&model.PurchaseInvoice{},
		&model.PurchaseItem{},
		&model.PurchaseReturnItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentAccount{},
		&model.AccountTransaction{},
		&model.Notification{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	return db, nil
}
