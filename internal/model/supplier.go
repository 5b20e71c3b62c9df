package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a vendor the shop purchases stock from.
// AdvanceBalance is credit accumulated from overpayments and refunds; it is
// consumed when settling new purchase invoices. All mutations go through the
// ledger inside the purchase transaction, never by direct assignment.
type Supplier struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_supplier_name;not null"`
	Name           string    `gorm:"uniqueIndex:idx_supplier_name;not null"`
	Contact        *string
	Email          *string
	Address        *string
	AdvanceBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Tenant *Tenant `gorm:"foreignKey:TenantID"`
}

// SupplierLedgerEntry records every movement of a supplier's advance balance
// so the balance is auditable and reconstructible.
type SupplierLedgerEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;index;not null"`
	SupplierID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Type: advance_used | advance_added | refund_credit
	Type         string          `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // signed: negative = consumed
	BalanceAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Note         string
	ReferenceID  *uuid.UUID `gorm:"type:uuid;index"` // purchase invoice, when applicable
	CreatedAt    time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
