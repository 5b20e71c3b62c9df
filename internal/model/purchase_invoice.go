package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseInvoice is the header of a supplier purchase, including any
// returned stock netted against it. Monetary fields are persisted exactly as
// the settlement pass computed them; the derived totals are stored for
// reporting but the line items remain the source of truth.
type PurchaseInvoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_invoice_number;not null"`
	InvoiceNumber string    `gorm:"uniqueIndex:idx_invoice_number;not null"`
	SupplierID    uuid.UUID `gorm:"type:uuid;index;not null"`
	InvoiceDate   time.Time `gorm:"not null"`

	PurchaseTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReturnTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NetTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Settlement
	AdvanceUsed      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentAccountID *uuid.UUID      `gorm:"type:uuid"`
	PaymentStatus    string          `gorm:"not null;default:'unpaid'"` // unpaid | partial | paid

	// Return handling, set only when return items exist.
	ReturnHandlingMethod  *string
	ReturnRefundAccountID *uuid.UUID `gorm:"type:uuid"`

	// Status: active | cancelled
	Status    string `gorm:"not null;default:'active'"`
	Notes     *string
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Supplier    *Supplier            `gorm:"foreignKey:SupplierID"`
	Items       []PurchaseItem       `gorm:"foreignKey:InvoiceID"`
	ReturnItems []PurchaseReturnItem `gorm:"foreignKey:InvoiceID"`
}

// PurchaseItem is one purchased line.
type PurchaseItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID  `gorm:"type:uuid;index;not null"`
	VariantID *uuid.UUID `gorm:"type:uuid"`
	Name      string     `gorm:"not null"` // as entered, product may be renamed later
	Qty       int        `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ProductAutoCreated records that this line caused implicit product
	// creation during intake.
	ProductAutoCreated bool `gorm:"not null;default:false"`
	CreatedAt          time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// PurchaseReturnItem is stock sent back to the supplier on this invoice.
type PurchaseReturnItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"` // nil when the product was never catalogued
	Name      string     `gorm:"not null"`
	Qty       int        `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason    string
	CreatedAt time.Time
}
