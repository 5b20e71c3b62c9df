package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. HasVariants=true means stock and pricing live
// on ProductVariant rows; otherwise the product itself carries them.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"index;not null"`
	SKU         *string   `gorm:"index"`
	Category    *string
	Description *string
	// LastPurchasePrice is denormalized from the most recent purchase item
	// so the intake form can pre-fill prices.
	LastPurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockQty          int             `gorm:"not null;default:0"`
	HasVariants       bool            `gorm:"not null;default:false"`
	// AutoCreated marks products created implicitly during invoice intake,
	// so they can be reviewed and enriched later.
	AutoCreated bool `gorm:"not null;default:false"`
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}

// ProductVariant is one sellable variation (size/colour) of a product.
type ProductVariant struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Name              string    `gorm:"not null"` // e.g. "M / Blue"
	SKU               *string   `gorm:"index"`
	LastPurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockQty          int             `gorm:"not null;default:0"`
	AutoCreated       bool            `gorm:"not null;default:false"`
	Active            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// StockMovement is the audit trail for every stock change.
// Type: purchase | purchase_return | order_dispatch | order_cancel |
// invoice_cancel | adjustment.
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	VariantID   *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"not null"`
	Qty         int        `gorm:"not null"` // signed: negative = stock out
	StockBefore int        `gorm:"not null"`
	StockAfter  int        `gorm:"not null"`
	Note        string
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
