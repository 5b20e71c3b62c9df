package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are enforced by the order service:
// pending → confirmed → dispatched → delivered; cancelled is reachable from
// pending and confirmed only.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderDispatched = "dispatched"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order is a customer order moving through the fulfilment lifecycle.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_order_number;not null"`
	OrderNumber string    `gorm:"uniqueIndex:idx_order_number;not null"`
	CustomerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Status      string    `gorm:"index;not null;default:'pending'"`

	Total decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Payment verification, a manual step after the customer sends proof.
	PaymentVerified   bool            `gorm:"not null;default:false"`
	PaymentAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentAccountID  *uuid.UUID      `gorm:"type:uuid"`
	PaymentVerifiedBy *uuid.UUID      `gorm:"type:uuid"`
	PaymentVerifiedAt *time.Time

	DispatchedAt *time.Time
	DeliveredAt  *time.Time
	CancelReason *string

	Notes     *string
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one ordered line.
type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID  `gorm:"type:uuid;index;not null"`
	VariantID *uuid.UUID `gorm:"type:uuid"`
	Qty       int        `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Customer is a buyer with an optional running balance (credit owed to the
// shop is positive).
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name     string    `gorm:"index;not null"`
	Phone    *string   `gorm:"index"`
	Email    *string
	Address  *string
	Balance  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active   bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
