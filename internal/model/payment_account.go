package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAccount is a cash drawer, bank account, or mobile wallet money moves
// through. Balance is maintained by AccountTransaction postings inside the
// same DB transaction as the business write.
type PaymentAccount struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_account_name;not null"`
	Name     string    `gorm:"uniqueIndex:idx_account_name;not null"`
	// Type: cash | bank | wallet
	Type          string          `gorm:"not null;default:'cash'"`
	AccountNumber *string
	Balance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountTransaction is one posting against a payment account.
// Type: purchase_payment | purchase_refund | order_payment | order_refund |
// manual_in | manual_out.
type AccountTransaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	AccountID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type         string          `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // signed: negative = money out
	BalanceAfter decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description  string
	ReferenceID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	Account *PaymentAccount `gorm:"foreignKey:AccountID"`
}
