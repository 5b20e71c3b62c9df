package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one outbound customer message handed to the sidecar.
// Status: pending | sent | failed. Failed means the retry budget is spent;
// pending rows with next_retry_at in the past are picked up by the retry
// cron.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Recipient string    `gorm:"not null"`
	Event     string    `gorm:"not null"`
	Params    string    `gorm:"type:jsonb;not null;default:'{}'"`
	Status    string    `gorm:"index;not null;default:'pending'"`

	MessageID   *string
	RetryCount  int `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"index"`
	LastError   *string
	SentAt      *time.Time

	ReferenceID *uuid.UUID `gorm:"type:uuid;index"` // order, when applicable
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
