package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one business (shop) on the platform. Every domain row carries a
// TenantID; repositories must scope every query by it.
type Tenant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	BusinessType string    `gorm:"not null;default:'retail'"`
	Phone        *string
	Address      *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
