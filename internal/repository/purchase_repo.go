package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseRepository is the data access contract for purchase invoices.
type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, inv *model.PurchaseInvoice) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseInvoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*model.PurchaseInvoice, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseFilter) ([]model.PurchaseInvoice, int64, error)
	UpdateTx(tx *gorm.DB, inv *model.PurchaseInvoice) error
	// NextInvoiceNumber issues the next sequential number for the tenant.
	// Callers serialize access with the distributed lock; the count query
	// alone is not race-safe across instances.
	NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, inv *model.PurchaseInvoice) error {
	return tx.Create(inv).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseInvoice, error) {
	var inv model.PurchaseInvoice
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("ReturnItems").Preload("Supplier").
		Where("tenant_id = ?", tenantID).
		First(&inv, id).Error
	return &inv, err
}

func (r *purchaseRepo) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*model.PurchaseInvoice, error) {
	var inv model.PurchaseInvoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number).
		First(&inv).Error
	return &inv, err
}

func (r *purchaseRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseFilter) ([]model.PurchaseInvoice, int64, error) {
	var invoices []model.PurchaseInvoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.PurchaseInvoice{}).Where("tenant_id = ?", tenantID)

	switch filter.Status {
	case "all":
		// no filter
	case "cancelled":
		q = q.Where("status = 'cancelled'")
	default:
		q = q.Where("status = 'active'")
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.From != "" {
		q = q.Where("invoice_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("invoice_date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("ReturnItems").Preload("Supplier").
		Order("invoice_date DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *purchaseRepo) UpdateTx(tx *gorm.DB, inv *model.PurchaseInvoice) error {
	return tx.Save(inv).Error
}

func (r *purchaseRepo) NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PurchaseInvoice{}).
		Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("PI-%s-%05d", time.Now().Format("0601"), count+1), nil
}

func (r *purchaseRepo) DB() *gorm.DB { return r.db }
