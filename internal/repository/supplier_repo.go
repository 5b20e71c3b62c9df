package repository

import (
	"context"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierRepository is the data access contract for suppliers and their
// advance-balance ledger. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Supplier, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Supplier, error)
	SearchByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]model.Supplier, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Supplier, error)
	Update(ctx context.Context, s *model.Supplier) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance.
	// AdjustAdvanceTx applies a signed delta to advance_balance and records
	// a ledger entry; the returned value is the balance after the change.
	AdjustAdvanceTx(tx *gorm.DB, tenantID, supplierID uuid.UUID, delta decimal.Decimal, entryType, note string, refID *uuid.UUID) (decimal.Decimal, error)
	FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Supplier, error)

	ListLedger(ctx context.Context, tenantID, supplierID uuid.UUID, limit int) ([]model.SupplierLedgerEntry, error)

	DB() *gorm.DB
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lower(name) = lower(?) AND active = true", tenantID, name).
		First(&s).Error
	return &s, err
}

func (r *supplierRepo) SearchByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name ILIKE ? AND active = true", tenantID, prefix+"%").
		Order("name ASC").Limit(limit).
		Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenantID).
		Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("active", false).Error
}

func (r *supplierRepo) FindByIDTx(tx *gorm.DB, tenantID, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := tx.Where("tenant_id = ?", tenantID).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) AdjustAdvanceTx(tx *gorm.DB, tenantID, supplierID uuid.UUID, delta decimal.Decimal, entryType, note string, refID *uuid.UUID) (decimal.Decimal, error) {
	// Row lock so concurrent invoices cannot double-spend the advance.
	var s model.Supplier
	if err := tx.Clauses(forUpdate()).
		Where("tenant_id = ?", tenantID).First(&s, supplierID).Error; err != nil {
		return decimal.Zero, err
	}

	after := s.AdvanceBalance.Add(delta)
	if err := tx.Model(&model.Supplier{}).Where("id = ?", supplierID).
		Update("advance_balance", after).Error; err != nil {
		return decimal.Zero, err
	}

	entry := model.SupplierLedgerEntry{
		TenantID:     tenantID,
		SupplierID:   supplierID,
		Type:         entryType,
		Amount:       delta,
		BalanceAfter: after,
		Note:         note,
		ReferenceID:  refID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return decimal.Zero, err
	}
	return after, nil
}

func (r *supplierRepo) ListLedger(ctx context.Context, tenantID, supplierID uuid.UUID, limit int) ([]model.SupplierLedgerEntry, error) {
	var entries []model.SupplierLedgerEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Order("created_at DESC").Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *supplierRepo) DB() *gorm.DB { return r.db }
