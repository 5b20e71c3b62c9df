package repository

import (
	"context"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository is the data access contract for products and variants.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Product, error)
	SearchByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]model.Product, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// Variants
	CreateVariant(ctx context.Context, v *model.ProductVariant) error
	FindVariantByName(ctx context.Context, tenantID, productID uuid.UUID, name string) (*model.ProductVariant, error)
	ListVariants(ctx context.Context, tenantID, productID uuid.UUID) ([]model.ProductVariant, error)

	// Used inside transactions; callers must pass the tx instance.
	CreateTx(tx *gorm.DB, p *model.Product) error
	CreateVariantTx(tx *gorm.DB, v *model.ProductVariant) error
	FindByNameTx(tx *gorm.DB, tenantID uuid.UUID, name string) (*model.Product, error)
	FindVariantByNameTx(tx *gorm.DB, tenantID, productID uuid.UUID, name string) (*model.ProductVariant, error)
	// AdjustStockTx applies a signed qty delta and returns the stock before
	// the change, for the movement record.
	AdjustStockTx(tx *gorm.DB, tenantID, productID uuid.UUID, variantID *uuid.UUID, delta int) (before int, err error)
	UpdateLastPurchasePriceTx(tx *gorm.DB, tenantID, productID uuid.UUID, variantID *uuid.UUID, price decimal.Decimal) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error { return tx.Create(p).Error }

func (r *productRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*model.Product, error) {
	return r.FindByNameTx(r.db.WithContext(ctx), tenantID, name)
}

func (r *productRepo) FindByNameTx(tx *gorm.DB, tenantID uuid.UUID, name string) (*model.Product, error) {
	var p model.Product
	err := tx.Where("tenant_id = ? AND lower(name) = lower(?) AND active = true", tenantID, name).
		First(&p).Error
	return &p, err
}

func (r *productRepo) SearchByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name ILIKE ? AND active = true", tenantID, prefix+"%").
		Order("name ASC").Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("tenant_id = ?", tenantID)

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("active", false).Error
}

func (r *productRepo) CreateVariant(ctx context.Context, v *model.ProductVariant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *productRepo) CreateVariantTx(tx *gorm.DB, v *model.ProductVariant) error {
	return tx.Create(v).Error
}

func (r *productRepo) FindVariantByName(ctx context.Context, tenantID, productID uuid.UUID, name string) (*model.ProductVariant, error) {
	return r.FindVariantByNameTx(r.db.WithContext(ctx), tenantID, productID, name)
}

func (r *productRepo) FindVariantByNameTx(tx *gorm.DB, tenantID, productID uuid.UUID, name string) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := tx.Where("tenant_id = ? AND product_id = ? AND lower(name) = lower(?) AND active = true",
		tenantID, productID, name).First(&v).Error
	return &v, err
}

func (r *productRepo) ListVariants(ctx context.Context, tenantID, productID uuid.UUID) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND active = true", tenantID, productID).
		Order("name ASC").Find(&variants).Error
	return variants, err
}

func (r *productRepo) AdjustStockTx(tx *gorm.DB, tenantID, productID uuid.UUID, variantID *uuid.UUID, delta int) (int, error) {
	if variantID != nil {
		var v model.ProductVariant
		if err := tx.Clauses(forUpdate()).
			Where("tenant_id = ?", tenantID).First(&v, *variantID).Error; err != nil {
			return 0, err
		}
		err := tx.Model(&model.ProductVariant{}).Where("id = ?", *variantID).
			Update("stock_qty", gorm.Expr("stock_qty + ?", delta)).Error
		return v.StockQty, err
	}

	var p model.Product
	if err := tx.Clauses(forUpdate()).
		Where("tenant_id = ?", tenantID).First(&p, productID).Error; err != nil {
		return 0, err
	}
	err := tx.Model(&model.Product{}).Where("id = ?", productID).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta)).Error
	return p.StockQty, err
}

func (r *productRepo) UpdateLastPurchasePriceTx(tx *gorm.DB, tenantID, productID uuid.UUID, variantID *uuid.UUID, price decimal.Decimal) error {
	if variantID != nil {
		return tx.Model(&model.ProductVariant{}).
			Where("tenant_id = ? AND id = ?", tenantID, *variantID).
			Update("last_purchase_price", price).Error
	}
	return tx.Model(&model.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Update("last_purchase_price", price).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
