package repository

import (
	"context"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error)
	SearchByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]model.Customer, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) SearchByPrefix(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name ILIKE ? AND active = true", tenantID, prefix+"%").
		Order("name ASC").Limit(limit).
		Find(&customers).Error
	return customers, err
}

func (r *customerRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenantID).
		Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("active", false).Error
}
