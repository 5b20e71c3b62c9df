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

// OrderRepository is the data access contract for customer orders.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error)
	UpdateTx(tx *gorm.DB, o *model.Order) error
	Update(ctx context.Context, o *model.Order) error
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error { return tx.Create(o).Error }

func (r *orderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").Preload("Customer").
		Where("tenant_id = ?", tenantID).
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.From != "" {
		q = q.Where("created_at >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("created_at < ?", filter.To+"T23:59:59Z")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Items.Product").Preload("Customer").
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateTx(tx *gorm.DB, o *model.Order) error { return tx.Save(o).Error }

func (r *orderRepo) Update(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *orderRepo) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("0601"), count+1), nil
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
