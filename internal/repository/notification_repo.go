package repository

import (
	"context"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Update(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	// ListPendingRetries returns pending notifications whose next_retry_at
	// has passed, oldest first.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Notification, error)
	List(ctx context.Context, tenantID uuid.UUID, status string, limit int) ([]model.Notification, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) Update(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *notificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *notificationRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Notification, error) {
	var out []model.Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "pending", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *notificationRepo) List(ctx context.Context, tenantID uuid.UUID, status string, limit int) ([]model.Notification, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit < 1 {
		limit = 100
	}
	var out []model.Notification
	err := q.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}
