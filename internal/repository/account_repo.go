package repository

import (
	"context"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountRepository is the data access contract for payment accounts and
// their transaction ledger.
type AccountRepository interface {
	Create(ctx context.Context, a *model.PaymentAccount) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentAccount, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentAccount, error)
	Update(ctx context.Context, a *model.PaymentAccount) error
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// PostTx applies a signed amount to the account balance and records the
	// transaction, all inside the caller's tx. Returns the balance after.
	PostTx(tx *gorm.DB, tenantID, accountID uuid.UUID, amount decimal.Decimal, txType, description string, refID *uuid.UUID, createdBy uuid.UUID) (decimal.Decimal, error)

	ListTransactions(ctx context.Context, tenantID, accountID uuid.UUID, filter dto.TransactionFilter) ([]model.AccountTransaction, int64, error)
	DB() *gorm.DB
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, a *model.PaymentAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PaymentAccount, error) {
	var a model.PaymentAccount
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&a, id).Error
	return &a, err
}

func (r *accountRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.PaymentAccount, error) {
	var accounts []model.PaymentAccount
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = true", tenantID).
		Order("name ASC").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) Update(ctx context.Context, a *model.PaymentAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *accountRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PaymentAccount{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("active", false).Error
}

func (r *accountRepo) PostTx(tx *gorm.DB, tenantID, accountID uuid.UUID, amount decimal.Decimal, txType, description string, refID *uuid.UUID, createdBy uuid.UUID) (decimal.Decimal, error) {
	var a model.PaymentAccount
	if err := tx.Clauses(forUpdate()).
		Where("tenant_id = ?", tenantID).First(&a, accountID).Error; err != nil {
		return decimal.Zero, err
	}

	after := a.Balance.Add(amount)
	if err := tx.Model(&model.PaymentAccount{}).Where("id = ?", accountID).
		Update("balance", after).Error; err != nil {
		return decimal.Zero, err
	}

	t := model.AccountTransaction{
		TenantID:     tenantID,
		AccountID:    accountID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: after,
		Description:  description,
		ReferenceID:  refID,
		CreatedBy:    createdBy,
	}
	if err := tx.Create(&t).Error; err != nil {
		return decimal.Zero, err
	}
	return after, nil
}

func (r *accountRepo) ListTransactions(ctx context.Context, tenantID, accountID uuid.UUID, filter dto.TransactionFilter) ([]model.AccountTransaction, int64, error) {
	var txs []model.AccountTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.AccountTransaction{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&txs).Error
	return txs, total, err
}

func (r *accountRepo) DB() *gorm.DB { return r.db }
