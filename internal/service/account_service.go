package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.AccountResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.AccountResponse, error)
	Deposit(ctx context.Context, tenantID, userID, id uuid.UUID, amount decimal.Decimal, description string) (*dto.AccountResponse, error)
	Withdraw(ctx context.Context, tenantID, userID, id uuid.UUID, amount decimal.Decimal, description string) (*dto.AccountResponse, error)
	Transactions(ctx context.Context, tenantID, id uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type accountService struct {
	repo repository.AccountRepository
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	account := &model.PaymentAccount{
		TenantID:      tenantID,
		Name:          req.Name,
		Type:          req.Type,
		AccountNumber: req.AccountNumber,
		Balance:       decimal.Zero,
		Active:        true,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	resp := accountToResponse(account)
	return &resp, nil
}

func (s *accountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.AccountResponse, error) {
	account, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("account not found")
	}
	resp := accountToResponse(account)
	return &resp, nil
}

func (s *accountService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.AccountResponse, error) {
	accounts, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, accountToResponse(&accounts[i]))
	}
	return out, nil
}

func (s *accountService) Deposit(ctx context.Context, tenantID, userID, id uuid.UUID, amount decimal.Decimal, description string) (*dto.AccountResponse, error) {
	return s.post(ctx, tenantID, userID, id, amount, "manual_in", description)
}

func (s *accountService) Withdraw(ctx context.Context, tenantID, userID, id uuid.UUID, amount decimal.Decimal, description string) (*dto.AccountResponse, error) {
	return s.post(ctx, tenantID, userID, id, amount.Neg(), "manual_out", description)
}

func (s *accountService) post(ctx context.Context, tenantID, userID, id uuid.UUID, amount decimal.Decimal, txType, description string) (*dto.AccountResponse, error) {
	if amount.IsZero() {
		return nil, errors.New("amount must be non-zero")
	}
	account, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("account not found")
	}
	var after decimal.Decimal
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		after, err = s.repo.PostTx(tx, tenantID, id, amount, txType, description, nil, userID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	account.Balance = after
	resp := accountToResponse(account)
	return &resp, nil
}

func (s *accountService) Transactions(ctx context.Context, tenantID, id uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txs, total, err := s.repo.ListTransactions(ctx, tenantID, id, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.TransactionResponse{
			ID:           t.ID.String(),
			AccountID:    t.AccountID.String(),
			Type:         t.Type,
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Description:  t.Description,
			CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.TransactionListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *accountService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	account, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return errors.New("account not found")
	}
	if account.Balance.Sign() != 0 {
		return errors.New("cannot delete an account with a non-zero balance")
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}

func accountToResponse(a *model.PaymentAccount) dto.AccountResponse {
	return dto.AccountResponse{
		ID:            a.ID.String(),
		Name:          a.Name,
		Type:          a.Type,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		Active:        a.Active,
	}
}
