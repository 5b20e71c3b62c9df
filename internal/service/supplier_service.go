package service

import (
	"context"
	"errors"
	"strings"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SupplierService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.SupplierResponse, error)
	Search(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]dto.SupplierResponse, error)
	Balance(ctx context.Context, tenantID, id uuid.UUID) (*dto.SupplierBalanceResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Ledger(ctx context.Context, tenantID, id uuid.UUID, limit int) ([]dto.SupplierLedgerResponse, error)
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.FindByName(ctx, tenantID, name); err == nil {
		return nil, errors.New("a supplier with that name already exists")
	}
	supplier := &model.Supplier{
		TenantID:       tenantID,
		Name:           name,
		Contact:        req.Contact,
		Email:          req.Email,
		Address:        req.Address,
		AdvanceBalance: decimal.Zero,
		Active:         true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *supplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

// Search backs the supplier typeahead on the intake form.
func (s *supplierService) Search(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]dto.SupplierResponse, error) {
	if limit < 1 {
		limit = 10
	}
	suppliers, err := s.repo.SearchByPrefix(ctx, tenantID, prefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

// Balance is queried by the intake form right after a supplier is picked, to
// decide whether the advance-balance option is offered.
func (s *supplierService) Balance(ctx context.Context, tenantID, id uuid.UUID) (*dto.SupplierBalanceResponse, error) {
	supplier, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	return &dto.SupplierBalanceResponse{
		SupplierID:       supplier.ID.String(),
		AvailableAdvance: supplier.AdvanceBalance,
	}, nil
}

func (s *supplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	supplier.Name = strings.TrimSpace(req.Name)
	supplier.Contact = req.Contact
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	resp := supplierToResponse(supplier)
	return &resp, nil
}

func (s *supplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	supplier, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return errors.New("supplier not found")
	}
	if supplier.AdvanceBalance.Sign() != 0 {
		return errors.New("cannot delete a supplier with a non-zero advance balance")
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}

func (s *supplierService) Ledger(ctx context.Context, tenantID, id uuid.UUID, limit int) ([]dto.SupplierLedgerResponse, error) {
	if limit < 1 {
		limit = 50
	}
	entries, err := s.repo.ListLedger(ctx, tenantID, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierLedgerResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.SupplierLedgerResponse{
			ID:           e.ID.String(),
			Type:         e.Type,
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			Note:         e.Note,
			CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return out, nil
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:             s.ID.String(),
		Name:           s.Name,
		Contact:        s.Contact,
		Email:          s.Email,
		Address:        s.Address,
		AdvanceBalance: s.AdvanceBalance,
		Active:         s.Active,
	}
}
