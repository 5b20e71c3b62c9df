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

type CustomerService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]dto.CustomerResponse, error)
	Search(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.Customer{
		TenantID: tenantID,
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Balance:  decimal.Zero,
		Active:   true,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, tenantID uuid.UUID) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Search(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]dto.CustomerResponse, error) {
	if limit < 1 {
		limit = 10
	}
	customers, err := s.repo.SearchByPrefix(ctx, tenantID, prefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("customer not found")
	}
	customer.Name = strings.TrimSpace(req.Name)
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *customerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return errors.New("customer not found")
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Balance: c.Balance,
		Active:  c.Active,
	}
}
