package service

import (
	"context"
	"errors"
	"strings"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Search(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]dto.ProductResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AddVariant(ctx context.Context, tenantID, productID uuid.UUID, req dto.CreateVariantRequest) (*dto.VariantResponse, error)
	ListVariants(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.VariantResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.FindByName(ctx, tenantID, name); err == nil {
		return nil, errors.New("a product with that name already exists")
	}
	product := &model.Product{
		TenantID:    tenantID,
		Name:        name,
		SKU:         req.SKU,
		Category:    req.Category,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Search backs the product typeahead on the intake form; results carry the
// last purchase price so the form can pre-fill it.
func (s *productService) Search(ctx context.Context, tenantID uuid.UUID, prefix string, limit int) ([]dto.ProductResponse, error) {
	if limit < 1 {
		limit = 10
	}
	products, err := s.repo.SearchByPrefix(ctx, tenantID, prefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	product.Name = strings.TrimSpace(req.Name)
	product.SKU = req.SKU
	product.Category = req.Category
	product.Description = req.Description
	// Manual edit means the entry has been reviewed.
	product.AutoCreated = false
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *productService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return errors.New("product not found")
	}
	if product.StockQty != 0 {
		return errors.New("cannot delete a product with stock on hand")
	}
	return s.repo.SoftDelete(ctx, tenantID, id)
}

func (s *productService) AddVariant(ctx context.Context, tenantID, productID uuid.UUID, req dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	product, err := s.repo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if _, err := s.repo.FindVariantByName(ctx, tenantID, productID, req.Name); err == nil {
		return nil, errors.New("a variant with that name already exists")
	}
	variant := &model.ProductVariant{
		TenantID:  tenantID,
		ProductID: productID,
		Name:      req.Name,
		SKU:       req.SKU,
		Active:    true,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}
	if !product.HasVariants {
		product.HasVariants = true
		if err := s.repo.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	resp := variantToResponse(variant)
	return &resp, nil
}

func (s *productService) ListVariants(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.VariantResponse, error) {
	variants, err := s.repo.ListVariants(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariantResponse, 0, len(variants))
	for i := range variants {
		out = append(out, variantToResponse(&variants[i]))
	}
	return out, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		SKU:               p.SKU,
		Category:          p.Category,
		Description:       p.Description,
		LastPurchasePrice: p.LastPurchasePrice,
		StockQty:          p.StockQty,
		HasVariants:       p.HasVariants,
		AutoCreated:       p.AutoCreated,
		Active:            p.Active,
	}
}

func variantToResponse(v *model.ProductVariant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:                v.ID.String(),
		ProductID:         v.ProductID.String(),
		Name:              v.Name,
		SKU:               v.SKU,
		LastPurchasePrice: v.LastPurchasePrice,
		StockQty:          v.StockQty,
	}
}
