package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/apierror"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/service"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/typeahead"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct {
	svc    service.ProductService
	search *typeahead.Group[[]dto.ProductResponse]
}

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	h := &ProductsHandler{svc: svc}
	h.search = typeahead.NewGroup(h.fetch, typeahead.Options{
		Debounce: 250 * time.Millisecond,
		TTL:      30 * time.Second,
	})
	return h
}

func (h *ProductsHandler) fetch(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	tenantID, _ := ctx.Value(searchTenant{}).(uuid.UUID)
	return h.svc.Search(ctx, tenantID, query, 10)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product details"
// @Success      201  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name     query string false "Name filter"
// @Param        category query string false "Category filter"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary      Product typeahead
// @Description  Prefix search with per-search-box debounce and supersede;
// @Description  results carry last_purchase_price for form pre-fill. Each
// @Description  invoice row is its own search box: pass the row id as sid.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        q   query string true  "Name prefix"
// @Param        sid query string false "Search box id"
// @Success      200 {array} dto.ProductResponse
// @Success      204 "Superseded by a newer query"
// @Router       /v1/products/search [get]
func (h *ProductsHandler) Search(c *gin.Context) {
	var filter dto.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.Q == "" {
		c.JSON(http.StatusBadRequest, apierror.New("q is required"))
		return
	}
	tenantID, _ := authContext(c)
	sid := c.DefaultQuery("sid", "default")

	ctx := context.WithValue(c.Request.Context(), searchTenant{}, tenantID)
	results, err := h.search.Get(ctx, tenantID.String()+":"+sid, filter.Q)
	if err != nil {
		if errors.Is(err, typeahead.ErrSuperseded) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("search failed"))
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a product
// @Description  A manual edit also clears the auto_created review flag.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Product UUID"
// @Param        body body dto.CreateProductRequest true "Product details"
// @Success      200  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Deactivate a product
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := authContext(c)
	if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// AddVariant godoc
// @Summary      Add a variant
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Product UUID"
// @Param        body body dto.CreateVariantRequest true "Variant details"
// @Success      201  {object} dto.VariantResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products/{id}/variants [post]
func (h *ProductsHandler) AddVariant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateVariantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.AddVariant(c.Request.Context(), tenantID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListVariants godoc
// @Summary      List variants of a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {array} dto.VariantResponse
// @Router       /v1/products/{id}/variants [get]
func (h *ProductsHandler) ListVariants(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.ListVariants(c.Request.Context(), tenantID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list variants"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
