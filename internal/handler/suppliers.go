package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/apierror"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/service"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/typeahead"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// searchTenant carries the tenant through the typeahead fetch closure, which
// only sees (ctx, query).
type searchTenant struct{}

type SuppliersHandler struct {
	svc    service.SupplierService
	search *typeahead.Group[[]dto.SupplierResponse]
}

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	h := &SuppliersHandler{svc: svc}
	h.search = typeahead.NewGroup(h.fetch, typeahead.Options{
		Debounce: 250 * time.Millisecond,
		TTL:      30 * time.Second,
	})
	return h
}

func (h *SuppliersHandler) fetch(ctx context.Context, query string) ([]dto.SupplierResponse, error) {
	tenantID, _ := ctx.Value(searchTenant{}).(uuid.UUID)
	return h.svc.Search(ctx, tenantID, query, 10)
}

// Create godoc
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSupplierRequest true "Supplier details"
// @Success      201  {object} dto.SupplierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/suppliers [post]
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
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
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.SupplierResponse
// @Router       /v1/suppliers [get]
func (h *SuppliersHandler) List(c *gin.Context) {
	tenantID, _ := authContext(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list suppliers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary      Supplier typeahead
// @Description  Prefix search with per-search-box debounce and supersede: a
// @Description  newer query from the same box (sid) cancels this one, which
// @Description  responds 204 so the client drops the stale result.
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        q   query string true  "Name prefix"
// @Param        sid query string false "Search box id"
// @Success      200 {array} dto.SupplierResponse
// @Success      204 "Superseded by a newer query"
// @Router       /v1/suppliers/search [get]
func (h *SuppliersHandler) Search(c *gin.Context) {
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
// @Summary      Get a supplier
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      200 {object} dto.SupplierResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/suppliers/{id} [get]
func (h *SuppliersHandler) GetByID(c *gin.Context) {
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

// Balance godoc
// @Summary      Advance balance available against a new invoice
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      200 {object} dto.SupplierBalanceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/suppliers/{id}/balance [get]
func (h *SuppliersHandler) Balance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.Balance(c.Request.Context(), tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ledger godoc
// @Summary      Advance-balance ledger
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Supplier UUID"
// @Param        limit query int    false "Max entries (default 50)"
// @Success      200  {array} dto.SupplierLedgerResponse
// @Router       /v1/suppliers/{id}/ledger [get]
func (h *SuppliersHandler) Ledger(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tenantID, _ := authContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.Ledger(c.Request.Context(), tenantID, id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list ledger"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Supplier UUID"
// @Param        body body dto.CreateSupplierRequest true "Supplier details"
// @Success      200  {object} dto.SupplierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/suppliers/{id} [put]
func (h *SuppliersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSupplierRequest
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
// @Summary      Deactivate a supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/suppliers/{id} [delete]
func (h *SuppliersHandler) Delete(c *gin.Context) {
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
