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

type CustomersHandler struct {
	svc    service.CustomerService
	search *typeahead.Group[[]dto.CustomerResponse]
}

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	h := &CustomersHandler{svc: svc}
	h.search = typeahead.NewGroup(h.fetch, typeahead.Options{
		Debounce: 250 * time.Millisecond,
		TTL:      30 * time.Second,
	})
	return h
}

func (h *CustomersHandler) fetch(ctx context.Context, query string) ([]dto.CustomerResponse, error) {
	tenantID, _ := ctx.Value(searchTenant{}).(uuid.UUID)
	return h.svc.Search(ctx, tenantID, query, 10)
}

// Create godoc
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer details"
// @Success      201  {object} dto.CustomerResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
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
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.CustomerResponse
// @Router       /v1/customers [get]
func (h *CustomersHandler) List(c *gin.Context) {
	tenantID, _ := authContext(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list customers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary      Customer typeahead
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        q   query string true  "Name prefix"
// @Param        sid query string false "Search box id"
// @Success      200 {array} dto.CustomerResponse
// @Success      204 "Superseded by a newer query"
// @Router       /v1/customers/search [get]
func (h *CustomersHandler) Search(c *gin.Context) {
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
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/customers/{id} [get]
func (h *CustomersHandler) GetByID(c *gin.Context) {
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
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Customer UUID"
// @Param        body body dto.CreateCustomerRequest true "Customer details"
// @Success      200  {object} dto.CustomerResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/customers/{id} [put]
func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCustomerRequest
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
// @Summary      Deactivate a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/customers/{id} [delete]
func (h *CustomersHandler) Delete(c *gin.Context) {
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
