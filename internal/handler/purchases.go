package handler

import (
	"net/http"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/apierror"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Create godoc
// @Summary      Record a purchase invoice
// @Description  Creates a purchase invoice ACID: settles advance and payment,
// @Description  auto-creates unknown products, moves stock in (and out for
// @Description  returned items), and posts account movements.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePurchaseRequest true "Invoice details"
// @Success      201  {object} dto.PurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, userID := authContext(c)
	resp, err := h.svc.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List purchase invoices
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        supplier_id    query string false "Supplier UUID"
// @Param        payment_status query string false "unpaid | partial | paid"
// @Param        status         query string false "active | cancelled | all"
// @Param        from           query string false "From date YYYY-MM-DD"
// @Param        to             query string false "To date YYYY-MM-DD"
// @Param        page           query int    false "Page (default 1)"
// @Param        limit          query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.PurchaseListResponse
// @Router       /v1/purchases [get]
func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list purchases"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a purchase invoice
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} dto.PurchaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/purchases/{id} [get]
func (h *PurchasesHandler) GetByID(c *gin.Context) {
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

// RecordPayment godoc
// @Summary      Record a payment against an invoice
// @Description  Adds a payment, posts it to the chosen account and re-derives
// @Description  the payment status.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Invoice UUID"
// @Param        body body dto.UpdatePurchasePaymentRequest true "Payment"
// @Success      200  {object} dto.PurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/purchases/{id}/payments [post]
func (h *PurchasesHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePurchasePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, userID := authContext(c)
	resp, err := h.svc.RecordPayment(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Cancel a purchase invoice
// @Description  Reverses stock movements, advance usage and account postings.
// @Tags         purchases
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string true "Invoice UUID"
// @Param        body body dto.CancelPurchaseRequest true "Reason"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/purchases/{id} [delete]
func (h *PurchasesHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CancelPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, userID := authContext(c)
	if err := h.svc.Cancel(c.Request.Context(), tenantID, userID, id, req.Reason); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
