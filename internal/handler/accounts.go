package handler

import (
	"net/http"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/apierror"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountsHandler struct{ svc service.AccountService }

func NewAccountsHandler(svc service.AccountService) *AccountsHandler {
	return &AccountsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a payment account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAccountRequest true "Account details"
// @Success      201  {object} dto.AccountResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/accounts [post]
func (h *AccountsHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
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
// @Summary      List payment accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.AccountResponse
// @Router       /v1/accounts [get]
func (h *AccountsHandler) List(c *gin.Context) {
	tenantID, _ := authContext(c)
	resp, err := h.svc.List(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list accounts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a payment account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Account UUID"
// @Success      200 {object} dto.AccountResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/accounts/{id} [get]
func (h *AccountsHandler) GetByID(c *gin.Context) {
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

// Deposit godoc
// @Summary      Manual deposit
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Account UUID"
// @Param        body body dto.AdjustBalanceRequest true "Amount"
// @Success      200  {object} dto.AccountResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/accounts/{id}/deposit [post]
func (h *AccountsHandler) Deposit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustBalanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, userID := authContext(c)
	resp, err := h.svc.Deposit(c.Request.Context(), tenantID, userID, id, req.Amount, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Withdraw godoc
// @Summary      Manual withdrawal
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Account UUID"
// @Param        body body dto.AdjustBalanceRequest true "Amount"
// @Success      200  {object} dto.AccountResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/accounts/{id}/withdraw [post]
func (h *AccountsHandler) Withdraw(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustBalanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tenantID, userID := authContext(c)
	resp, err := h.svc.Withdraw(c.Request.Context(), tenantID, userID, id, req.Amount, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transactions godoc
// @Summary      List account transactions
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Account UUID"
// @Param        type  query string false "Transaction type filter"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200  {object} dto.TransactionListResponse
// @Router       /v1/accounts/{id}/transactions [get]
func (h *AccountsHandler) Transactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := authContext(c)
	resp, err := h.svc.Transactions(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list transactions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Deactivate a payment account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id path string true "Account UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/accounts/{id} [delete]
func (h *AccountsHandler) Delete(c *gin.Context) {
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
