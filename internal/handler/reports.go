package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/apierror"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// ExportPurchases godoc
// @Summary      Export purchase invoices as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        supplier_id    query string false "Supplier UUID"
// @Param        payment_status query string false "unpaid | partial | paid"
// @Param        from           query string false "From date YYYY-MM-DD"
// @Param        to             query string false "To date YYYY-MM-DD"
// @Success      200 {file} binary
// @Router       /v1/reports/purchases [get]
func (h *ReportsHandler) ExportPurchases(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := authContext(c)
	buf, err := h.svc.ExportPurchases(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("export failed"))
		return
	}
	filename := fmt.Sprintf("purchases_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportOrders godoc
// @Summary      Export customer orders as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        customer_id query string false "Customer UUID"
// @Param        status      query string false "pending | confirmed | dispatched | delivered | cancelled | all"
// @Success      200 {file} binary
// @Router       /v1/reports/orders [get]
func (h *ReportsHandler) ExportOrders(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	tenantID, _ := authContext(c)
	buf, err := h.svc.ExportOrders(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("export failed"))
		return
	}
	filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportStockMovements godoc
// @Summary      Export stock movements as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        product_id query string false "Product UUID"
// @Param        type       query string false "Movement type"
// @Success      200 {file} binary
// @Router       /v1/reports/stock-movements [get]
func (h *ReportsHandler) ExportStockMovements(c *gin.Context) {
	var filter repository.StockMovementFilter
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
			return
		}
		filter.ProductID = &id
	}
	filter.Type = c.Query("type")

	tenantID, _ := authContext(c)
	buf, err := h.svc.ExportStockMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("export failed"))
		return
	}
	filename := fmt.Sprintf("stock_movements_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
