package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ReportService produces spreadsheet exports for the back office.
type ReportService interface {
	ExportPurchases(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseFilter) (*bytes.Buffer, error)
	ExportOrders(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) (*bytes.Buffer, error)
	ExportStockMovements(ctx context.Context, tenantID uuid.UUID, filter repository.StockMovementFilter) (*bytes.Buffer, error)
}

type reportService struct {
	purchaseRepo repository.PurchaseRepository
	orderRepo    repository.OrderRepository
	stockRepo    repository.StockMovementRepository
}

func NewReportService(purchaseRepo repository.PurchaseRepository, orderRepo repository.OrderRepository, stockRepo repository.StockMovementRepository) ReportService {
	return &reportService{purchaseRepo: purchaseRepo, orderRepo: orderRepo, stockRepo: stockRepo}
}

func (s *reportService) ExportPurchases(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseFilter) (*bytes.Buffer, error) {
	filter.Page = 1
	if filter.Limit < 1 {
		filter.Limit = 200
	}
	invoices, _, err := s.purchaseRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Invoice", "Date", "Supplier", "Purchase Total", "Return Total", "Net Total", "Advance Used", "Paid", "Payment Status", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", cell, h)
	}
	for row, inv := range invoices {
		supplierName := ""
		if inv.Supplier != nil {
			supplierName = inv.Supplier.Name
		}
		values := []interface{}{
			inv.InvoiceNumber,
			inv.InvoiceDate.Format("2006-01-02"),
			supplierName,
			inv.PurchaseTotal.InexactFloat64(),
			inv.ReturnTotal.InexactFloat64(),
			inv.NetTotal.InexactFloat64(),
			inv.AdvanceUsed.InexactFloat64(),
			inv.PaymentAmount.InexactFloat64(),
			inv.PaymentStatus,
			inv.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Sheet1", cell, v)
		}
	}
	f.SetColWidth("Sheet1", "A", "C", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

func (s *reportService) ExportOrders(ctx context.Context, tenantID uuid.UUID, filter dto.OrderFilter) (*bytes.Buffer, error) {
	filter.Page = 1
	if filter.Limit < 1 {
		filter.Limit = 200
	}
	orders, _, err := s.orderRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Order", "Date", "Customer", "Status", "Total", "Payment Verified", "Paid"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", cell, h)
	}
	for row, o := range orders {
		customerName := ""
		if o.Customer != nil {
			customerName = o.Customer.Name
		}
		values := []interface{}{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02"),
			customerName,
			o.Status,
			o.Total.InexactFloat64(),
			o.PaymentVerified,
			o.PaymentAmount.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Sheet1", cell, v)
		}
	}
	f.SetColWidth("Sheet1", "A", "C", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

func (s *reportService) ExportStockMovements(ctx context.Context, tenantID uuid.UUID, filter repository.StockMovementFilter) (*bytes.Buffer, error) {
	if filter.Limit < 1 {
		filter.Limit = 500
	}
	movements, _, err := s.stockRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Date", "Product", "Type", "Qty", "Stock Before", "Stock After", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", cell, h)
	}
	for row, m := range movements {
		productName := m.ProductID.String()
		if m.Product != nil {
			productName = m.Product.Name
		}
		values := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04"),
			productName,
			m.Type,
			m.Qty,
			m.StockBefore,
			m.StockAfter,
			m.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Sheet1", cell, v)
		}
	}
	f.SetColWidth("Sheet1", "B", "B", 28)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}
