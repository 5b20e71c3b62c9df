package infra

// pdf.go: purchase invoice PDF generation using go-pdf/fpdf.
// A5 portrait document with supplier details, the purchased and returned
// item tables, and the settlement block (net total, advance used, payment,
// status). The output file is saved to storagePath/invoice_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateInvoicePDF renders a PurchaseInvoice (with Items, ReturnItems and
// Supplier preloaded) and returns the absolute path of the generated file.
func GenerateInvoicePDF(inv *model.PurchaseInvoice, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	safeNumber := strings.ReplaceAll(inv.InvoiceNumber, "/", "-")
	filePath := filepath.Join(storagePath, fmt.Sprintf("invoice_%s.pdf", safeNumber))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Purchase Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW/2, 5, "Invoice "+inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, inv.InvoiceDate.Format("02/01/2006"), "", 1, "R", false, 0, "")
	if inv.Supplier != nil {
		pdf.CellFormat(contentW, 5, "Supplier: "+inv.Supplier.Name, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.50
	col2 := contentW * 0.14
	col3 := contentW * 0.18
	col4 := contentW * 0.18

	writeTable := func(title string, rows func()) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Price", "B", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		rows()
		pdf.Ln(2)
	}

	writeTable("Items", func() {
		for _, item := range inv.Items {
			pdf.CellFormat(col1, 5, item.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, fmt.Sprintf("%d", item.Qty), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 5, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
		}
	})

	if len(inv.ReturnItems) > 0 {
		writeTable("Returned Items", func() {
			for _, item := range inv.ReturnItems {
				pdf.CellFormat(col1, 5, item.Name, "", 0, "L", false, 0, "")
				pdf.CellFormat(col2, 5, fmt.Sprintf("%d", item.Qty), "", 0, "C", false, 0, "")
				pdf.CellFormat(col3, 5, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
				pdf.CellFormat(col4, 5, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
			}
		})
	}

	// ── Settlement block ─────────────────────────────────────────────────────
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(1)

	settleRow := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(contentW*0.6, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, "Rs. "+amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	settleRow("Purchase Total", inv.PurchaseTotal, false)
	if inv.ReturnTotal.Sign() > 0 {
		settleRow("Return Total", inv.ReturnTotal.Neg(), false)
	}
	settleRow("Net Total", inv.NetTotal, true)
	if inv.AdvanceUsed.Sign() > 0 {
		settleRow("Advance Applied", inv.AdvanceUsed, false)
	}
	if inv.PaymentAmount.Sign() > 0 {
		settleRow("Payment", inv.PaymentAmount, false)
	}

	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Status: "+strings.ToUpper(inv.PaymentStatus), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
