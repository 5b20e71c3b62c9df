package worker

// email_worker.go
// Processes invoice email jobs from QueueEmail: renders the invoice PDF and
// mails it to the supplier.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/infra"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailJob is the job envelope sent to QueueEmail.
type EmailJob struct {
	InvoiceID string `json:"invoice_id"`
	TenantID  string `json:"tenant_id"`
	To        string `json:"to"`
}

type EmailWorker struct {
	mailer         *infra.Mailer
	purchaseRepo   repository.PurchaseRepository
	tenantRepo     repository.TenantRepository
	pdfStoragePath string
}

func NewEmailWorker(mailer *infra.Mailer, purchaseRepo repository.PurchaseRepository, tenantRepo repository.TenantRepository, pdfStoragePath string) *EmailWorker {
	return &EmailWorker{
		mailer:         mailer,
		purchaseRepo:   purchaseRepo,
		tenantRepo:     tenantRepo,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders the invoice PDF and sends it as an attachment.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if job.To == "" {
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return
	}

	tenantID, err := uuid.Parse(job.TenantID)
	if err != nil {
		log.Error().Str("tenant_id", job.TenantID).Msg("email_worker: invalid tenant_id")
		return
	}
	invoiceID, err := uuid.Parse(job.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", job.InvoiceID).Msg("email_worker: invalid invoice_id")
		return
	}

	invoice, err := w.purchaseRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", job.InvoiceID).Msg("email_worker: invoice not found")
		return
	}

	businessName := "asanOrder"
	if tenant, err := w.tenantRepo.FindByID(ctx, tenantID); err == nil {
		businessName = tenant.Name
	}

	pdfPath, err := infra.GenerateInvoicePDF(invoice, businessName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", job.InvoiceID).Msg("email_worker: PDF generation failed")
		return
	}

	subject := fmt.Sprintf("Purchase invoice %s", invoice.InvoiceNumber)
	body := fmt.Sprintf("Please find attached purchase invoice %s.\nNet total: Rs. %s",
		invoice.InvoiceNumber, invoice.NetTotal.StringFixed(2))
	if err := w.mailer.SendInvoice(job.To, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", job.To).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", job.To).Str("invoice", invoice.InvoiceNumber).Msg("email_worker: invoice sent")
}
