package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/settlement"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseService owns the purchase-invoice lifecycle: intake (with
// product/variant auto-creation and settlement validation), payment
// recording, and cancellation.
type PurchaseService interface {
	Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
	RecordPayment(ctx context.Context, tenantID, userID, id uuid.UUID, req dto.UpdatePurchasePaymentRequest) (*dto.PurchaseResponse, error)
	Cancel(ctx context.Context, tenantID, userID, id uuid.UUID, reason string) error
}

// LockManager serializes per-tenant document numbering across instances.
// Satisfied by infra.Locker; nil means no locking (unit test mode).
type LockManager interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	stockRepo    repository.StockMovementRepository
	accountRepo  repository.AccountRepository
	locker       LockManager
	dispatcher   *worker.Dispatcher
	opts         settlement.Options
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockMovementRepository,
	accountRepo repository.AccountRepository,
	locker LockManager,
	dispatcher *worker.Dispatcher,
	opts settlement.Options,
) PurchaseService {
	return &purchaseService{
		repo:         repo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		accountRepo:  accountRepo,
		locker:       locker,
		dispatcher:   dispatcher,
		opts:         opts,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *purchaseService) withLock(ctx context.Context, key string, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	return s.locker.WithLock(ctx, key, fn)
}

func toSettlementLines(items []dto.PurchaseLineRequest) []settlement.Line {
	lines := make([]settlement.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, settlement.Line{Name: it.Name, Quantity: it.Qty, UnitPrice: it.UnitPrice})
	}
	return lines
}

func returnsToSettlementLines(items []dto.ReturnLineRequest) []settlement.Line {
	lines := make([]settlement.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, settlement.Line{Name: it.Name, Quantity: it.Qty, UnitPrice: it.UnitPrice})
	}
	return lines
}

// ── Create ───────────────────────────────────────────────────────────────────
// Flow:
//   1. Resolve supplier (auto-created when the name is new)
//   2. Run the settlement pass; any contract violation blocks submission
//   3. Validate the accounts the settlement needs actually exist
//   4. One ACID transaction: invoice number, header+lines, product/variant
//      auto-creation, stock movements, advance ledger debit, account postings
//   5. (async) invoice email job

func (s *purchaseService) Create(ctx context.Context, tenantID, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	invoiceDate, err := time.Parse("2006-01-02", req.InvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice_date: %w", err)
	}

	// 1. Supplier: the intake form sends a free-typed name; an unknown
	// supplier is created on the fly.
	supplier, err := s.supplierRepo.FindByName(ctx, tenantID, req.SupplierName)
	if err != nil {
		supplier = &model.Supplier{
			TenantID:       tenantID,
			Name:           strings.TrimSpace(req.SupplierName),
			AdvanceBalance: decimal.Zero,
			Active:         true,
		}
		if err := s.supplierRepo.Create(ctx, supplier); err != nil {
			return nil, fmt.Errorf("create supplier: %w", err)
		}
	}

	// 2. Settlement pass
	var method settlement.ReturnMethod
	if req.ReturnMethod != nil {
		method = settlement.ReturnMethod(*req.ReturnMethod)
	}
	var refundAccount string
	if req.RefundAccountID != nil {
		refundAccount = *req.RefundAccountID
	}
	result := settlement.Compute(settlement.Input{
		Items:            toSettlementLines(req.Items),
		Returns:          returnsToSettlementLines(req.ReturnItems),
		AvailableAdvance: supplier.AdvanceBalance,
		UseAdvance:       req.UseAdvance,
		CashPayment:      req.PaymentAmount,
		DeclaredStatus:   settlement.Status(req.PaymentStatus),
		ReturnMethod:     method,
		RefundAccountID:  refundAccount,
	}, s.opts)
	if !result.OK() {
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Detail
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}

	// 3. Accounts, required iff money actually moves through them.
	var paymentAccountID *uuid.UUID
	if result.CashPayment.Sign() > 0 {
		if req.PaymentAccountID == nil {
			return nil, errors.New("payment_account_id is required when a payment amount is set")
		}
		aid, err := uuid.Parse(*req.PaymentAccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid payment_account_id: %w", err)
		}
		if _, err := s.accountRepo.FindByID(ctx, tenantID, aid); err != nil {
			return nil, errors.New("payment account not found")
		}
		paymentAccountID = &aid
	}

	var refundAccountID *uuid.UUID
	refundCredit := decimal.Zero
	if method == settlement.ReturnRefund {
		aid, err := uuid.Parse(refundAccount)
		if err != nil {
			return nil, fmt.Errorf("invalid return_refund_account_id: %w", err)
		}
		if _, err := s.accountRepo.FindByID(ctx, tenantID, aid); err != nil {
			return nil, errors.New("refund account not found")
		}
		refundAccountID = &aid
		// Only the portion of the return value not absorbed by the payable
		// comes back as cash; on a net-positive invoice the returns already
		// reduced what we owe.
		if result.Totals.Net.IsNegative() {
			refundCredit = result.Totals.Net.Neg()
		}
	}

	// 4. ACID transaction, serialized per tenant for the invoice number.
	var invoice model.PurchaseInvoice
	txErr := s.withLock(ctx, "invoice-seq:"+tenantID.String(), func() error {
		number := ""
		if req.InvoiceNumber != nil && *req.InvoiceNumber != "" {
			number = *req.InvoiceNumber
			if _, err := s.repo.FindByNumber(ctx, tenantID, number); err == nil {
				return fmt.Errorf("invoice number %s already exists", number)
			}
		} else {
			var err error
			number, err = s.repo.NextInvoiceNumber(ctx, tenantID)
			if err != nil {
				return err
			}
		}

		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			invoice = model.PurchaseInvoice{
				TenantID:              tenantID,
				InvoiceNumber:         number,
				SupplierID:            supplier.ID,
				InvoiceDate:           invoiceDate,
				PurchaseTotal:         result.Totals.Purchase,
				ReturnTotal:           result.Totals.Return,
				NetTotal:              result.Totals.Net,
				AdvanceUsed:           result.AdvanceUsed,
				PaymentAmount:         result.CashPayment,
				PaymentAccountID:      paymentAccountID,
				PaymentStatus:         string(result.Status),
				ReturnRefundAccountID: refundAccountID,
				Status:                "active",
				Notes:                 req.Notes,
				CreatedBy:             userID,
			}
			if method != "" {
				m := string(method)
				invoice.ReturnHandlingMethod = &m
			}

			// Purchase lines: resolve or auto-create catalog entries, move
			// stock in, refresh the last purchase price.
			for _, it := range req.Items {
				l := settlement.Line{Name: it.Name, Quantity: it.Qty, UnitPrice: it.UnitPrice}
				if !l.Valid() {
					continue // half-typed rows never reach persistence
				}
				product, variantID, autoCreated, err := s.resolveProduct(tx, tenantID, it)
				if err != nil {
					return err
				}

				unitPrice := *it.UnitPrice
				qty := int(*it.Qty)
				invoice.Items = append(invoice.Items, model.PurchaseItem{
					ProductID:          product.ID,
					VariantID:          variantID,
					Name:               it.Name,
					Qty:                qty,
					UnitPrice:          unitPrice,
					LineTotal:          unitPrice.Mul(decimal.NewFromInt(*it.Qty)),
					ProductAutoCreated: autoCreated,
				})

				before, err := s.productRepo.AdjustStockTx(tx, tenantID, product.ID, variantID, qty)
				if err != nil {
					return fmt.Errorf("stock in for %s: %w", it.Name, err)
				}
				if err := s.stockRepo.CreateTx(tx, &model.StockMovement{
					TenantID:    tenantID,
					ProductID:   product.ID,
					VariantID:   variantID,
					Type:        "purchase",
					Qty:         qty,
					StockBefore: before,
					StockAfter:  before + qty,
					Note:        "Purchase " + number,
				}); err != nil {
					return err
				}
				if err := s.productRepo.UpdateLastPurchasePriceTx(tx, tenantID, product.ID, variantID, unitPrice); err != nil {
					return err
				}
			}

			// Return lines: stock out when the product is known; a return of
			// never-catalogued stock is recorded by name only.
			for _, it := range req.ReturnItems {
				l := settlement.Line{Name: it.Name, Quantity: it.Qty, UnitPrice: it.UnitPrice}
				if !l.Valid() {
					continue
				}
				unitPrice := *it.UnitPrice
				qty := int(*it.Qty)
				ret := model.PurchaseReturnItem{
					Name:      it.Name,
					Qty:       qty,
					UnitPrice: unitPrice,
					LineTotal: unitPrice.Mul(decimal.NewFromInt(*it.Qty)),
					Reason:    it.Reason,
				}

				if product, err := s.productRepo.FindByNameTx(tx, tenantID, it.Name); err == nil {
					ret.ProductID = &product.ID
					before, err := s.productRepo.AdjustStockTx(tx, tenantID, product.ID, nil, -qty)
					if err != nil {
						return fmt.Errorf("stock out for %s: %w", it.Name, err)
					}
					if err := s.stockRepo.CreateTx(tx, &model.StockMovement{
						TenantID:    tenantID,
						ProductID:   product.ID,
						Type:        "purchase_return",
						Qty:         -qty,
						StockBefore: before,
						StockAfter:  before - qty,
						Note:        "Return on purchase " + number,
					}); err != nil {
						return err
					}
				}
				invoice.ReturnItems = append(invoice.ReturnItems, ret)
			}

			if err := s.repo.CreateTx(tx, &invoice); err != nil {
				return err
			}
			ref := invoice.ID

			// Settlement postings
			if result.AdvanceUsed.Sign() > 0 {
				if _, err := s.supplierRepo.AdjustAdvanceTx(tx, tenantID, supplier.ID,
					result.AdvanceUsed.Neg(), "advance_used",
					"Applied to purchase "+number, &ref); err != nil {
					return fmt.Errorf("advance debit: %w", err)
				}
			}
			if result.CashPayment.Sign() > 0 && paymentAccountID != nil {
				if _, err := s.accountRepo.PostTx(tx, tenantID, *paymentAccountID,
					result.CashPayment.Neg(), "purchase_payment",
					"Payment for purchase "+number, &ref, userID); err != nil {
					return fmt.Errorf("payment posting: %w", err)
				}
			}
			if refundCredit.Sign() > 0 && refundAccountID != nil {
				if _, err := s.accountRepo.PostTx(tx, tenantID, *refundAccountID,
					refundCredit, "purchase_refund",
					"Refund for returns on purchase "+number, &ref, userID); err != nil {
					return fmt.Errorf("refund posting: %w", err)
				}
			}
			return nil
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// 5. Async invoice email, best effort.
	if s.dispatcher != nil && supplier.Email != nil && *supplier.Email != "" {
		_ = s.dispatcher.EnqueueEmail(ctx, map[string]interface{}{
			"invoice_id": invoice.ID.String(),
			"tenant_id":  tenantID.String(),
			"to":         *supplier.Email,
		})
	}

	invoice.Supplier = supplier
	return purchaseToResponse(&invoice), nil
}

// resolveProduct finds the product (and variant) a purchase line refers to,
// creating missing entries flagged auto_created for later review.
func (s *purchaseService) resolveProduct(tx *gorm.DB, tenantID uuid.UUID, it dto.PurchaseLineRequest) (*model.Product, *uuid.UUID, bool, error) {
	autoCreated := false
	product, err := s.productRepo.FindByNameTx(tx, tenantID, it.Name)
	if err != nil {
		product = &model.Product{
			TenantID:    tenantID,
			Name:        strings.TrimSpace(it.Name),
			SKU:         it.SKU,
			Category:    it.Category,
			Description: it.Description,
			AutoCreated: true,
			Active:      true,
		}
		if it.VariantName != nil {
			product.HasVariants = true
		}
		if err := s.productRepo.CreateTx(tx, product); err != nil {
			return nil, nil, false, fmt.Errorf("create product %s: %w", it.Name, err)
		}
		autoCreated = true
	}

	if it.VariantName == nil || *it.VariantName == "" {
		return product, nil, autoCreated, nil
	}

	variant, err := s.productRepo.FindVariantByNameTx(tx, tenantID, product.ID, *it.VariantName)
	if err != nil {
		variant = &model.ProductVariant{
			TenantID:    tenantID,
			ProductID:   product.ID,
			Name:        *it.VariantName,
			AutoCreated: true,
			Active:      true,
		}
		if err := s.productRepo.CreateVariantTx(tx, variant); err != nil {
			return nil, nil, false, fmt.Errorf("create variant %s: %w", *it.VariantName, err)
		}
		autoCreated = true
	}
	return product, &variant.ID, autoCreated, nil
}

// ── GetByID / List ───────────────────────────────────────────────────────────

func (s *purchaseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseResponse, error) {
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("purchase invoice not found")
	}
	return purchaseToResponse(inv), nil
}

func (s *purchaseService) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	invoices, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *purchaseToResponse(&invoices[i]))
	}
	return &dto.PurchaseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── RecordPayment ────────────────────────────────────────────────────────────
// Adds a verified payment to an existing invoice and re-derives the status.

func (s *purchaseService) RecordPayment(ctx context.Context, tenantID, userID, id uuid.UUID, req dto.UpdatePurchasePaymentRequest) (*dto.PurchaseResponse, error) {
	if req.Amount.Sign() <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, errors.New("purchase invoice not found")
	}
	if inv.Status != "active" {
		return nil, errors.New("cannot record a payment on a cancelled invoice")
	}
	if inv.NetTotal.Sign() <= 0 {
		return nil, errors.New("a return-only invoice cannot carry a payment")
	}

	aid, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account_id: %w", err)
	}
	if _, err := s.accountRepo.FindByID(ctx, tenantID, aid); err != nil {
		return nil, errors.New("payment account not found")
	}

	newPayment := inv.PaymentAmount.Add(req.Amount)
	if inv.AdvanceUsed.Add(newPayment).GreaterThan(inv.NetTotal) {
		return nil, errors.New("payment exceeds invoice total")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ref := inv.ID
		if _, err := s.accountRepo.PostTx(tx, tenantID, aid,
			req.Amount.Neg(), "purchase_payment",
			"Payment for purchase "+inv.InvoiceNumber, &ref, userID); err != nil {
			return err
		}
		inv.PaymentAmount = newPayment
		inv.PaymentAccountID = &aid
		inv.PaymentStatus = string(settlement.ResolveStatus(inv.NetTotal, inv.AdvanceUsed, newPayment))
		return s.repo.UpdateTx(tx, inv)
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(inv), nil
}

// ── Cancel ───────────────────────────────────────────────────────────────────
// Compensates everything the create transaction did: stock back out/in,
// advance re-credited, account postings reversed.

func (s *purchaseService) Cancel(ctx context.Context, tenantID, userID, id uuid.UUID, reason string) error {
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return errors.New("purchase invoice not found")
	}
	if inv.Status == "cancelled" {
		return errors.New("invoice is already cancelled")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ref := inv.ID
		note := fmt.Sprintf("Cancelled purchase %s: %s", inv.InvoiceNumber, reason)

		for _, item := range inv.Items {
			before, err := s.productRepo.AdjustStockTx(tx, tenantID, item.ProductID, item.VariantID, -item.Qty)
			if err != nil {
				return err
			}
			if err := s.stockRepo.CreateTx(tx, &model.StockMovement{
				TenantID:    tenantID,
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				Type:        "invoice_cancel",
				Qty:         -item.Qty,
				StockBefore: before,
				StockAfter:  before - item.Qty,
				Note:        note,
				ReferenceID: &ref,
			}); err != nil {
				return err
			}
		}
		for _, item := range inv.ReturnItems {
			if item.ProductID == nil {
				continue
			}
			before, err := s.productRepo.AdjustStockTx(tx, tenantID, *item.ProductID, nil, item.Qty)
			if err != nil {
				return err
			}
			if err := s.stockRepo.CreateTx(tx, &model.StockMovement{
				TenantID:    tenantID,
				ProductID:   *item.ProductID,
				Type:        "invoice_cancel",
				Qty:         item.Qty,
				StockBefore: before,
				StockAfter:  before + item.Qty,
				Note:        note,
				ReferenceID: &ref,
			}); err != nil {
				return err
			}
		}

		if inv.AdvanceUsed.Sign() > 0 {
			if _, err := s.supplierRepo.AdjustAdvanceTx(tx, tenantID, inv.SupplierID,
				inv.AdvanceUsed, "advance_added", note, &ref); err != nil {
				return err
			}
		}
		if inv.PaymentAmount.Sign() > 0 && inv.PaymentAccountID != nil {
			if _, err := s.accountRepo.PostTx(tx, tenantID, *inv.PaymentAccountID,
				inv.PaymentAmount, "purchase_payment", note, &ref, userID); err != nil {
				return err
			}
		}
		if inv.NetTotal.IsNegative() && inv.ReturnRefundAccountID != nil {
			if _, err := s.accountRepo.PostTx(tx, tenantID, *inv.ReturnRefundAccountID,
				inv.NetTotal, "purchase_refund", note, &ref, userID); err != nil {
				return err
			}
		}

		inv.Status = "cancelled"
		return s.repo.UpdateTx(tx, inv)
	})
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func purchaseToResponse(inv *model.PurchaseInvoice) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		var variantID *string
		if it.VariantID != nil {
			v := it.VariantID.String()
			variantID = &v
		}
		items = append(items, dto.PurchaseItemResponse{
			ProductID:   it.ProductID.String(),
			VariantID:   variantID,
			Name:        it.Name,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			AutoCreated: it.ProductAutoCreated,
		})
	}
	returns := make([]dto.ReturnItemResponse, 0, len(inv.ReturnItems))
	for _, it := range inv.ReturnItems {
		var productID *string
		if it.ProductID != nil {
			p := it.ProductID.String()
			productID = &p
		}
		returns = append(returns, dto.ReturnItemResponse{
			ProductID: productID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
			Reason:    it.Reason,
		})
	}
	supplierName := ""
	if inv.Supplier != nil {
		supplierName = inv.Supplier.Name
	}
	return &dto.PurchaseResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		SupplierID:    inv.SupplierID.String(),
		SupplierName:  supplierName,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		PurchaseTotal: inv.PurchaseTotal,
		ReturnTotal:   inv.ReturnTotal,
		NetTotal:      inv.NetTotal,
		AdvanceUsed:   inv.AdvanceUsed,
		PaymentAmount: inv.PaymentAmount,
		PaymentStatus: inv.PaymentStatus,
		ReturnMethod:  inv.ReturnHandlingMethod,
		Status:        inv.Status,
		Items:         items,
		ReturnItems:   returns,
		CreatedAt:     inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
