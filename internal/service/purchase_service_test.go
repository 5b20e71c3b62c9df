package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/dto"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubPurchaseRepo is an in-memory PurchaseRepository. DB() returns nil so
// runTx calls straight through without a transaction.
type stubPurchaseRepo struct {
	invoices map[uuid.UUID]*model.PurchaseInvoice
	byNumber map[string]*model.PurchaseInvoice
	seq      int
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{
		invoices: make(map[uuid.UUID]*model.PurchaseInvoice),
		byNumber: make(map[string]*model.PurchaseInvoice),
	}
}

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, inv *model.PurchaseInvoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	r.byNumber[inv.InvoiceNumber] = inv
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.PurchaseInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubPurchaseRepo) FindByNumber(_ context.Context, _ uuid.UUID, number string) (*model.PurchaseInvoice, error) {
	inv, ok := r.byNumber[number]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, _ uuid.UUID, _ dto.PurchaseFilter) ([]model.PurchaseInvoice, int64, error) {
	out := make([]model.PurchaseInvoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) UpdateTx(_ *gorm.DB, inv *model.PurchaseInvoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubPurchaseRepo) NextInvoiceNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("PI-%05d", r.seq), nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// stubSupplierRepo keeps suppliers and their advance ledger in memory.
type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
	byName    map[string]*model.Supplier
	ledger    []model.SupplierLedgerEntry
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		suppliers: make(map[uuid.UUID]*model.Supplier),
		byName:    make(map[string]*model.Supplier),
	}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	r.byName[s.Name] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindByName(_ context.Context, _ uuid.UUID, name string) (*model.Supplier, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) SearchByPrefix(_ context.Context, _ uuid.UUID, _ string, _ int) ([]model.Supplier, error) {
	return nil, nil
}

func (r *stubSupplierRepo) List(_ context.Context, _ uuid.UUID) ([]model.Supplier, error) {
	return nil, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) SoftDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) AdjustAdvanceTx(_ *gorm.DB, tenantID, supplierID uuid.UUID, delta decimal.Decimal, entryType, note string, refID *uuid.UUID) (decimal.Decimal, error) {
	s, ok := r.suppliers[supplierID]
	if !ok {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	s.AdvanceBalance = s.AdvanceBalance.Add(delta)
	r.ledger = append(r.ledger, model.SupplierLedgerEntry{
		TenantID:     tenantID,
		SupplierID:   supplierID,
		Type:         entryType,
		Amount:       delta,
		BalanceAfter: s.AdvanceBalance,
		Note:         note,
		ReferenceID:  refID,
	})
	return s.AdvanceBalance, nil
}

func (r *stubSupplierRepo) FindByIDTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Supplier, error) {
	return r.FindByID(context.Background(), tenantID, id)
}

func (r *stubSupplierRepo) ListLedger(_ context.Context, _ uuid.UUID, supplierID uuid.UUID, _ int) ([]model.SupplierLedgerEntry, error) {
	var out []model.SupplierLedgerEntry
	for _, e := range r.ledger {
		if e.SupplierID == supplierID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubSupplierRepo) DB() *gorm.DB { return nil }

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubProductRepo tracks catalog entries, variants, and stock levels.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	byName   map[string]*model.Product
	variants map[uuid.UUID]*model.ProductVariant
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		byName:   make(map[string]*model.Product),
		variants: make(map[uuid.UUID]*model.ProductVariant),
	}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	r.byName[p.Name] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, _ uuid.UUID, name string) (*model.Product, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) SearchByPrefix(_ context.Context, _ uuid.UUID, _ string, _ int) ([]model.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) List(_ context.Context, _ uuid.UUID, _ dto.ProductFilter) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) CreateVariant(_ context.Context, v *model.ProductVariant) error {
	return r.CreateVariantTx(nil, v)
}

func (r *stubProductRepo) FindVariantByName(_ context.Context, tenantID, productID uuid.UUID, name string) (*model.ProductVariant, error) {
	return r.FindVariantByNameTx(nil, tenantID, productID, name)
}

func (r *stubProductRepo) ListVariants(_ context.Context, _ uuid.UUID, productID uuid.UUID) ([]model.ProductVariant, error) {
	var out []model.ProductVariant
	for _, v := range r.variants {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) CreateVariantTx(_ *gorm.DB, v *model.ProductVariant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variants[v.ID] = v
	return nil
}

func (r *stubProductRepo) FindByNameTx(_ *gorm.DB, _ uuid.UUID, name string) (*model.Product, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindVariantByNameTx(_ *gorm.DB, _, productID uuid.UUID, name string) (*model.ProductVariant, error) {
	for _, v := range r.variants {
		if v.ProductID == productID && v.Name == name {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, _, productID uuid.UUID, variantID *uuid.UUID, delta int) (int, error) {
	if variantID != nil {
		v, ok := r.variants[*variantID]
		if !ok {
			return 0, gorm.ErrRecordNotFound
		}
		before := v.StockQty
		v.StockQty += delta
		if p, ok := r.products[productID]; ok {
			p.StockQty += delta
		}
		return before, nil
	}
	p, ok := r.products[productID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	before := p.StockQty
	p.StockQty += delta
	return before, nil
}

func (r *stubProductRepo) UpdateLastPurchasePriceTx(_ *gorm.DB, _, productID uuid.UUID, variantID *uuid.UUID, price decimal.Decimal) error {
	if variantID != nil {
		if v, ok := r.variants[*variantID]; ok {
			v.LastPurchasePrice = price
		}
		return nil
	}
	if p, ok := r.products[productID]; ok {
		p.LastPurchasePrice = price
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubStockRepo captures movements for assertion.
type stubStockRepo struct {
	movements []model.StockMovement
}

func (r *stubStockRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) List(_ context.Context, _ uuid.UUID, _ repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubStockRepo) byType(t string) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubStockRepo)(nil)

// stubAccountRepo keeps payment accounts and their postings.
type stubAccountRepo struct {
	accounts map[uuid.UUID]*model.PaymentAccount
	postings []model.AccountTransaction
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[uuid.UUID]*model.PaymentAccount)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *model.PaymentAccount) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.PaymentAccount, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAccountRepo) List(_ context.Context, _ uuid.UUID) ([]model.PaymentAccount, error) {
	return nil, nil
}

func (r *stubAccountRepo) Update(_ context.Context, a *model.PaymentAccount) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *stubAccountRepo) SoftDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) PostTx(_ *gorm.DB, tenantID, accountID uuid.UUID, amount decimal.Decimal, txType, description string, refID *uuid.UUID, createdBy uuid.UUID) (decimal.Decimal, error) {
	a, ok := r.accounts[accountID]
	if !ok {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	a.Balance = a.Balance.Add(amount)
	r.postings = append(r.postings, model.AccountTransaction{
		TenantID:     tenantID,
		AccountID:    accountID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: a.Balance,
		Description:  description,
		ReferenceID:  refID,
		CreatedBy:    createdBy,
	})
	return a.Balance, nil
}

func (r *stubAccountRepo) ListTransactions(_ context.Context, _, accountID uuid.UUID, _ dto.TransactionFilter) ([]model.AccountTransaction, int64, error) {
	var out []model.AccountTransaction
	for _, t := range r.postings {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubAccountRepo) DB() *gorm.DB { return nil }

var _ repository.AccountRepository = (*stubAccountRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type purchaseFixture struct {
	svc          PurchaseService
	purchaseRepo *stubPurchaseRepo
	supplierRepo *stubSupplierRepo
	productRepo  *stubProductRepo
	stockRepo    *stubStockRepo
	accountRepo  *stubAccountRepo

	tenantID uuid.UUID
	userID   uuid.UUID
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		purchaseRepo: newStubPurchaseRepo(),
		supplierRepo: newStubSupplierRepo(),
		productRepo:  newStubProductRepo(),
		stockRepo:    &stubStockRepo{},
		accountRepo:  newStubAccountRepo(),
		tenantID:     uuid.New(),
		userID:       uuid.New(),
	}
	f.svc = NewPurchaseService(
		f.purchaseRepo, f.supplierRepo, f.productRepo, f.stockRepo, f.accountRepo,
		nil, nil, settlement.DefaultOptions(),
	)
	return f
}

func (f *purchaseFixture) addSupplier(name string, advance decimal.Decimal) *model.Supplier {
	s := &model.Supplier{TenantID: f.tenantID, Name: name, AdvanceBalance: advance, Active: true}
	_ = f.supplierRepo.Create(context.Background(), s)
	return s
}

func (f *purchaseFixture) addProduct(name string, stock int) *model.Product {
	return f.productRepo.add(&model.Product{TenantID: f.tenantID, Name: name, StockQty: stock, Active: true})
}

func (f *purchaseFixture) addAccount(name string, balance decimal.Decimal) *model.PaymentAccount {
	a := &model.PaymentAccount{TenantID: f.tenantID, Name: name, Type: "cash", Balance: balance, Active: true}
	_ = f.accountRepo.Create(context.Background(), a)
	return a
}

func qty(n int64) *int64 { return &n }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strp(s string) *string { return &s }

func line(name string, q int64, p string) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{Name: name, Qty: qty(q), UnitPrice: price(p)}
}

func returnLine(name string, q int64, p string) dto.ReturnLineRequest {
	return dto.ReturnLineRequest{Name: name, Qty: qty(q), UnitPrice: price(p), Reason: "damaged"}
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreatePurchase_CashPaymentStatuses(t *testing.T) {
	cases := []struct {
		name    string
		payment string
		status  string
	}{
		{"full payment is paid", "500", "paid"},
		{"partial payment is partial", "200", "partial"},
		{"no payment is unpaid", "0", "unpaid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPurchaseFixture()
			f.addSupplier("Karachi Textiles", decimal.Zero)
			f.addProduct("Lawn Suit", 10)
			account := f.addAccount("Till", dec("1000"))

			req := dto.CreatePurchaseRequest{
				SupplierName:  "Karachi Textiles",
				InvoiceDate:   "2026-08-20",
				Items:         []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")},
				PaymentAmount: dec(tc.payment),
			}
			if tc.payment != "0" {
				id := account.ID.String()
				req.PaymentAccountID = &id
			}

			resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.PaymentStatus)
			assert.True(t, resp.NetTotal.Equal(dec("500")))
		})
	}
}

func TestCreatePurchase_AdvanceCoversNetTotal(t *testing.T) {
	f := newPurchaseFixture()
	supplier := f.addSupplier("Karachi Textiles", dec("800"))
	f.addProduct("Lawn Suit", 10)
	f.addProduct("Chiffon Dupatta", 4)

	// Net 700 = 1000 purchased - 300 returned; the 100 typed into the payment
	// box must be dropped because the advance already covers the invoice.
	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName:  "Karachi Textiles",
		InvoiceDate:   "2026-08-20",
		Items:         []dto.PurchaseLineRequest{line("Lawn Suit", 10, "100")},
		ReturnItems:   []dto.ReturnLineRequest{returnLine("Chiffon Dupatta", 2, "150")},
		UseAdvance:    true,
		PaymentAmount: dec("100"),
		ReturnMethod:  strp("REDUCE_PAYABLE"),
	})
	require.NoError(t, err)

	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.True(t, resp.AdvanceUsed.Equal(dec("700")))
	assert.True(t, resp.PaymentAmount.IsZero(), "entered cash should be cleared")

	assert.True(t, supplier.AdvanceBalance.Equal(dec("100")))
	require.Len(t, f.supplierRepo.ledger, 1)
	entry := f.supplierRepo.ledger[0]
	assert.Equal(t, "advance_used", entry.Type)
	assert.True(t, entry.Amount.Equal(dec("-700")))

	assert.Empty(t, f.accountRepo.postings, "no cash moved, no account posting")
}

func TestCreatePurchase_AutoCreatesCatalogEntries(t *testing.T) {
	f := newPurchaseFixture()

	it := line("Embroidered Kurti", 3, "250")
	it.VariantName = strp("M / Blue")

	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName: "New Supplier",
		InvoiceDate:  "2026-08-20",
		Items:        []dto.PurchaseLineRequest{it},
	})
	require.NoError(t, err)

	// The free-typed supplier name became a supplier record.
	supplier, err := f.supplierRepo.FindByName(context.Background(), f.tenantID, "New Supplier")
	require.NoError(t, err)
	assert.True(t, supplier.Active)

	product, err := f.productRepo.FindByName(context.Background(), f.tenantID, "Embroidered Kurti")
	require.NoError(t, err)
	assert.True(t, product.AutoCreated)
	assert.True(t, product.HasVariants)
	assert.Equal(t, 3, product.StockQty)

	variant, err := f.productRepo.FindVariantByName(context.Background(), f.tenantID, product.ID, "M / Blue")
	require.NoError(t, err)
	assert.True(t, variant.AutoCreated)
	assert.Equal(t, 3, variant.StockQty)
	assert.True(t, variant.LastPurchasePrice.Equal(dec("250")))

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].AutoCreated)

	moves := f.stockRepo.byType("purchase")
	require.Len(t, moves, 1)
	assert.Equal(t, 0, moves[0].StockBefore)
	assert.Equal(t, 3, moves[0].StockAfter)
}

func TestCreatePurchase_HalfTypedRowsSkipped(t *testing.T) {
	f := newPurchaseFixture()
	f.addSupplier("Karachi Textiles", decimal.Zero)
	f.addProduct("Lawn Suit", 10)

	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName: "Karachi Textiles",
		InvoiceDate:  "2026-08-20",
		Items: []dto.PurchaseLineRequest{
			line("Lawn Suit", 5, "100"),
			{Name: "Unfinished Row"},
			{Name: "", Qty: qty(2), UnitPrice: price("50")},
		},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Items, 1, "only the complete row persists")
	assert.True(t, resp.NetTotal.Equal(dec("500")), "incomplete rows aggregate as zero")
	_, err = f.productRepo.FindByName(context.Background(), f.tenantID, "Unfinished Row")
	assert.Error(t, err, "no catalog entry for a row that never persisted")
}

func TestCreatePurchase_ReturnOnlyRefund(t *testing.T) {
	f := newPurchaseFixture()
	f.addSupplier("Karachi Textiles", decimal.Zero)
	f.addProduct("Chiffon Dupatta", 8)
	account := f.addAccount("Till", dec("1000"))
	accountID := account.ID.String()

	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName:    "Karachi Textiles",
		InvoiceDate:     "2026-08-20",
		ReturnItems:     []dto.ReturnLineRequest{returnLine("Chiffon Dupatta", 2, "150")},
		ReturnMethod:    strp("REFUND"),
		RefundAccountID: &accountID,
	})
	require.NoError(t, err)

	assert.Equal(t, "unpaid", resp.PaymentStatus)
	assert.True(t, resp.NetTotal.Equal(dec("-300")))

	// Returned value comes back as cash into the refund account.
	require.Len(t, f.accountRepo.postings, 1)
	posting := f.accountRepo.postings[0]
	assert.Equal(t, "purchase_refund", posting.Type)
	assert.True(t, posting.Amount.Equal(dec("300")))
	assert.True(t, account.Balance.Equal(dec("1300")))

	moves := f.stockRepo.byType("purchase_return")
	require.Len(t, moves, 1)
	assert.Equal(t, -2, moves[0].Qty)
	assert.Equal(t, 8, moves[0].StockBefore)
	assert.Equal(t, 6, moves[0].StockAfter)
}

func TestCreatePurchase_ContractViolationsBlock(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*dto.CreatePurchaseRequest)
		wantErr string
	}{
		{
			"return exceeding purchase",
			func(r *dto.CreatePurchaseRequest) {
				r.Items = []dto.PurchaseLineRequest{line("Lawn Suit", 1, "100")}
				r.ReturnItems = []dto.ReturnLineRequest{returnLine("Lawn Suit", 2, "100")}
				r.ReturnMethod = strp("REDUCE_PAYABLE")
			},
			"return total cannot exceed purchase total",
		},
		{
			"returns without a handling method",
			func(r *dto.CreatePurchaseRequest) {
				r.Items = []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")}
				r.ReturnItems = []dto.ReturnLineRequest{returnLine("Lawn Suit", 1, "100")}
			},
			"handling method is required",
		},
		{
			"refund without an account",
			func(r *dto.CreatePurchaseRequest) {
				r.ReturnItems = []dto.ReturnLineRequest{returnLine("Lawn Suit", 1, "100")}
				r.ReturnMethod = strp("REFUND")
			},
			"requires a refund account",
		},
		{
			"payment on a return-only invoice",
			func(r *dto.CreatePurchaseRequest) {
				r.ReturnItems = []dto.ReturnLineRequest{returnLine("Lawn Suit", 1, "100")}
				r.ReturnMethod = strp("REDUCE_PAYABLE")
				r.PaymentAmount = dec("50")
			},
			"return-only invoice cannot carry a payment",
		},
		{
			"declared paid but short",
			func(r *dto.CreatePurchaseRequest) {
				r.Items = []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")}
				r.PaymentStatus = "paid"
				r.PaymentAmount = dec("200")
			},
			"marked paid but payment is short",
		},
		{
			"empty invoice",
			func(r *dto.CreatePurchaseRequest) {},
			"at least one valid item",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPurchaseFixture()
			f.addSupplier("Karachi Textiles", decimal.Zero)
			f.addProduct("Lawn Suit", 10)

			req := dto.CreatePurchaseRequest{
				SupplierName: "Karachi Textiles",
				InvoiceDate:  "2026-08-20",
			}
			tc.mutate(&req)

			_, err := f.svc.Create(context.Background(), f.tenantID, f.userID, req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCreatePurchase_DuplicateInvoiceNumber(t *testing.T) {
	f := newPurchaseFixture()
	f.addSupplier("Karachi Textiles", decimal.Zero)
	f.addProduct("Lawn Suit", 10)

	req := dto.CreatePurchaseRequest{
		InvoiceNumber: strp("SUP-041"),
		SupplierName:  "Karachi Textiles",
		InvoiceDate:   "2026-08-20",
		Items:         []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")},
	}
	_, err := f.svc.Create(context.Background(), f.tenantID, f.userID, req)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.tenantID, f.userID, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreatePurchase_PaymentNeedsAccount(t *testing.T) {
	f := newPurchaseFixture()
	f.addSupplier("Karachi Textiles", decimal.Zero)
	f.addProduct("Lawn Suit", 10)

	_, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName:  "Karachi Textiles",
		InvoiceDate:   "2026-08-20",
		Items:         []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")},
		PaymentAmount: dec("200"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment_account_id is required")
}

// ── RecordPayment ─────────────────────────────────────────────────────────────

func TestRecordPayment_SettlesInvoice(t *testing.T) {
	f := newPurchaseFixture()
	f.addSupplier("Karachi Textiles", decimal.Zero)
	f.addProduct("Lawn Suit", 10)
	account := f.addAccount("Bank", dec("5000"))

	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName: "Karachi Textiles",
		InvoiceDate:  "2026-08-20",
		Items:        []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")},
	})
	require.NoError(t, err)
	require.Equal(t, "unpaid", resp.PaymentStatus)
	invoiceID := uuid.MustParse(resp.ID)

	resp, err = f.svc.RecordPayment(context.Background(), f.tenantID, f.userID, invoiceID, dto.UpdatePurchasePaymentRequest{
		Amount: dec("200"), AccountID: account.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "partial", resp.PaymentStatus)
	assert.True(t, account.Balance.Equal(dec("4800")))

	resp, err = f.svc.RecordPayment(context.Background(), f.tenantID, f.userID, invoiceID, dto.UpdatePurchasePaymentRequest{
		Amount: dec("300"), AccountID: account.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.True(t, resp.PaymentAmount.Equal(dec("500")))

	// A third payment would exceed the net total.
	_, err = f.svc.RecordPayment(context.Background(), f.tenantID, f.userID, invoiceID, dto.UpdatePurchasePaymentRequest{
		Amount: dec("1"), AccountID: account.ID.String(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment exceeds invoice total")
}

func TestRecordPayment_RejectsCancelledInvoice(t *testing.T) {
	f := newPurchaseFixture()
	f.addSupplier("Karachi Textiles", decimal.Zero)
	f.addProduct("Lawn Suit", 10)
	account := f.addAccount("Bank", dec("5000"))

	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName: "Karachi Textiles",
		InvoiceDate:  "2026-08-20",
		Items:        []dto.PurchaseLineRequest{line("Lawn Suit", 5, "100")},
	})
	require.NoError(t, err)
	invoiceID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Cancel(context.Background(), f.tenantID, f.userID, invoiceID, "wrong supplier"))

	_, err = f.svc.RecordPayment(context.Background(), f.tenantID, f.userID, invoiceID, dto.UpdatePurchasePaymentRequest{
		Amount: dec("100"), AccountID: account.ID.String(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func TestCancelPurchase_CompensatesEverything(t *testing.T) {
	f := newPurchaseFixture()
	supplier := f.addSupplier("Karachi Textiles", dec("300"))
	product := f.addProduct("Lawn Suit", 10)
	returned := f.addProduct("Chiffon Dupatta", 6)
	account := f.addAccount("Till", dec("1000"))
	accountID := account.ID.String()

	// Net 850 = 1000 - 150; advance covers 300, cash the remaining 550.
	resp, err := f.svc.Create(context.Background(), f.tenantID, f.userID, dto.CreatePurchaseRequest{
		SupplierName:     "Karachi Textiles",
		InvoiceDate:      "2026-08-20",
		Items:            []dto.PurchaseLineRequest{line("Lawn Suit", 10, "100")},
		ReturnItems:      []dto.ReturnLineRequest{returnLine("Chiffon Dupatta", 1, "150")},
		UseAdvance:       true,
		PaymentAmount:    dec("550"),
		PaymentAccountID: &accountID,
		ReturnMethod:     strp("REDUCE_PAYABLE"),
	})
	require.NoError(t, err)
	require.Equal(t, "paid", resp.PaymentStatus)
	require.Equal(t, 20, product.StockQty)
	require.Equal(t, 5, returned.StockQty)
	require.True(t, supplier.AdvanceBalance.IsZero())
	require.True(t, account.Balance.Equal(dec("450")))

	invoiceID := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.Cancel(context.Background(), f.tenantID, f.userID, invoiceID, "duplicate entry"))

	assert.Equal(t, 10, product.StockQty, "purchased stock goes back out")
	assert.Equal(t, 6, returned.StockQty, "returned stock comes back in")
	assert.True(t, supplier.AdvanceBalance.Equal(dec("300")), "advance is re-credited")
	assert.True(t, account.Balance.Equal(dec("1000")), "payment is reversed")

	cancelMoves := f.stockRepo.byType("invoice_cancel")
	assert.Len(t, cancelMoves, 2)

	got, err := f.svc.GetByID(context.Background(), f.tenantID, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	err = f.svc.Cancel(context.Background(), f.tenantID, f.userID, invoiceID, "again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already cancelled")
}

func TestCancelPurchase_NotFound(t *testing.T) {
	f := newPurchaseFixture()
	err := f.svc.Cancel(context.Background(), f.tenantID, f.userID, uuid.New(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
