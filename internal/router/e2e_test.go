//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/config"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/infra"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/router"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // owner JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("asanorder_test"),
		tcPostgres.WithUsername("asanorder"),
		tcPostgres.WithPassword("asanorder"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTExpirationHours:  8,
		JWTRefreshHours:     24,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		WorkerPoolSize:      1,
		PDFStoragePath:      t.TempDir(),
		AdvanceClearEpsilon: 0.01,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed a tenant and its owner.
	tenant := model.Tenant{Name: "E2E Boutique"}
	require.NoError(t, db.Create(&tenant).Error)
	hash, err := bcrypt.GenerateFromPassword([]byte("asanorder2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		TenantID:     tenant.ID,
		Username:     "owner@e2e.test",
		Name:         "Owner E2E",
		PasswordHash: string(hash),
		Role:         "owner",
		Active:       true,
	}).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "owner@e2e.test", "password": "asanorder2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) createAccount(t *testing.T, name string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/accounts",
		jsonBody(t, map[string]any{"name": name, "type": "cash"}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var account struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &account)
	return account.ID
}

func (env *testEnv) accountBalance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/accounts/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var account struct {
		Balance decimal.Decimal `json:"balance"`
	}
	decodeJSON(t, resp, &account)
	return account.Balance
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full intake cycle: a purchase against an unknown supplier and product
// creates both, moves stock in, and settles the payment from the account.
func TestE2E_PurchaseIntakeCycle(t *testing.T) {
	env := setupTestEnv(t)

	accountID := env.createAccount(t, "Till")
	depositResp := do(t, env.server, "POST", "/v1/accounts/"+accountID+"/deposit",
		jsonBody(t, map[string]any{"amount": "2000", "description": "opening float"}), env.token)
	require.Equal(t, http.StatusOK, depositResp.StatusCode)
	depositResp.Body.Close()

	purchaseResp := do(t, env.server, "POST", "/v1/purchases",
		jsonBody(t, map[string]any{
			"supplier_name": "Karachi Textiles",
			"invoice_date":  "2026-08-20",
			"items": []map[string]any{
				{"name": "Lawn Suit", "qty": 5, "unit_price": "300"},
			},
			"payment_amount":     "1500",
			"payment_account_id": accountID,
		}), env.token)
	require.Equal(t, http.StatusCreated, purchaseResp.StatusCode)
	var purchase struct {
		ID            string          `json:"id"`
		InvoiceNumber string          `json:"invoice_number"`
		SupplierID    string          `json:"supplier_id"`
		NetTotal      decimal.Decimal `json:"net_total"`
		PaymentStatus string          `json:"payment_status"`
		Items         []struct {
			ProductID   string `json:"product_id"`
			AutoCreated bool   `json:"product_auto_created"`
		} `json:"items"`
	}
	decodeJSON(t, purchaseResp, &purchase)
	assert.Equal(t, "paid", purchase.PaymentStatus)
	assert.True(t, purchase.NetTotal.Equal(decimal.NewFromInt(1500)))
	require.Len(t, purchase.Items, 1)
	assert.True(t, purchase.Items[0].AutoCreated)

	// The auto-created product carries the received stock.
	prodResp := do(t, env.server, "GET", "/v1/products/"+purchase.Items[0].ProductID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var product struct {
		Name        string `json:"name"`
		StockQty    int    `json:"stock_qty"`
		AutoCreated bool   `json:"auto_created"`
	}
	decodeJSON(t, prodResp, &product)
	assert.Equal(t, "Lawn Suit", product.Name)
	assert.Equal(t, 5, product.StockQty)
	assert.True(t, product.AutoCreated)

	// Payment left the account.
	assert.True(t, env.accountBalance(t, accountID).Equal(decimal.NewFromInt(500)))

	// Supplier was auto-created with no advance.
	balResp := do(t, env.server, "GET", "/v1/suppliers/"+purchase.SupplierID+"/balance", nil, env.token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var bal struct {
		AvailableAdvance decimal.Decimal `json:"available_advance"`
	}
	decodeJSON(t, balResp, &bal)
	assert.True(t, bal.AvailableAdvance.IsZero())

	listResp := do(t, env.server, "GET", "/v1/purchases", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)
}

// Cancelling a purchase restores stock and reverses the payment.
func TestE2E_CancelPurchaseCompensates(t *testing.T) {
	env := setupTestEnv(t)

	accountID := env.createAccount(t, "Bank")
	depositResp := do(t, env.server, "POST", "/v1/accounts/"+accountID+"/deposit",
		jsonBody(t, map[string]any{"amount": "1000"}), env.token)
	require.Equal(t, http.StatusOK, depositResp.StatusCode)
	depositResp.Body.Close()

	purchaseResp := do(t, env.server, "POST", "/v1/purchases",
		jsonBody(t, map[string]any{
			"supplier_name": "Faisalabad Fabrics",
			"invoice_date":  "2026-08-21",
			"items": []map[string]any{
				{"name": "Cotton Kurta", "qty": 4, "unit_price": "200"},
			},
			"payment_amount":     "800",
			"payment_account_id": accountID,
		}), env.token)
	require.Equal(t, http.StatusCreated, purchaseResp.StatusCode)
	var purchase struct {
		ID    string `json:"id"`
		Items []struct {
			ProductID string `json:"product_id"`
		} `json:"items"`
	}
	decodeJSON(t, purchaseResp, &purchase)
	require.True(t, env.accountBalance(t, accountID).Equal(decimal.NewFromInt(200)))

	cancelResp := do(t, env.server, "DELETE", "/v1/purchases/"+purchase.ID,
		jsonBody(t, map[string]any{"reason": "entered twice"}), env.token)
	require.Equal(t, http.StatusNoContent, cancelResp.StatusCode)
	cancelResp.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/products/"+purchase.Items[0].ProductID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var product struct {
		StockQty int `json:"stock_qty"`
	}
	decodeJSON(t, prodResp, &product)
	assert.Equal(t, 0, product.StockQty)

	assert.True(t, env.accountBalance(t, accountID).Equal(decimal.NewFromInt(1000)))
}

// Order lifecycle over HTTP: stock arrives via a purchase, leaves at dispatch.
func TestE2E_OrderLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	accountID := env.createAccount(t, "Till")

	purchaseResp := do(t, env.server, "POST", "/v1/purchases",
		jsonBody(t, map[string]any{
			"supplier_name": "Karachi Textiles",
			"invoice_date":  "2026-08-22",
			"items": []map[string]any{
				{"name": "Silk Dupatta", "qty": 5, "unit_price": "400"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, purchaseResp.StatusCode)
	var purchase struct {
		Items []struct {
			ProductID string `json:"product_id"`
		} `json:"items"`
	}
	decodeJSON(t, purchaseResp, &purchase)
	productID := purchase.Items[0].ProductID

	custResp := do(t, env.server, "POST", "/v1/customers",
		jsonBody(t, map[string]any{"name": "Ayesha Khan", "phone": "+923001234567"}), env.token)
	require.Equal(t, http.StatusCreated, custResp.StatusCode)
	var customer struct {
		ID string `json:"id"`
	}
	decodeJSON(t, custResp, &customer)

	orderResp := do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{
			"customer_id": customer.ID,
			"items": []map[string]any{
				{"product_id": productID, "qty": 2, "unit_price": "650"},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, orderResp, &order)
	require.Equal(t, "pending", order.Status)

	// Dispatch before confirmation and payment is rejected.
	earlyDispatch := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/dispatch", nil, env.token)
	assert.Equal(t, http.StatusBadRequest, earlyDispatch.StatusCode)
	earlyDispatch.Body.Close()

	confirmResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/confirm", nil, env.token)
	require.Equal(t, http.StatusOK, confirmResp.StatusCode)
	confirmResp.Body.Close()

	verifyResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/verify-payment",
		jsonBody(t, map[string]any{"amount": "1300", "account_id": accountID}), env.token)
	require.Equal(t, http.StatusOK, verifyResp.StatusCode)
	verifyResp.Body.Close()
	assert.True(t, env.accountBalance(t, accountID).Equal(decimal.NewFromInt(1300)))

	dispatchResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/dispatch", nil, env.token)
	require.Equal(t, http.StatusOK, dispatchResp.StatusCode)
	var dispatched struct {
		Status string `json:"status"`
	}
	decodeJSON(t, dispatchResp, &dispatched)
	assert.Equal(t, "dispatched", dispatched.Status)

	prodResp := do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var product struct {
		StockQty int `json:"stock_qty"`
	}
	decodeJSON(t, prodResp, &product)
	assert.Equal(t, 3, product.StockQty)

	deliverResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/deliver", nil, env.token)
	require.Equal(t, http.StatusOK, deliverResp.StatusCode)
	var delivered struct {
		Status string `json:"status"`
	}
	decodeJSON(t, deliverResp, &delivered)
	assert.Equal(t, "delivered", delivered.Status)
}
