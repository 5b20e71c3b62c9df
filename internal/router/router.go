package router

import (
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/config"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/handler"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/infra"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/middleware"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/service"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/settlement"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	locker := infra.NewLocker(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockMovementRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	settleOpts := settlement.Options{ClearEpsilon: cfg.AdvanceClearEpsilonDecimal()}

	authSvc := service.NewAuthService(userRepo, cfg)
	supplierSvc := service.NewSupplierService(supplierRepo)
	productSvc := service.NewProductService(productRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	accountSvc := service.NewAccountService(accountRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, stockRepo, accountRepo, locker, dispatcher, settleOpts)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, productRepo, stockRepo, accountRepo, locker, dispatcher)
	reportSvc := service.NewReportService(purchaseRepo, orderRepo, stockRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	accountsH := handler.NewAccountsHandler(accountSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: staff, manager, owner. Declared per endpoint
		staffUp := middleware.RequireRole("staff", "manager", "owner")
		managerUp := middleware.RequireRole("manager", "owner")
		ownerOnly := middleware.RequireRole("owner")

		// Purchases
		v1.POST("/purchases", staffUp, purchasesH.Create)
		v1.GET("/purchases", staffUp, purchasesH.List)
		v1.GET("/purchases/:id", staffUp, purchasesH.GetByID)
		v1.POST("/purchases/:id/payments", managerUp, purchasesH.RecordPayment)
		v1.DELETE("/purchases/:id", managerUp, purchasesH.Cancel)

		// Suppliers. Search and balance feed the intake form
		v1.GET("/suppliers/search", staffUp, suppliersH.Search)
		v1.GET("/suppliers", staffUp, suppliersH.List)
		v1.GET("/suppliers/:id", staffUp, suppliersH.GetByID)
		v1.GET("/suppliers/:id/balance", staffUp, suppliersH.Balance)
		v1.GET("/suppliers/:id/ledger", managerUp, suppliersH.Ledger)
		suppliers := v1.Group("/suppliers", managerUp)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		// Products
		v1.GET("/products/search", staffUp, productsH.Search)
		v1.GET("/products", staffUp, productsH.List)
		v1.GET("/products/:id", staffUp, productsH.GetByID)
		v1.GET("/products/:id/variants", staffUp, productsH.ListVariants)
		products := v1.Group("/products", managerUp)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.POST("/:id/variants", productsH.AddVariant)
		}

		// Orders
		v1.POST("/orders", staffUp, ordersH.Create)
		v1.GET("/orders", staffUp, ordersH.List)
		v1.GET("/orders/:id", staffUp, ordersH.GetByID)
		v1.POST("/orders/:id/confirm", staffUp, ordersH.Confirm)
		v1.POST("/orders/:id/dispatch", staffUp, ordersH.Dispatch)
		v1.POST("/orders/:id/deliver", staffUp, ordersH.MarkDelivered)
		v1.POST("/orders/:id/verify-payment", managerUp, ordersH.VerifyPayment)
		v1.POST("/orders/:id/cancel", managerUp, ordersH.Cancel)

		// Customers
		v1.GET("/customers/search", staffUp, customersH.Search)
		v1.GET("/customers", staffUp, customersH.List)
		v1.GET("/customers/:id", staffUp, customersH.GetByID)
		v1.POST("/customers", staffUp, customersH.Create)
		customers := v1.Group("/customers", managerUp)
		{
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
		}

		// Payment accounts
		v1.GET("/accounts", staffUp, accountsH.List)
		v1.GET("/accounts/:id", staffUp, accountsH.GetByID)
		v1.GET("/accounts/:id/transactions", managerUp, accountsH.Transactions)
		accounts := v1.Group("/accounts", managerUp)
		{
			accounts.POST("", accountsH.Create)
			accounts.POST("/:id/deposit", accountsH.Deposit)
			accounts.POST("/:id/withdraw", accountsH.Withdraw)
			accounts.DELETE("/:id", accountsH.Delete)
		}

		// Reports
		reports := v1.Group("/reports", managerUp)
		{
			reports.GET("/purchases", reportsH.ExportPurchases)
			reports.GET("/orders", reportsH.ExportOrders)
			reports.GET("/stock-movements", reportsH.ExportStockMovements)
		}

		// Users
		users := v1.Group("/users", ownerOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
