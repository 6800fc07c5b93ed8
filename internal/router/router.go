package router

import (
	"time"

	"github.com/yashas-13/inv-123/internal/config"
	"github.com/yashas-13/inv-123/internal/handler"
	"github.com/yashas-13/inv-123/internal/middleware"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"
	"github.com/yashas-13/inv-123/internal/service"
	"github.com/yashas-13/inv-123/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Notifier service.LedgerNotifier
	Cache    service.Cache
	SMTP     handler.BreakerReporter
	// DeadLetters backs the health figure and the admin inspection route.
	DeadLetters *worker.DeadLetters
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(d.DB)
	locationRepo := repository.NewLocationRepository(d.DB)
	agentRepo := repository.NewAgentRepository(d.DB)
	partnerRepo := repository.NewRetailPartnerRepository(d.DB)
	batchRepo := repository.NewBatchRepository(d.DB)
	movementRepo := repository.NewMovementRepository(d.DB)
	saleRepo := repository.NewSaleRepository(d.DB)
	stockRepo := repository.NewStockRepository(d.DB)
	userRepo := repository.NewUserRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	ledger := service.NewLedgerService(stockRepo, partnerRepo, service.LogObserver{})
	authSvc := service.NewAuthService(userRepo, partnerRepo, locationRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo, locationRepo, agentRepo, partnerRepo, d.Notifier)
	batchSvc := service.NewBatchService(batchRepo, productRepo, ledger, d.Notifier, cfg.MainWarehouseID)
	movementSvc := service.NewMovementService(movementRepo, productRepo, batchRepo, locationRepo, ledger, d.Notifier)
	saleSvc := service.NewSaleService(saleRepo, productRepo, batchRepo, ledger, d.Notifier)
	dashboardSvc := service.NewDashboardService(service.DashboardDeps{
		Products:  productRepo,
		Partners:  partnerRepo,
		Batches:   batchRepo,
		Movements: movementRepo,
		Sales:     saleRepo,
		Stock:     stockRepo,
		Cache:     d.Cache,
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc, cfg.ProductsCSVPath)
	inventoryH := handler.NewInventoryHandler(batchSvc, movementSvc, saleSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc, cfg.MainWarehouseID)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	var dlq handler.DeadLetterCounter
	if d.DeadLetters != nil {
		dlq = d.DeadLetters
	}
	r.GET("/health", handler.Health(d.DB, d.Redis, d.SMTP, dlq))

	authMW := middleware.Authenticate(cfg.JWTSecret, cfg.APIKey)
	manufacturer := middleware.RequireRole(model.RoleAdmin, model.RoleArivu)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleArivu, model.RoleStore)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/register", authMW, middleware.RequireRole(model.RoleAdmin), authH.Register)
	}

	v1 := r.Group("/v1", authMW)
	{
		// Catalog: everyone reads, the manufacturer writes
		v1.GET("/products", anyRole, catalogH.ListProducts)
		v1.POST("/products", manufacturer, catalogH.CreateProduct)
		v1.POST("/products/sync", manufacturer, catalogH.SyncProducts)

		v1.GET("/locations", anyRole, catalogH.ListLocations)
		v1.POST("/locations", manufacturer, catalogH.CreateLocation)
		v1.GET("/agents", anyRole, catalogH.ListAgents)
		v1.POST("/agents", manufacturer, catalogH.CreateAgent)
		v1.GET("/retail-partners", manufacturer, catalogH.ListRetailPartners)
		v1.POST("/retail-partners", manufacturer, catalogH.CreateRetailPartner)
		v1.POST("/store-partner-accounts", middleware.RequireRole(model.RoleAdmin), authH.CreateStorePartnerAccount)

		// Ledger events
		v1.GET("/batches", manufacturer, inventoryH.ListBatches)
		v1.POST("/batches", manufacturer, inventoryH.CreateBatch)
		v1.GET("/stock-movements", manufacturer, inventoryH.ListMovements)
		v1.POST("/stock-movements", manufacturer, inventoryH.CreateMovement)
		v1.GET("/retail-sales", manufacturer, inventoryH.ListSales)
		// Store users may record sales, but only for their own store
		v1.POST("/retail-sales", anyRole, inventoryH.CreateSale)

		// Read side
		v1.GET("/expiring-stock", manufacturer, dashboardH.ExpiringStock)
		dash := v1.Group("/dashboard")
		{
			dash.GET("/arivu", manufacturer, dashboardH.Arivu)
			dash.GET("/recent-sales", manufacturer, dashboardH.RecentSales)

			store := dash.Group("/store/:store_id", middleware.RequireStoreAccess("store_id"))
			{
				store.GET("", dashboardH.Store)
				store.GET("/stock", dashboardH.StoreStock)
				store.GET("/deliveries", dashboardH.StoreDeliveries)
			}
		}

		if d.DeadLetters != nil {
			v1.GET("/admin/dead-letters", middleware.RequireRole(model.RoleAdmin), handler.DeadLetterList(d.DeadLetters))
		}

		wh := v1.Group("/warehouse-stock", manufacturer)
		{
			wh.GET("", dashboardH.WarehouseStock)
			wh.GET("/summary", dashboardH.WarehouseSummary)
			wh.GET("/report.pdf", dashboardH.WarehouseReport)
		}
	}

	// Swagger UI; only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
