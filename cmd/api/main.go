package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/pharma-stock-api/docs"

	"github.com/jhoicas/pharma-stock-api/internal/application/auth"
	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/application/report"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
	stock "github.com/jhoicas/pharma-stock-api/internal/domain/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/domain/repository"
	"github.com/jhoicas/pharma-stock-api/internal/infrastructure/cache"
	infraexcel "github.com/jhoicas/pharma-stock-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/pharma-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pharma-stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pharma-stock-api/internal/interfaces/http"
	"github.com/jhoicas/pharma-stock-api/pkg/config"
	"github.com/jhoicas/pharma-stock-api/pkg/logger"
)

// @title                       Pharma Stock API
// @version                     1.0
// @description                 API de inventario farmacéutico: catálogo, lotes, libro de stock por bodega y representante médico.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	packagingRepo := postgres.NewPackagingRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	godownRepo := postgres.NewGodownRepository(pool)
	repRepo := postgres.NewMedicalRepRepository(pool)
	txRepo := postgres.NewStockTransactionRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	policy := stock.Policy{
		MediumFactor:      cfg.Stock.MediumFactor,
		ExpiryHorizonDays: cfg.Stock.ExpiryHorizonDays,
	}

	// Libro de stock: una sola regla de saldo para escritura y replay.
	refs := inventory.NewReferences(productRepo, batchRepo, packagingRepo, supplierRepo, godownRepo, repRepo)
	engine := inventory.NewEngine(log, nil)
	recorderUC := inventory.NewRecordTransactionUseCase(txRunner, refs, engine, log, nil)
	stockQueryUC := inventory.NewStockQueryUseCase(txRunner, engine, refs, productRepo, txRepo, balanceRepo, policy, nil, log)
	alertsUC := inventory.NewAlertsUseCase(balanceRepo, refs, policy, nil)
	purchaseUC := inventory.NewPurchaseUseCase(txRunner, refs, engine, postgres.NewPurchaseRepository(pool), log, nil)
	saleUC := inventory.NewSaleUseCase(txRunner, refs, engine, postgres.NewSaleRepository(pool), log, nil)
	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, refs, engine, postgres.NewAdjustmentRepository(pool), log, nil)

	// Catálogo
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, log)
	packagingUC := usecase.NewPackagingUseCase(txRunner, packagingRepo, productRepo)
	batchUC := usecase.NewBatchUseCase(batchRepo, productRepo, policy, nil)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)

	// Preferencias: Redis si está configurado; si no, en memoria.
	var prefStore repository.PreferenceStore
	if cfg.Redis.Addr != "" {
		rs := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rs.Close()
		prefStore = rs
		log.Info().Str("addr", cfg.Redis.Addr).Msg("preferencias en Redis")
	} else {
		prefStore = cache.NewMemoryStore()
		log.Warn().Msg("REDIS_ADDR vacío: preferencias en memoria, se pierden al reiniciar")
	}
	preferenceUC := usecase.NewPreferenceUseCase(prefStore, time.Duration(cfg.Redis.PreferencesTTL)*time.Hour)

	// Reportes: GRN en PDF (maroto) y libro de stock (excelize)
	reportUC := report.NewReportUseCase(
		stockQueryUC, purchaseUC,
		report.Catalog{
			Products:  productRepo,
			Batches:   batchRepo,
			Packaging: packagingRepo,
			Suppliers: supplierRepo,
			Godowns:   godownRepo,
			Reps:      repRepo,
		},
		infrapdf.NewMarotoPDFGenerator(cfg.App.CompanyName),
		infraexcel.NewStockWorkbookWriter(),
		log,
	)

	authUC := auth.NewAuthUseCase(userRepo, repRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pharma Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(userRepo),
		ProductUC:    productUC,
		PackagingUC:  packagingUC,
		BatchUC:      batchUC,
		CategoryUC:   categoryUC,
		SupplierUC:   usecase.NewSupplierUseCase(supplierRepo),
		GodownUC:     usecase.NewGodownUseCase(godownRepo),
		MedicalRepUC: usecase.NewMedicalRepUseCase(repRepo),
		PreferenceUC: preferenceUC,
		Recorder:     recorderUC,
		StockQuery:   stockQueryUC,
		Alerts:       alertsUC,
		Purchases:    purchaseUC,
		Sales:        saleUC,
		Adjustments:  adjustmentUC,
		Reports:      reportUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
