package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pharma-stock-api/internal/application/auth"
	"github.com/jhoicas/pharma-stock-api/internal/application/inventory"
	"github.com/jhoicas/pharma-stock-api/internal/application/report"
	"github.com/jhoicas/pharma-stock-api/internal/application/usecase"
	"github.com/jhoicas/pharma-stock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ProductUC    *usecase.ProductUseCase
	PackagingUC  *usecase.PackagingUseCase
	BatchUC      *usecase.BatchUseCase
	CategoryUC   *usecase.CategoryUseCase
	SupplierUC   *usecase.SupplierUseCase
	GodownUC     *usecase.GodownUseCase
	MedicalRepUC *usecase.MedicalRepUseCase
	PreferenceUC *usecase.PreferenceUseCase
	Recorder     *inventory.RecordTransactionUseCase
	StockQuery   *inventory.StockQueryUseCase
	Alerts       *inventory.AlertsUseCase
	Purchases    *inventory.PurchaseUseCase
	Sales        *inventory.SaleUseCase
	Adjustments  *inventory.AdjustmentUseCase
	Reports      *report.ReportUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	write := RequireRole(Writers...)
	adminOnly := RequireRole(entity.RoleAdmin)
	// staff mismo conjunto de roles, para lecturas vedadas a usuarios mr.
	staff := RequireRole(Writers...)

	// Auth: register es público solo mientras no existan usuarios.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products, unidades de empaque y lotes por producto
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.PackagingUC, deps.BatchUC)
	products.Get("/", productHandler.List)
	products.Post("/", write, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", write, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/deactivate", write, productHandler.Deactivate)
	products.Get("/:id/packaging-units", productHandler.ListUnits)
	products.Put("/:id/packaging-units", write, productHandler.ReplaceUnits)
	products.Post("/:id/packaging-units", write, productHandler.AddUnit)
	products.Post("/:id/apply-template/:templateId", write, productHandler.ApplyTemplate)
	products.Get("/:id/batches", productHandler.ListBatches)
	products.Post("/:id/batches", write, productHandler.CreateBatch)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CategoryUC, deps.PackagingUC, deps.BatchUC)
	templates := protected.Group("/packaging-templates")
	templates.Get("/", catalogHandler.ListTemplates)
	templates.Post("/", write, catalogHandler.CreateTemplate)
	templates.Get("/:id", catalogHandler.GetTemplate)

	batches := protected.Group("/batches")
	batches.Get("/:id", catalogHandler.GetBatch)
	batches.Put("/:id", write, catalogHandler.UpdateBatch)
	batches.Post("/:id/deactivate", write, catalogHandler.DeactivateBatch)

	categories := protected.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", write, catalogHandler.CreateCategory)
	categories.Put("/:id", write, catalogHandler.UpdateCategory)
	categories.Post("/:id/deactivate", write, catalogHandler.DeactivateCategory)
	categories.Get("/:id/sub-categories", catalogHandler.ListSubCategories)
	categories.Post("/:id/sub-categories", write, catalogHandler.CreateSubCategory)
	protected.Put("/sub-categories/:id", write, catalogHandler.UpdateSubCategory)

	formulations := protected.Group("/formulations")
	formulations.Get("/", catalogHandler.ListFormulations)
	formulations.Post("/", write, catalogHandler.CreateFormulation)
	formulations.Put("/:id", write, catalogHandler.UpdateFormulation)

	// Proveedores, bodegas y representantes
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", staff, supplierHandler.List)
	suppliers.Post("/", write, supplierHandler.Create)
	suppliers.Get("/:id", staff, supplierHandler.GetByID)
	suppliers.Put("/:id", write, supplierHandler.Update)
	suppliers.Post("/:id/deactivate", write, supplierHandler.Deactivate)

	godowns := protected.Group("/godowns")
	godownHandler := NewGodownHandler(deps.GodownUC)
	godowns.Get("/", godownHandler.List)
	godowns.Post("/", adminOnly, godownHandler.Create)
	godowns.Get("/:id", godownHandler.GetByID)
	godowns.Put("/:id", adminOnly, godownHandler.Update)
	godowns.Post("/:id/deactivate", adminOnly, godownHandler.Deactivate)

	reps := protected.Group("/medical-reps")
	repHandler := NewMedicalRepHandler(deps.MedicalRepUC)
	reps.Get("/", staff, repHandler.List)
	reps.Post("/", write, repHandler.Create)
	reps.Get("/:id", repHandler.GetByID)
	reps.Put("/:id", write, repHandler.Update)
	reps.Post("/:id/deactivate", write, repHandler.Deactivate)

	// Documentos de stock
	docHandler := NewDocumentHandler(deps.Purchases, deps.Sales, deps.Adjustments, deps.Reports)
	purchases := protected.Group("/purchases", staff)
	purchases.Get("/", docHandler.ListPurchases)
	purchases.Post("/", docHandler.CreatePurchase)
	purchases.Get("/:id", docHandler.GetPurchase)
	purchases.Put("/:id", docHandler.UpdatePurchase)
	purchases.Delete("/:id", docHandler.DeletePurchase)
	purchases.Get("/:id/pdf", docHandler.PurchasePDF)

	sales := protected.Group("/sales", staff)
	sales.Get("/", docHandler.ListSales)
	sales.Post("/", docHandler.CreateSale)
	sales.Get("/:id", docHandler.GetSale)

	adjustments := protected.Group("/adjustments", staff)
	adjustments.Get("/", docHandler.ListAdjustments)
	adjustments.Post("/", docHandler.CreateAdjustment)

	// Stock: lecturas acotadas por ubicación para usuarios mr
	stock := protected.Group("/stock")
	invHandler := NewInventoryHandler(deps.Recorder, deps.StockQuery, deps.Alerts)
	stock.Post("/transactions", write, invHandler.RecordTransaction)
	stock.Get("/transactions", invHandler.ListTransactions)
	stock.Get("/balances", invHandler.ListBalances)
	stock.Get("/positions", invHandler.ListPositions)
	stock.Get("/alerts", invHandler.Alerts)
	stock.Get("/summary", staff, invHandler.Summary)
	stock.Get("/audit", staff, invHandler.Audit)
	stock.Post("/rebuild", adminOnly, invHandler.Rebuild)

	// Reportes y preferencias
	reportHandler := NewReportHandler(deps.Reports, deps.PreferenceUC)
	protected.Get("/reports/stock.xlsx", reportHandler.StockWorkbook)
	protected.Get("/preferences/:view", reportHandler.GetPreferences)
	protected.Put("/preferences/:view", reportHandler.SavePreferences)
}
