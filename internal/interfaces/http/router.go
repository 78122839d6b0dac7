package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/auth"
	"github.com/jhoicas/panaderia-api/internal/application/catalog"
	"github.com/jhoicas/panaderia-api/internal/application/inventory"
	"github.com/jhoicas/panaderia-api/internal/application/reports"
	"github.com/jhoicas/panaderia-api/internal/application/sales"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	OutletUC     *catalog.OutletUseCase
	ProductUC    *catalog.ProductUseCase
	IngredientUC *catalog.IngredientUseCase
	InventoryUC  *inventory.InventoryUseCase
	CreateSale   *sales.CreateSaleUseCase
	ReportUC     *reports.ReportUseCase
	SaleRepo     repository.SaleRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	backoffice := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Outlets (lecturas abiertas; altas solo admin)
	outlets := protected.Group("/outlets")
	outletHandler := NewOutletHandler(deps.OutletUC)
	outlets.Post("/", RequireRole(entity.RoleAdmin), outletHandler.Create)
	outlets.Get("/", outletHandler.List)
	outlets.Get("/:id", outletHandler.GetByID)

	// Products (catálogo: escritura admin/manager)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", backoffice, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", backoffice, productHandler.Update)

	// Ingredients (catálogo: escritura admin/manager)
	ingredients := protected.Group("/ingredients")
	ingredientHandler := NewIngredientHandler(deps.IngredientUC)
	ingredients.Post("/", backoffice, ingredientHandler.Create)
	ingredients.Get("/", ingredientHandler.List)
	ingredients.Get("/:id", ingredientHandler.GetByID)
	ingredients.Put("/:id", backoffice, ingredientHandler.Update)

	// Batches (recepción de mercancía)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.InventoryUC)
	batches.Post("/", backoffice, batchHandler.Receive)
	batches.Get("/", batchHandler.List)

	// Inventory (mermas, traslados, producción, libro)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/wastages", backoffice, inventoryHandler.RegisterWastage)
	invGroup.Post("/dispatches", backoffice, inventoryHandler.Dispatch)
	invGroup.Post("/productions", backoffice, inventoryHandler.RegisterProduction)
	invGroup.Get("/stock", inventoryHandler.StockOnHand)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Sales (facturación: cualquier rol autenticado; reintento de costeo solo back office)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.SaleRepo)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cogs", backoffice, saleHandler.RetryCosting)

	// Reports (solo back office)
	reportsGroup := protected.Group("/reports", backoffice)
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/cogs", reportHandler.Cogs)
	reportsGroup.Get("/cogs/export", reportHandler.CogsXLSX)
	reportsGroup.Get("/stock", reportHandler.StockOnHand)
	reportsGroup.Get("/low-stock", reportHandler.LowStock)
}
