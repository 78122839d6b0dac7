package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/panaderia-api/internal/application/auth"
	"github.com/jhoicas/panaderia-api/internal/application/catalog"
	appcosting "github.com/jhoicas/panaderia-api/internal/application/costing"
	"github.com/jhoicas/panaderia-api/internal/application/inventory"
	"github.com/jhoicas/panaderia-api/internal/application/reports"
	"github.com/jhoicas/panaderia-api/internal/application/sales"
	domcosting "github.com/jhoicas/panaderia-api/internal/domain/costing"
	"github.com/jhoicas/panaderia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/panaderia-api/internal/interfaces/http"
	"github.com/jhoicas/panaderia-api/pkg/config"
	"github.com/jhoicas/panaderia-api/pkg/logger"
)

// runMigrations aplica las migraciones goose pendientes al arrancar.
func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas y escrituras simples)
	outletRepo := postgres.NewOutletRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ingredientRepo := postgres.NewIngredientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	batchRepo := postgres.NewPurchaseBatchRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Casos de uso
	computeCogsUC := appcosting.NewComputeCogsUseCase(
		postgres.NewCostingTxRunner(pool),
		domcosting.ParseMethod(cfg.Costing.Method),
	)
	inventoryUC := inventory.NewInventoryUseCase(
		postgres.NewInventoryTxRunner(pool),
		productRepo, ingredientRepo, outletRepo, movementRepo, batchRepo,
	)
	createSaleUC := sales.NewCreateSaleUseCase(
		postgres.NewSalesTxRunner(pool),
		outletRepo, productRepo, saleRepo, computeCogsUC,
	)
	reportUC := reports.NewReportUseCase(reportRepo, outletRepo)
	outletUC := catalog.NewOutletUseCase(outletRepo)
	productUC := catalog.NewProductUseCase(productRepo)
	ingredientUC := catalog.NewIngredientUseCase(ingredientRepo)
	authUC := auth.NewAuthUseCase(userRepo, outletRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		OutletUC:     outletUC,
		ProductUC:    productUC,
		IngredientUC: ingredientUC,
		InventoryUC:  inventoryUC,
		CreateSale:   createSaleUC,
		ReportUC:     reportUC,
		SaleRepo:     saleRepo,
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
