package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/panaderia-api/internal/application/costing"
	"github.com/jhoicas/panaderia-api/internal/application/inventory"
	"github.com/jhoicas/panaderia-api/internal/application/sales"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

var _ costing.TxRunner = (*CostingTxRunner)(nil)
var _ inventory.TxRunner = (*InventoryTxRunner)(nil)
var _ sales.TxRunner = (*SalesTxRunner)(nil)

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CostingTxRunner ejecuta el costeo de una venta dentro de una transacción:
// los bloqueos FOR UPDATE de los lotes viven hasta el Commit/Rollback.
type CostingTxRunner struct {
	pool *pgxpool.Pool
}

// NewCostingTxRunner construye el runner con el pool.
func NewCostingTxRunner(pool *pgxpool.Pool) *CostingTxRunner {
	return &CostingTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *CostingTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.PurchaseBatchRepository,
	cogsRepo repository.CogsRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewPurchaseBatchRepository(tx), NewCogsRepository(tx), NewSaleRepository(tx))
	})
}

// InventoryTxRunner ejecuta recepciones, mermas, traslados y producción de
// forma atómica (lote + asientos del libro).
type InventoryTxRunner struct {
	pool *pgxpool.Pool
}

// NewInventoryTxRunner construye el runner con el pool.
func NewInventoryTxRunner(pool *pgxpool.Pool) *InventoryTxRunner {
	return &InventoryTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *InventoryTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.PurchaseBatchRepository,
	movementRepo repository.StockMovementRepository,
	wastageRepo repository.WastageRepository,
) error) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewPurchaseBatchRepository(tx), NewStockMovementRepository(tx), NewWastageRepository(tx))
	})
}

// SalesTxRunner persiste la venta (cabecera, líneas y asientos) como unidad.
type SalesTxRunner struct {
	pool *pgxpool.Pool
}

// NewSalesTxRunner construye el runner con el pool.
func NewSalesTxRunner(pool *pgxpool.Pool) *SalesTxRunner {
	return &SalesTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *SalesTxRunner) Run(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewStockMovementRepository(tx))
	})
}
