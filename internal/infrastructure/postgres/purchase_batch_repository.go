package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

var _ repository.PurchaseBatchRepository = (*PurchaseBatchRepo)(nil)

const batchColumns = `id, product_id, outlet_id, batch_no, received_at, qty_in, unit_cost, qty_remaining, expiry, created_at, updated_at`

// PurchaseBatchRepo implementación del puerto PurchaseBatchRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseBatchRepo struct {
	q Querier
}

// NewPurchaseBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseBatchRepository(q Querier) *PurchaseBatchRepo {
	return &PurchaseBatchRepo{q: q}
}

// Create persiste un lote nuevo. qty_remaining arranca igual a qty_in.
func (r *PurchaseBatchRepo) Create(batch *entity.PurchaseBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.OutletID, batch.BatchNo, batch.ReceivedAt,
		batch.QtyIn, batch.UnitCost, batch.QtyRemaining, batch.Expiry,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *PurchaseBatchRepo) GetByID(id string) (*entity.PurchaseBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM purchase_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByProductOutlet lista todos los lotes de un producto en un punto (incluye agotados).
func (r *PurchaseBatchRepo) ListByProductOutlet(productID, outletID string) ([]*entity.PurchaseBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM purchase_batches
		WHERE product_id = $1 AND outlet_id = $2
		ORDER BY received_at, id`
	return r.list(query, productID, outletID)
}

// ListForAllocation bloquea y devuelve los lotes con existencia del par
// (producto, punto). El ORDER BY id fija un orden de adquisición de bloqueos
// estable entre transacciones concurrentes; el orden FIFO/FEFO lo aplica el
// dominio sobre el resultado.
func (r *PurchaseBatchRepo) ListForAllocation(productID, outletID string) ([]*entity.PurchaseBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM purchase_batches
		WHERE product_id = $1 AND outlet_id = $2 AND qty_remaining > 0
		ORDER BY id
		FOR UPDATE`
	return r.list(query, productID, outletID)
}

// GetForUpdate bloquea un lote individual (merma).
func (r *PurchaseBatchRepo) GetForUpdate(id string) (*entity.PurchaseBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM purchase_batches WHERE id = $1 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch for update: %w", err)
	}
	return b, nil
}

// Decrement descuenta qty de qty_remaining. GREATEST(..., 0) absorbe la deriva
// de punto flotante: qty_remaining nunca queda negativo.
func (r *PurchaseBatchRepo) Decrement(batchID string, qty float64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchase_batches
		 SET qty_remaining = GREATEST(qty_remaining - $2, 0), updated_at = now()
		 WHERE id = $1`,
		batchID, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseBatchRepo) list(query string, args ...any) ([]*entity.PurchaseBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.PurchaseBatch, error) {
	var b entity.PurchaseBatch
	var expiry *time.Time
	err := row.Scan(
		&b.ID, &b.ProductID, &b.OutletID, &b.BatchNo, &b.ReceivedAt,
		&b.QtyIn, &b.UnitCost, &b.QtyRemaining, &expiry, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Expiry = expiry
	return &b, nil
}
