package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, item_type, item_id, outlet_id, batch_id, qty_in, qty_out, reason, ref_table, ref_id, created_at`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: el libro es append-only.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create asienta un movimiento.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemType, movement.ItemID, movement.OutletID, movement.BatchID,
		movement.QtyIn, movement.QtyOut, movement.Reason, movement.RefTable, movement.RefID,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// StockOnHand deriva el stock actual de un (ítem, punto): SUM(qty_in) - SUM(qty_out).
func (r *StockMovementRepo) StockOnHand(itemType, itemID, outletID string) (float64, error) {
	var qty float64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(qty_in) - SUM(qty_out), 0)
		 FROM stock_movements
		 WHERE item_type = $1 AND item_id = $2 AND outlet_id = $3`,
		itemType, itemID, outletID,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("stock on hand: %w", err)
	}
	return qty, nil
}

// ListByItem lista los movimientos de un ítem en un punto, más recientes primero.
func (r *StockMovementRepo) ListByItem(itemType, itemID, outletID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE item_type = $1 AND item_id = $2 AND outlet_id = $3`
	args := []any{itemType, itemID, outletID}
	query, args = appendRangeAndPage(query, args, from, to, limit, offset)
	return r.list(query, args...)
}

// ListByOutlet lista los movimientos de un punto, más recientes primero.
func (r *StockMovementRepo) ListByOutlet(outletID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE outlet_id = $1`
	args := []any{outletID}
	query, args = appendRangeAndPage(query, args, from, to, limit, offset)
	return r.list(query, args...)
}

// appendRangeAndPage agrega filtros de rango de fechas y paginación al query.
func appendRangeAndPage(query string, args []any, from, to *time.Time, limit, offset int) (string, []any) {
	pos := len(args) + 1
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at < $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return query, args
}

func (r *StockMovementRepo) list(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var batchID *string
	err := row.Scan(
		&m.ID, &m.ItemType, &m.ItemID, &m.OutletID, &batchID,
		&m.QtyIn, &m.QtyOut, &m.Reason, &m.RefTable, &m.RefID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.BatchID = batchID
	return &m, nil
}
