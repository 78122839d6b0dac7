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

var _ repository.CogsRepository = (*CogsRepo)(nil)

const cogsColumns = `id, sale_item_id, product_id, outlet_id, qty, unit_cost, total_cost, method, computed_at`

// CogsRepo implementación del puerto CogsRepository sobre PostgreSQL (usable con pool o tx).
type CogsRepo struct {
	q Querier
}

// NewCogsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCogsRepository(q Querier) *CogsRepo {
	return &CogsRepo{q: q}
}

// Create persiste la entrada COGS y su detalle de asignaciones por lote.
// El constraint único sobre sale_item_id respalda la comprobación de
// idempotencia del motor; una colisión se reporta como ErrDuplicate.
func (r *CogsRepo) Create(entry *entity.CogsEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cogs_entries (` + cogsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.SaleItemID, entry.ProductID, entry.OutletID,
		entry.Qty, entry.UnitCost, entry.TotalCost, entry.Method, entry.ComputedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cogs entry: %w", err)
	}
	for i := range entry.Allocations {
		a := &entry.Allocations[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		a.CogsEntryID = entry.ID
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO cogs_allocations (id, cogs_entry_id, batch_id, qty, unit_cost)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.CogsEntryID, a.BatchID, a.Qty, a.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("insert cogs allocation: %w", err)
		}
	}
	return nil
}

// GetBySaleItem devuelve la entrada de una línea de venta, o nil si no existe.
func (r *CogsRepo) GetBySaleItem(saleItemID string) (*entity.CogsEntry, error) {
	query := `SELECT ` + cogsColumns + ` FROM cogs_entries WHERE sale_item_id = $1`
	return r.getOne(query, saleItemID)
}

// GetByID obtiene una entrada por ID.
func (r *CogsRepo) GetByID(id string) (*entity.CogsEntry, error) {
	query := `SELECT ` + cogsColumns + ` FROM cogs_entries WHERE id = $1`
	return r.getOne(query, id)
}

func (r *CogsRepo) getOne(query string, arg any) (*entity.CogsEntry, error) {
	e, err := scanCogsEntry(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cogs entry: %w", err)
	}
	if err := r.loadAllocations(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByOutlet lista entradas de un punto, más recientes primero. No carga el
// detalle de asignaciones (los reportes agregados no lo necesitan).
func (r *CogsRepo) ListByOutlet(outletID string, from, to *time.Time, limit, offset int) ([]*entity.CogsEntry, error) {
	query := `
		SELECT ` + cogsColumns + `
		FROM cogs_entries
		WHERE outlet_id = $1`
	args := []any{outletID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND computed_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND computed_at < $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY computed_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cogs entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.CogsEntry
	for rows.Next() {
		e, err := scanCogsEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cogs entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *CogsRepo) loadAllocations(e *entity.CogsEntry) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, cogs_entry_id, batch_id, qty, unit_cost
		 FROM cogs_allocations WHERE cogs_entry_id = $1 ORDER BY id`,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("list cogs allocations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.CogsAllocation
		if err := rows.Scan(&a.ID, &a.CogsEntryID, &a.BatchID, &a.Qty, &a.UnitCost); err != nil {
			return fmt.Errorf("scan cogs allocation: %w", err)
		}
		e.Allocations = append(e.Allocations, a)
	}
	return rows.Err()
}

func scanCogsEntry(row pgx.Row) (*entity.CogsEntry, error) {
	var e entity.CogsEntry
	err := row.Scan(
		&e.ID, &e.SaleItemID, &e.ProductID, &e.OutletID,
		&e.Qty, &e.UnitCost, &e.TotalCost, &e.Method, &e.ComputedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
