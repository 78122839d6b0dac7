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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, outlet_id, billed_at, subtotal, tax, discount, total, payment_mode, costing_status, created_by`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y todas las líneas.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	createdBy := (*string)(nil)
	if sale.CreatedBy != "" {
		createdBy = &sale.CreatedBy
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OutletID, sale.BilledAt, sale.Subtotal, sale.Tax,
		sale.Discount, sale.Total, sale.PaymentMode, sale.CostingStatus, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range sale.Items {
		item := &sale.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.SaleID = sale.ID
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO sale_items (id, sale_id, product_id, qty, unit_price, tax_pct)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.SaleID, item.ProductID, item.Qty, item.UnitPrice, item.TaxPct,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(s); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateCostingStatus actualiza solo el estado de costeo de la venta.
func (r *SaleRepo) UpdateCostingStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET costing_status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update costing status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOutlet lista ventas de un punto, más recientes primero, con sus líneas.
func (r *SaleRepo) ListByOutlet(outletID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE outlet_id = $1`
	args := []any{outletID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND billed_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND billed_at < $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY billed_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadItems(s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *SaleRepo) loadItems(s *entity.Sale) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, product_id, qty, unit_price, tax_pct
		 FROM sale_items WHERE sale_id = $1 ORDER BY id`,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Qty, &item.UnitPrice, &item.TaxPct); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var createdBy *string
	err := row.Scan(
		&s.ID, &s.OutletID, &s.BilledAt, &s.Subtotal, &s.Tax,
		&s.Discount, &s.Total, &s.PaymentMode, &s.CostingStatus, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}
	return &s, nil
}
