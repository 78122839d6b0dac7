package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de lectura para reportes sobre PostgreSQL. Siempre
// atado al pool; los reportes no abren transacciones ni toman bloqueos.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes. Pasar el pool.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// CogsByRange devuelve las entradas COGS del período con producto y punto
// resueltos. outletID vacío cubre todos los puntos; to es exclusivo.
func (r *ReportRepo) CogsByRange(outletID string, from, to time.Time) ([]*repository.CogsReportRow, error) {
	query := `
		SELECT ce.sale_item_id, si.sale_id, ce.outlet_id, o.name, ce.product_id, p.sku, p.name,
		       ce.qty, ce.unit_cost, ce.total_cost, ce.method, ce.computed_at
		FROM cogs_entries ce
		JOIN sale_items si ON si.id = ce.sale_item_id
		JOIN products p ON p.id = ce.product_id
		JOIN outlets o ON o.id = ce.outlet_id
		WHERE ce.computed_at >= $1 AND ce.computed_at < $2`
	args := []any{from, to}
	if outletID != "" {
		query += ` AND ce.outlet_id = $3`
		args = append(args, outletID)
	}
	query += ` ORDER BY ce.computed_at, ce.id`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("cogs by range: %w", err)
	}
	defer rows.Close()
	var list []*repository.CogsReportRow
	for rows.Next() {
		var row repository.CogsReportRow
		if err := rows.Scan(
			&row.SaleItemID, &row.SaleID, &row.OutletID, &row.OutletName, &row.ProductID,
			&row.SKU, &row.ProductName, &row.Qty, &row.UnitCost, &row.TotalCost,
			&row.Method, &row.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cogs row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// StockOnHandByOutlet deriva el stock de todos los ítems de un punto desde el
// libro de movimientos. Ítems con saldo cero también aparecen si tuvieron
// movimientos.
func (r *ReportRepo) StockOnHandByOutlet(outletID string) ([]*repository.StockOnHandRow, error) {
	query := `
		SELECT sm.item_type, sm.item_id,
		       COALESCE(p.name, i.name, sm.item_id),
		       sm.outlet_id,
		       SUM(sm.qty_in) - SUM(sm.qty_out)
		FROM stock_movements sm
		LEFT JOIN products p ON sm.item_type = '` + entity.ItemTypeProduct + `' AND p.id = sm.item_id
		LEFT JOIN ingredients i ON sm.item_type = '` + entity.ItemTypeIngredient + `' AND i.id = sm.item_id
		WHERE sm.outlet_id = $1
		GROUP BY sm.item_type, sm.item_id, p.name, i.name, sm.outlet_id
		ORDER BY sm.item_type, 3`

	rows, err := r.q.Query(context.Background(), query, outletID)
	if err != nil {
		return nil, fmt.Errorf("stock on hand by outlet: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockOnHandRow
	for rows.Next() {
		var row repository.StockOnHandRow
		if err := rows.Scan(&row.ItemType, &row.ItemID, &row.ItemName, &row.OutletID, &row.Qty); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// LowStock lista ítems cuyo stock derivado está por debajo de su umbral:
// reorder_threshold para productos, min_stock para materias primas. Solo se
// consideran umbrales positivos. outletID vacío cubre todos los puntos.
func (r *ReportRepo) LowStock(outletID string) ([]*repository.LowStockRow, error) {
	query := `
		WITH saldos AS (
			SELECT item_type, item_id, outlet_id, SUM(qty_in) - SUM(qty_out) AS qty
			FROM stock_movements
			GROUP BY item_type, item_id, outlet_id
		)
		SELECT s.item_type, s.item_id, COALESCE(p.name, i.name, s.item_id), s.outlet_id, s.qty,
		       COALESCE(p.reorder_threshold, i.min_stock, 0) AS threshold
		FROM saldos s
		LEFT JOIN products p ON s.item_type = '` + entity.ItemTypeProduct + `' AND p.id = s.item_id
		LEFT JOIN ingredients i ON s.item_type = '` + entity.ItemTypeIngredient + `' AND i.id = s.item_id
		WHERE COALESCE(p.reorder_threshold, i.min_stock, 0) > 0
		  AND s.qty < COALESCE(p.reorder_threshold, i.min_stock, 0)`
	args := []any{}
	if outletID != "" {
		query += ` AND s.outlet_id = $1`
		args = append(args, outletID)
	}
	query += ` ORDER BY s.outlet_id, s.item_type, 3`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var list []*repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemType, &row.ItemID, &row.ItemName, &row.OutletID, &row.Qty, &row.Threshold); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}
