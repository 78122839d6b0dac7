package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

var _ repository.WastageRepository = (*WastageRepo)(nil)

// WastageRepo implementación del puerto WastageRepository sobre PostgreSQL (usable con pool o tx).
type WastageRepo struct {
	q Querier
}

// NewWastageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWastageRepository(q Querier) *WastageRepo {
	return &WastageRepo{q: q}
}

// Create persiste una merma.
func (r *WastageRepo) Create(wastage *entity.Wastage) error {
	if wastage.ID == "" {
		wastage.ID = uuid.New().String()
	}
	createdBy := (*string)(nil)
	if wastage.CreatedBy != "" {
		createdBy = &wastage.CreatedBy
	}
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO wastages (id, outlet_id, product_id, batch_id, qty, reason, noted_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		wastage.ID, wastage.OutletID, wastage.ProductID, wastage.BatchID,
		wastage.Qty, wastage.Reason, wastage.NotedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("insert wastage: %w", err)
	}
	return nil
}

// ListByOutlet lista mermas de un punto, más recientes primero.
func (r *WastageRepo) ListByOutlet(outletID string, limit, offset int) ([]*entity.Wastage, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, outlet_id, product_id, batch_id, qty, reason, noted_at, created_by
		 FROM wastages WHERE outlet_id = $1
		 ORDER BY noted_at DESC LIMIT $2 OFFSET $3`,
		outletID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list wastages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Wastage
	for rows.Next() {
		var w entity.Wastage
		var createdBy *string
		if err := rows.Scan(&w.ID, &w.OutletID, &w.ProductID, &w.BatchID, &w.Qty, &w.Reason, &w.NotedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan wastage: %w", err)
		}
		if createdBy != nil {
			w.CreatedBy = *createdBy
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
