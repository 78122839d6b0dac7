package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

var _ repository.OutletRepository = (*OutletRepo)(nil)

// OutletRepo implementación del puerto OutletRepository sobre PostgreSQL (usable con pool o tx).
type OutletRepo struct {
	q Querier
}

// NewOutletRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutletRepository(q Querier) *OutletRepo {
	return &OutletRepo{q: q}
}

// Create persiste un punto nuevo.
func (r *OutletRepo) Create(outlet *entity.Outlet) error {
	if outlet.ID == "" {
		outlet.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO outlets (id, name, type, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		outlet.ID, outlet.Name, outlet.Type, outlet.Address, outlet.CreatedAt, outlet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert outlet: %w", err)
	}
	return nil
}

// GetByID obtiene un punto por ID.
func (r *OutletRepo) GetByID(id string) (*entity.Outlet, error) {
	var o entity.Outlet
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, type, address, created_at, updated_at FROM outlets WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Name, &o.Type, &o.Address, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	return &o, nil
}

// List lista todos los puntos.
func (r *OutletRepo) List() ([]*entity.Outlet, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, type, address, created_at, updated_at FROM outlets ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Outlet
	for rows.Next() {
		var o entity.Outlet
		if err := rows.Scan(&o.ID, &o.Name, &o.Type, &o.Address, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan outlet: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
