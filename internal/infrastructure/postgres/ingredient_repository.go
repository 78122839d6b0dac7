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

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

const ingredientColumns = `id, name, uom, min_stock, unit_cost, active, created_at, updated_at`

// IngredientRepo implementación del puerto IngredientRepository sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

// Create persiste una materia prima nueva.
func (r *IngredientRepo) Create(ingredient *entity.Ingredient) error {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ingredients (` + ingredientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		ingredient.ID, ingredient.Name, ingredient.UOM, ingredient.MinStock,
		ingredient.UnitCost, ingredient.Active, ingredient.CreatedAt, ingredient.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID obtiene una materia prima por ID.
func (r *IngredientRepo) GetByID(id string) (*entity.Ingredient, error) {
	var i entity.Ingredient
	err := r.q.QueryRow(context.Background(),
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id,
	).Scan(&i.ID, &i.Name, &i.UOM, &i.MinStock, &i.UnitCost, &i.Active, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &i, nil
}

// List lista materias primas, opcionalmente solo activas.
func (r *IngredientRepo) List(activeOnly bool) ([]*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		var i entity.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.UOM, &i.MinStock, &i.UnitCost, &i.Active, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// Update actualiza una materia prima.
func (r *IngredientRepo) Update(ingredient *entity.Ingredient) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE ingredients
		 SET name = $2, uom = $3, min_stock = $4, unit_cost = $5, active = $6, updated_at = $7
		 WHERE id = $1`,
		ingredient.ID, ingredient.Name, ingredient.UOM, ingredient.MinStock,
		ingredient.UnitCost, ingredient.Active, ingredient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
