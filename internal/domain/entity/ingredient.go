package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient es una materia prima (harina, azúcar, etc.) usada en producción.
type Ingredient struct {
	ID        string
	Name      string
	UOM       string // unidad de medida: kg, lt, pcs
	MinStock  float64
	UnitCost  decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
