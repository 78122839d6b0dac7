package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un producto terminado vendible (pan, torta, etc.).
// MRP y TaxPct llegan ya calculados desde el front (la API no calcula precios).
type Product struct {
	ID               string
	SKU              string
	Name             string
	MRP              decimal.Decimal
	TaxPct           decimal.Decimal
	ShelfLifeHours   int
	ReorderThreshold float64 // unidades mínimas antes de alertar reposición
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
