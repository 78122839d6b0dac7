package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CogsEntry es el costo de venta calculado para exactamente una línea de venta.
// Se crea una sola vez (idempotente) y nunca se muta: una reexpresión requiere
// una nueva línea de venta, no una edición.
type CogsEntry struct {
	ID         string
	SaleItemID string // uno a uno con la línea de venta
	ProductID  string
	OutletID   string
	Qty        float64
	UnitCost   decimal.Decimal // costo unitario ponderado, 2 decimales
	TotalCost  decimal.Decimal // 2 decimales
	Method     string          // FIFO | FEFO
	ComputedAt time.Time

	// Detalle por lote consumido. El esquema original solo guardaba el costo
	// ponderado; el detalle permite auditar qué lote cubrió qué venta sin
	// re-derivarlo de los tiempos de descuento.
	Allocations []CogsAllocation
}

// CogsAllocation registra cuánto se consumió de un lote para una CogsEntry.
type CogsAllocation struct {
	ID          string
	CogsEntryID string
	BatchID     string
	Qty         float64
	UnitCost    decimal.Decimal
}
