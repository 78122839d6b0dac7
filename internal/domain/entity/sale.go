package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de costeo de una venta.
const (
	CostingPending = "pending" // venta facturada, COGS aún no calculado
	CostingDone    = "costed"  // cada línea tiene su CogsEntry
	CostingFailed  = "failed"  // inventario insuficiente; requiere resolución manual
)

// Sale es una venta facturada en un punto. Los montos llegan ya calculados
// (la API no recalcula precios ni impuestos). El motor de costeo nunca muta
// la venta ni sus líneas; solo actualiza CostingStatus.
type Sale struct {
	ID            string
	OutletID      string
	BilledAt      time.Time
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMode   string
	CostingStatus string
	Items         []SaleItem
	CreatedBy     string
}

// SaleItem es una línea de venta; Qty > 0 se valida en la creación.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Qty       float64
	UnitPrice decimal.Decimal
	TaxPct    decimal.Decimal
}
