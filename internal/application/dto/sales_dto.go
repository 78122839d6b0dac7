package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta; montos ya calculados por el punto de venta.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Qty       float64         `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxPct    decimal.Decimal `json:"tax_pct"`
}

// CreateSaleRequest facturación de una venta.
type CreateSaleRequest struct {
	OutletID    string            `json:"outlet_id"`
	PaymentMode string            `json:"payment_mode"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	Tax         decimal.Decimal   `json:"tax"`
	Discount    decimal.Decimal   `json:"discount"`
	Total       decimal.Decimal   `json:"total"`
	Method      string            `json:"method"` // FIFO | FEFO; vacío = default
	Items       []SaleLineRequest `json:"items"`
}

// SaleResponse venta con su estado de costeo.
type SaleResponse struct {
	ID            string          `json:"id"`
	OutletID      string          `json:"outlet_id"`
	BilledAt      time.Time       `json:"billed_at"`
	Total         decimal.Decimal `json:"total"`
	PaymentMode   string          `json:"payment_mode"`
	CostingStatus string          `json:"costing_status"`
	Items         []SaleLineDTO   `json:"items"`
}

// SaleLineDTO línea persistida.
type SaleLineDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Qty       float64         `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RetryCostingRequest reintento de costeo de una venta fallida.
type RetryCostingRequest struct {
	Method string `json:"method"` // FIFO | FEFO; vacío = default
}
