package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CogsReportRequest parámetros para GET /api/reports/cogs.
type CogsReportRequest struct {
	OutletID  string `query:"outlet_id"`  // vacío = todos los puntos
	StartDate string `query:"start_date"` // YYYY-MM-DD; default primer día del mes
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; default hoy
}

// CogsReportRowDTO fila del reporte de costo de ventas.
type CogsReportRowDTO struct {
	SaleID      string          `json:"sale_id"`
	OutletName  string          `json:"outlet_name"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Qty         float64         `json:"qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Method      string          `json:"method"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// CogsReportResponse reporte con total del período.
type CogsReportResponse struct {
	Rows      []CogsReportRowDTO `json:"rows"`
	TotalCost decimal.Decimal    `json:"total_cost"`
}

// LowStockRowDTO ítem bajo su umbral de reposición.
type LowStockRowDTO struct {
	ItemType  string  `json:"item_type"`
	ItemID    string  `json:"item_id"`
	ItemName  string  `json:"item_name"`
	OutletID  string  `json:"outlet_id"`
	Qty       float64 `json:"qty"`
	Threshold float64 `json:"threshold"`
}
