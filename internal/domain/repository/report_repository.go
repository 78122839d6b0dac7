package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// CogsReportRow resultado crudo de la consulta de COGS por período.
// Lo produce la DB; el use case lo convierte en DTO o en XLSX.
type CogsReportRow struct {
	SaleItemID  string
	SaleID      string
	OutletID    string
	OutletName  string
	ProductID   string
	SKU         string
	ProductName string
	Qty         float64
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	Method      string
	ComputedAt  time.Time
}

// StockOnHandRow stock derivado del libro para un ítem en un punto.
type StockOnHandRow struct {
	ItemType string
	ItemID   string
	ItemName string
	OutletID string
	Qty      float64
}

// LowStockRow ítem por debajo de su umbral de reposición.
type LowStockRow struct {
	ItemType  string
	ItemID    string
	ItemName  string
	OutletID  string
	Qty       float64
	Threshold float64
}

// ReportRepository define las consultas de lectura para reportes.
// Las implementaciones son read-only y no requieren bloqueo.
type ReportRepository interface {
	CogsByRange(outletID string, from, to time.Time) ([]*CogsReportRow, error)
	StockOnHandByOutlet(outletID string) ([]*StockOnHandRow, error)
	LowStock(outletID string) ([]*LowStockRow, error)
}
