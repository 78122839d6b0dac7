package dto

import "github.com/shopspring/decimal"

// OutletRequest alta de punto.
type OutletRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"` // kitchen | outlet
	Address string `json:"address"`
}

// ProductRequest alta o edición de producto terminado.
type ProductRequest struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	MRP              decimal.Decimal `json:"mrp"`
	TaxPct           decimal.Decimal `json:"tax_pct"`
	ShelfLifeHours   int             `json:"shelf_life_hours"`
	ReorderThreshold float64         `json:"reorder_threshold"`
}

// IngredientRequest alta o edición de materia prima.
type IngredientRequest struct {
	Name     string          `json:"name"`
	UOM      string          `json:"uom"` // kg, lt, pcs
	MinStock float64         `json:"min_stock"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}
