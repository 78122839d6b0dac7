package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveBatchRequest recepción de mercancía (GRN): crea un lote.
type ReceiveBatchRequest struct {
	ProductID  string          `json:"product_id"`
	OutletID   string          `json:"outlet_id"`
	BatchNo    string          `json:"batch_no"`
	ReceivedAt string          `json:"received_at"` // YYYY-MM-DD; vacío = hoy
	Qty        float64         `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Expiry     string          `json:"expiry"` // YYYY-MM-DD; vacío = sin vencimiento
}

// BatchResponse lote con su remanente actual.
type BatchResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	OutletID     string          `json:"outlet_id"`
	BatchNo      string          `json:"batch_no"`
	ReceivedAt   time.Time       `json:"received_at"`
	QtyIn        float64         `json:"qty_in"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	QtyRemaining float64         `json:"qty_remaining"`
	Expiry       *time.Time      `json:"expiry,omitempty"`
}

// WastageRequest merma contra un lote.
type WastageRequest struct {
	OutletID string  `json:"outlet_id"`
	BatchID  string  `json:"batch_id"`
	Qty      float64 `json:"qty"`
	Reason   string  `json:"reason"`
}

// DispatchRequest traslado entre puntos.
type DispatchRequest struct {
	ItemType     string  `json:"item_type"` // ingredient | product
	ItemID       string  `json:"item_id"`
	FromOutletID string  `json:"from_outlet_id"`
	ToOutletID   string  `json:"to_outlet_id"`
	Qty          float64 `json:"qty"`
}

// ProductionRequest producción en cocina.
type ProductionRequest struct {
	OutletID  string                  `json:"outlet_id"`
	ProductID string                  `json:"product_id"`
	Qty       float64                 `json:"qty"`
	Consumed  []ConsumedIngredientDTO `json:"consumed"`
}

// ConsumedIngredientDTO materia prima consumida.
type ConsumedIngredientDTO struct {
	IngredientID string  `json:"ingredient_id"`
	Qty          float64 `json:"qty"`
}

// StockOnHandResponse stock derivado del libro.
type StockOnHandResponse struct {
	ItemType string  `json:"item_type"`
	ItemID   string  `json:"item_id"`
	OutletID string  `json:"outlet_id"`
	Qty      float64 `json:"qty"`
}
