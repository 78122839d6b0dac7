package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseBatch es un lote recibido de un producto en un punto.
// QtyIn y UnitCost quedan fijos en la recepción; QtyRemaining solo lo muta el motor
// de costeo (y wastage) bajo bloqueo de fila, y nunca sube ni baja de cero.
// Los lotes no se borran: son el registro histórico de costos.
type PurchaseBatch struct {
	ID           string
	ProductID    string
	OutletID     string
	BatchNo      string
	ReceivedAt   time.Time
	QtyIn        float64
	UnitCost     decimal.Decimal
	QtyRemaining float64
	Expiry       *time.Time // nil = sin vencimiento (ordena de último en FEFO)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
