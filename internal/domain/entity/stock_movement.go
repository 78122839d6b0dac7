package entity

import "time"

// Tipos de ítem del libro de movimientos.
const (
	ItemTypeIngredient = "ingredient"
	ItemTypeProduct    = "product"
)

// Razones de movimiento.
const (
	ReasonReceipt     = "grn"          // recepción de mercancía (crea lote)
	ReasonProduction  = "production"   // producción en cocina
	ReasonSale        = "sale"         // venta en punto
	ReasonWastage     = "wastage"      // merma / desperdicio
	ReasonDispatchIn  = "dispatch_in"  // traslado: entrada en destino
	ReasonDispatchOut = "dispatch_out" // traslado: salida en origen
)

// StockMovement es un asiento inmutable del libro de inventario. Nunca se actualiza
// ni se borra; las correcciones se registran como asientos compensatorios.
// El stock actual de un (ítem, punto) siempre se deriva: SUM(qty_in) - SUM(qty_out).
type StockMovement struct {
	ID        string
	ItemType  string // ingredient | product
	ItemID    string
	OutletID  string
	BatchID   *string // lote asociado si aplica
	QtyIn     float64
	QtyOut    float64
	Reason    string
	RefTable  string // tabla del registro que originó el asiento
	RefID     string
	CreatedAt time.Time
}
