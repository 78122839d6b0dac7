package repository

import (
	"time"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos (append-only).
// No hay Update ni Delete: las correcciones se asientan como movimientos compensatorios.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// StockOnHand deriva el stock actual: SUM(qty_in) - SUM(qty_out).
	// Lectura sin bloqueo; el motor de costeo no depende de este valor.
	StockOnHand(itemType, itemID, outletID string) (float64, error)
	ListByItem(itemType, itemID, outletID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByOutlet(outletID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
