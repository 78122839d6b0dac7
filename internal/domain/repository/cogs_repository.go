package repository

import (
	"time"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
)

// CogsRepository define el puerto de persistencia para entradas COGS.
// Las entradas son inmutables una vez creadas.
type CogsRepository interface {
	// Create persiste la entrada y su detalle de asignaciones por lote.
	Create(entry *entity.CogsEntry) error
	// GetBySaleItem devuelve la entrada de una línea de venta, o nil si no existe
	// (la comprobación de idempotencia del motor).
	GetBySaleItem(saleItemID string) (*entity.CogsEntry, error)
	GetByID(id string) (*entity.CogsEntry, error)
	ListByOutlet(outletID string, from, to *time.Time, limit, offset int) ([]*entity.CogsEntry, error)
}
