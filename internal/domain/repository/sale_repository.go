package repository

import (
	"time"

	"github.com/jhoicas/panaderia-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// El motor de costeo solo lee ventas y actualiza CostingStatus; nunca toca líneas.
type SaleRepository interface {
	// Create persiste la cabecera y todas las líneas.
	Create(sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.Sale, error)
	UpdateCostingStatus(id, status string) error
	ListByOutlet(outletID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
