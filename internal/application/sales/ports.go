package sales

import (
	"context"

	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// TxRunner ejecuta la creación de la venta (cabecera, líneas y asientos del
// libro) dentro de una sola transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// CogsComputer es el puerto hacia el motor de costeo. Se invoca después de que
// la venta y sus líneas quedaron durables; es idempotente, así que reintentar
// una venta parcialmente costeada es seguro.
type CogsComputer interface {
	ComputeCogs(ctx context.Context, saleID, method string) error
}
