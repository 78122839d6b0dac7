package inventory

import (
	"context"

	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de inventario atados a esa tx (recepciones, mermas y asientos
// del libro se confirman o descartan como unidad).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.PurchaseBatchRepository,
		movementRepo repository.StockMovementRepository,
		wastageRepo repository.WastageRepository,
	) error) error
}
