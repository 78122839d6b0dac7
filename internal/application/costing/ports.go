package costing

import (
	"context"

	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Para el motor de costeo garantiza que los
// descuentos de lotes y las entradas COGS de una venta se confirman o se
// descartan como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.PurchaseBatchRepository,
		cogsRepo repository.CogsRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
