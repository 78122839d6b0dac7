package costing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
)

// Epsilon tolera el error acumulado de punto flotante al comparar cantidades:
// pedir exactamente todo lo disponible no debe fallar por representación.
const Epsilon = 1e-6

// Allocation es el consumo planificado sobre un lote.
type Allocation struct {
	Batch *entity.PurchaseBatch
	Qty   float64
}

// Allocate recorre los lotes (ya ordenados según la política) y asigna de forma
// greedy: agota cada lote antes de pasar al siguiente, O(n) sobre los candidatos.
// Si lo disponible no cubre qtyNeeded (más allá de Epsilon) retorna
// domain.ErrInsufficientInventory sin asignar nada.
func Allocate(batches []*entity.PurchaseBatch, qtyNeeded float64) ([]Allocation, error) {
	remaining := qtyNeeded
	var allocations []Allocation
	for _, batch := range batches {
		if remaining <= 0 {
			break
		}
		available := math.Max(batch.QtyRemaining, 0)
		if available <= 0 {
			continue
		}
		use := math.Min(available, remaining)
		if use <= 0 {
			continue
		}
		allocations = append(allocations, Allocation{Batch: batch, Qty: use})
		remaining -= use
	}
	if remaining > Epsilon {
		return nil, domain.ErrInsufficientInventory
	}
	return allocations, nil
}

// Totals acumula en decimal la cantidad y el costo consumidos por el plan.
func Totals(allocations []Allocation) (qty, cost decimal.Decimal) {
	for _, a := range allocations {
		q := decimal.NewFromFloat(a.Qty)
		qty = qty.Add(q)
		cost = cost.Add(q.Mul(a.Batch.UnitCost))
	}
	return qty, cost
}

// BlendedUnitCost es el costo unitario ponderado; cero si no se consumió nada
// (una línea degenerada no debe dividir por cero).
func BlendedUnitCost(totalCost, totalQty decimal.Decimal) decimal.Decimal {
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(totalQty)
}

// RoundMoney redondea a 2 decimales half-up. Los costos nunca son negativos,
// así que Round (half away from zero) equivale a half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
