package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/panaderia-api/internal/domain"
	domcosting "github.com/jhoicas/panaderia-api/internal/domain/costing"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// ComputeCogsUseCase asigna el stock consumido por una venta contra los lotes
// recibidos (FIFO o FEFO), descuenta los lotes y registra una entrada COGS
// inmutable por línea. Toda la venta se costea en una sola transacción: si una
// línea no alcanza, ninguna línea queda costeada ni ningún lote descontado.
type ComputeCogsUseCase struct {
	txRunner      TxRunner
	defaultMethod domcosting.Method
}

// NewComputeCogsUseCase construye el caso de uso. defaultMethod se usa cuando el
// caller no especifica método (configurable vía COSTING_METHOD).
func NewComputeCogsUseCase(txRunner TxRunner, defaultMethod domcosting.Method) *ComputeCogsUseCase {
	if defaultMethod == "" {
		defaultMethod = domcosting.FIFO
	}
	return &ComputeCogsUseCase{txRunner: txRunner, defaultMethod: defaultMethod}
}

// ComputeCogs calcula el COGS de la venta. Es seguro invocarlo más de una vez:
// una línea que ya tiene entrada COGS se salta por completo (ni nueva entrada ni
// nuevo descuento de lotes). method vacío usa el método por defecto.
//
// Retorna domain.ErrInsufficientInventory si algún lote no alcanza; en ese caso
// la transacción completa se revierte y el caller debe resolver (recibir
// mercancía o ajustar la venta) antes de reintentar.
func (uc *ComputeCogsUseCase) ComputeCogs(ctx context.Context, saleID, method string) error {
	if saleID == "" {
		return domain.ErrInvalidInput
	}
	m := uc.defaultMethod
	if method != "" {
		m = domcosting.ParseMethod(method)
	}

	return uc.txRunner.Run(ctx, func(
		batchRepo repository.PurchaseBatchRepository,
		cogsRepo repository.CogsRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if len(sale.Items) == 0 {
			return nil
		}

		now := time.Now()
		for i := range sale.Items {
			item := &sale.Items[i]
			if err := uc.costLine(batchRepo, cogsRepo, sale, item, m, now); err != nil {
				return err
			}
		}
		return saleRepo.UpdateCostingStatus(sale.ID, entity.CostingDone)
	})
}

// costLine costea una línea dentro de la transacción del caller.
func (uc *ComputeCogsUseCase) costLine(
	batchRepo repository.PurchaseBatchRepository,
	cogsRepo repository.CogsRepository,
	sale *entity.Sale,
	item *entity.SaleItem,
	method domcosting.Method,
	now time.Time,
) error {
	// Guarda de idempotencia: si la línea ya fue costeada se salta entera,
	// incluido el descuento de lotes. No basta con la constraint única de
	// cogs_entries porque el efecto colateral sobre los lotes también debe omitirse.
	existing, err := cogsRepo.GetBySaleItem(item.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	// Lotes candidatos bloqueados (FOR UPDATE, orden de bloqueo por id);
	// la política ordena en memoria.
	batches, err := batchRepo.ListForAllocation(item.ProductID, sale.OutletID)
	if err != nil {
		return err
	}
	method.Sort(batches)

	allocations, err := domcosting.Allocate(batches, item.Qty)
	if err != nil {
		return fmt.Errorf("producto %s en %s: %w", item.ProductID, sale.OutletID, err)
	}

	entry := &entity.CogsEntry{
		SaleItemID: item.ID,
		ProductID:  item.ProductID,
		OutletID:   sale.OutletID,
		Qty:        item.Qty,
		Method:     string(method),
		ComputedAt: now,
	}
	for _, a := range allocations {
		if err := batchRepo.Decrement(a.Batch.ID, a.Qty); err != nil {
			return err
		}
		entry.Allocations = append(entry.Allocations, entity.CogsAllocation{
			BatchID:  a.Batch.ID,
			Qty:      a.Qty,
			UnitCost: a.Batch.UnitCost,
		})
	}

	totalQty, totalCost := domcosting.Totals(allocations)
	entry.UnitCost = domcosting.RoundMoney(domcosting.BlendedUnitCost(totalCost, totalQty))
	entry.TotalCost = domcosting.RoundMoney(totalCost)

	return cogsRepo.Create(entry)
}
