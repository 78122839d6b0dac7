package repository

import "github.com/jhoicas/panaderia-api/internal/domain/entity"

// PurchaseBatchRepository define el puerto del libro de lotes.
// Los lotes nunca se borran; solo el motor de costeo (y merma) descuenta QtyRemaining.
type PurchaseBatchRepository interface {
	Create(batch *entity.PurchaseBatch) error
	GetByID(id string) (*entity.PurchaseBatch, error)
	ListByProductOutlet(productID, outletID string) ([]*entity.PurchaseBatch, error)
	// ListForAllocation devuelve los lotes con qty_remaining > 0 del par
	// (producto, punto), bloqueados con SELECT ... FOR UPDATE y ordenados por id.
	// El orden de bloqueo estable evita deadlocks entre costeos concurrentes;
	// el orden FIFO/FEFO lo aplica el dominio en memoria.
	ListForAllocation(productID, outletID string) ([]*entity.PurchaseBatch, error)
	// GetForUpdate bloquea un lote individual (usado por merma).
	GetForUpdate(id string) (*entity.PurchaseBatch, error)
	// Decrement descuenta qty de qty_remaining y persiste; si la deriva de punto
	// flotante dejara un valor negativo, lo fija en cero.
	Decrement(batchID string, qty float64) error
}
