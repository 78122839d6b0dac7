package costing_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcosting "github.com/jhoicas/panaderia-api/internal/application/costing"
	"github.com/jhoicas/panaderia-api/internal/domain"
	domcosting "github.com/jhoicas/panaderia-api/internal/domain/costing"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test: una "BD" en memoria con semántica transaccional real.
// El TxRunner falso clona el estado al iniciar, ejecuta fn sobre el clon y solo
// publica el clon si fn no falla; con error el clon se descarta (rollback).
// El mutex emula el bloqueo de filas: dos costeos concurrentes sobre el mismo
// (producto, punto) se serializan, igual que con SELECT ... FOR UPDATE.
// ──────────────────────────────────────────────────────────────────────────────

type fakeDB struct {
	mu      sync.Mutex
	batches map[string]*entity.PurchaseBatch
	entries map[string]*entity.CogsEntry // clave: SaleItemID
	sales   map[string]*entity.Sale
	seq     int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		batches: map[string]*entity.PurchaseBatch{},
		entries: map[string]*entity.CogsEntry{},
		sales:   map[string]*entity.Sale{},
	}
}

func (db *fakeDB) clone() *fakeDB {
	c := newFakeDB()
	c.seq = db.seq
	for id, b := range db.batches {
		cp := *b
		c.batches[id] = &cp
	}
	for id, e := range db.entries {
		cp := *e
		cp.Allocations = append([]entity.CogsAllocation(nil), e.Allocations...)
		c.entries[id] = &cp
	}
	for id, s := range db.sales {
		cp := *s
		cp.Items = append([]entity.SaleItem(nil), s.Items...)
		c.sales[id] = &cp
	}
	return c
}

type fakeTxRunner struct{ db *fakeDB }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	repository.PurchaseBatchRepository,
	repository.CogsRepository,
	repository.SaleRepository,
) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	tx := r.db.clone()
	if err := fn(&fakeBatchRepo{tx}, &fakeCogsRepo{tx}, &fakeSaleRepo{tx}); err != nil {
		return err
	}
	r.db.batches, r.db.entries, r.db.sales, r.db.seq = tx.batches, tx.entries, tx.sales, tx.seq
	return nil
}

type fakeBatchRepo struct{ db *fakeDB }

func (r *fakeBatchRepo) Create(b *entity.PurchaseBatch) error {
	cp := *b
	r.db.batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.PurchaseBatch, error) {
	return r.db.batches[id], nil
}

func (r *fakeBatchRepo) GetForUpdate(id string) (*entity.PurchaseBatch, error) {
	return r.db.batches[id], nil
}

func (r *fakeBatchRepo) ListByProductOutlet(productID, outletID string) ([]*entity.PurchaseBatch, error) {
	var out []*entity.PurchaseBatch
	for _, b := range r.db.batches {
		if b.ProductID == productID && b.OutletID == outletID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) ListForAllocation(productID, outletID string) ([]*entity.PurchaseBatch, error) {
	var out []*entity.PurchaseBatch
	for _, b := range r.db.batches {
		if b.ProductID == productID && b.OutletID == outletID && b.QtyRemaining > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) Decrement(batchID string, qty float64) error {
	b, ok := r.db.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.QtyRemaining -= qty
	if b.QtyRemaining < 0 {
		b.QtyRemaining = 0
	}
	return nil
}

type fakeCogsRepo struct{ db *fakeDB }

func (r *fakeCogsRepo) Create(e *entity.CogsEntry) error {
	if _, exists := r.db.entries[e.SaleItemID]; exists {
		return domain.ErrDuplicate
	}
	r.db.seq++
	e.ID = fmt.Sprintf("ce-%d", r.db.seq)
	cp := *e
	cp.Allocations = append([]entity.CogsAllocation(nil), e.Allocations...)
	r.db.entries[e.SaleItemID] = &cp
	return nil
}

func (r *fakeCogsRepo) GetBySaleItem(saleItemID string) (*entity.CogsEntry, error) {
	return r.db.entries[saleItemID], nil
}

func (r *fakeCogsRepo) GetByID(id string) (*entity.CogsEntry, error) {
	for _, e := range r.db.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeCogsRepo) ListByOutlet(string, *time.Time, *time.Time, int, int) ([]*entity.CogsEntry, error) {
	return nil, nil
}

type fakeSaleRepo struct{ db *fakeDB }

func (r *fakeSaleRepo) Create(s *entity.Sale) error {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	r.db.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.db.sales[id], nil
}

func (r *fakeSaleRepo) UpdateCostingStatus(id, status string) error {
	s, ok := r.db.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.CostingStatus = status
	return nil
}

func (r *fakeSaleRepo) ListByOutlet(string, *time.Time, *time.Time, int, int) ([]*entity.Sale, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	outletID  = "out-1"
	productA  = "prod-a"
	productB  = "prod-b"
	saleID    = "sale-1"
)

func day(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

func seedBatch(db *fakeDB, id, productID string, received int, qty float64, cost string, expiry *int) {
	b := &entity.PurchaseBatch{
		ID:           id,
		ProductID:    productID,
		OutletID:     outletID,
		BatchNo:      "BN-" + id,
		ReceivedAt:   day(received),
		QtyIn:        qty,
		QtyRemaining: qty,
		UnitCost:     decimal.RequireFromString(cost),
	}
	if expiry != nil {
		e := day(*expiry)
		b.Expiry = &e
	}
	db.batches[id] = b
}

func seedSale(db *fakeDB, id string, items ...entity.SaleItem) {
	for i := range items {
		items[i].SaleID = id
		if items[i].ID == "" {
			items[i].ID = fmt.Sprintf("%s-item-%d", id, i+1)
		}
	}
	db.sales[id] = &entity.Sale{
		ID:            id,
		OutletID:      outletID,
		BilledAt:      day(5),
		CostingStatus: entity.CostingPending,
		Items:         items,
	}
}

func newUC(db *fakeDB) *appcosting.ComputeCogsUseCase {
	return appcosting.NewComputeCogsUseCase(&fakeTxRunner{db}, domcosting.FIFO)
}

func intp(v int) *int { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeCogs_FIFO_CostoPonderado(t *testing.T) {
	db := newFakeDB()
	seedBatch(db, "b1", productA, 1, 5, "10", nil)
	seedBatch(db, "b2", productA, 2, 5, "20", nil)
	seedSale(db, saleID, entity.SaleItem{ProductID: productA, Qty: 7})

	err := newUC(db).ComputeCogs(context.Background(), saleID, "")
	require.NoError(t, err)

	entry := db.entries[saleID+"-item-1"]
	require.NotNil(t, entry, "la línea debe tener su entrada COGS")
	assert.Equal(t, "12.86", entry.UnitCost.StringFixed(2), "(5×10 + 2×20)/7 redondeado half-up")
	assert.Equal(t, "90.00", entry.TotalCost.StringFixed(2))
	assert.Equal(t, "FIFO", entry.Method, "sin método explícito se usa el default")

	assert.Equal(t, 0.0, db.batches["b1"].QtyRemaining, "el lote más antiguo se agota primero")
	assert.Equal(t, 3.0, db.batches["b2"].QtyRemaining)
	assert.Equal(t, entity.CostingDone, db.sales[saleID].CostingStatus)

	require.Len(t, entry.Allocations, 2, "el detalle por lote queda persistido")
	assert.Equal(t, "b1", entry.Allocations[0].BatchID)
	assert.Equal(t, 5.0, entry.Allocations[0].Qty)
	assert.Equal(t, "b2", entry.Allocations[1].BatchID)
	assert.Equal(t, 2.0, entry.Allocations[1].Qty)
}

func TestComputeCogs_FEFO_ConsumeProximoAVencer(t *testing.T) {
	db := newFakeDB()
	// b1 recibido antes pero vence después; FEFO debe consumir b2 primero.
	seedBatch(db, "b1", productA, 1, 3, "10", intp(20))
	seedBatch(db, "b2", productA, 2, 3, "10", intp(8))
	seedSale(db, saleID, entity.SaleItem{ProductID: productA, Qty: 4})

	err := newUC(db).ComputeCogs(context.Background(), saleID, "FEFO")
	require.NoError(t, err)

	assert.Equal(t, 0.0, db.batches["b2"].QtyRemaining)
	assert.Equal(t, 2.0, db.batches["b1"].QtyRemaining)
	assert.Equal(t, "FEFO", db.entries[saleID+"-item-1"].Method)
}

func TestComputeCogs_Idempotente(t *testing.T) {
	db := newFakeDB()
	seedBatch(db, "b1", productA, 1, 10, "10", nil)
	seedSale(db, saleID, entity.SaleItem{ProductID: productA, Qty: 4})
	uc := newUC(db)

	require.NoError(t, uc.ComputeCogs(context.Background(), saleID, ""))
	require.NoError(t, uc.ComputeCogs(context.Background(), saleID, ""), "reintento debe ser no-op")

	assert.Len(t, db.entries, 1, "exactamente una entrada por línea")
	assert.Equal(t, 6.0, db.batches["b1"].QtyRemaining, "el lote se descuenta una sola vez")
}

func TestComputeCogs_InsuficienteRevierteTodaLaVenta(t *testing.T) {
	db := newFakeDB()
	seedBatch(db, "ba", productA, 1, 10, "10", nil)
	seedBatch(db, "bb", productB, 1, 2, "30", nil)
	// La primera línea alcanzaría; la segunda no. Nada debe quedar confirmado.
	seedSale(db, saleID,
		entity.SaleItem{ProductID: productA, Qty: 5},
		entity.SaleItem{ProductID: productB, Qty: 6},
	)

	err := newUC(db).ComputeCogs(context.Background(), saleID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientInventory)

	assert.Empty(t, db.entries, "ninguna línea queda costeada")
	assert.Equal(t, 10.0, db.batches["ba"].QtyRemaining, "el descuento de la primera línea se revierte")
	assert.Equal(t, 2.0, db.batches["bb"].QtyRemaining)
	assert.Equal(t, entity.CostingPending, db.sales[saleID].CostingStatus)
}

func TestComputeCogs_Conservacion(t *testing.T) {
	db := newFakeDB()
	seedBatch(db, "b1", productA, 1, 6, "10", nil)
	seedBatch(db, "b2", productA, 2, 6, "12", nil)
	seedBatch(db, "b3", productA, 3, 6, "15", nil)
	uc := newUC(db)

	ventas := []float64{4, 5, 3, 2}
	for i, qty := range ventas {
		id := fmt.Sprintf("sale-%d", i+1)
		seedSale(db, id, entity.SaleItem{ProductID: productA, Qty: qty})
		require.NoError(t, uc.ComputeCogs(context.Background(), id, ""))
	}

	// Para cada lote: qty_in - qty_remaining == suma de asignaciones registradas.
	consumido := map[string]float64{}
	for _, e := range db.entries {
		for _, a := range e.Allocations {
			consumido[a.BatchID] += a.Qty
		}
	}
	for id, b := range db.batches {
		assert.InDelta(t, b.QtyIn-b.QtyRemaining, consumido[id], 1e-9,
			"lote %s: lo descontado debe igualar lo asignado", id)
		assert.LessOrEqual(t, consumido[id], b.QtyIn, "nunca se asigna más de lo recibido")
		assert.GreaterOrEqual(t, b.QtyRemaining, 0.0)
	}
}

func TestComputeCogs_Concurrencia_UnGanador(t *testing.T) {
	db := newFakeDB()
	seedBatch(db, "b1", productA, 1, 5, "10", nil)
	seedBatch(db, "b2", productA, 2, 5, "10", nil)
	// Dos ventas de 6 sobre 10 disponibles: solo una puede ganar.
	seedSale(db, "sale-x", entity.SaleItem{ProductID: productA, Qty: 6})
	seedSale(db, "sale-y", entity.SaleItem{ProductID: productA, Qty: 6})
	uc := newUC(db)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []string{"sale-x", "sale-y"} {
		wg.Add(1)
		go func(saleID string) {
			defer wg.Done()
			errs <- uc.ComputeCogs(context.Background(), saleID, "")
		}(id)
	}
	wg.Wait()
	close(errs)

	var fallos int
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientInventory)
			fallos++
		}
	}
	assert.Equal(t, 1, fallos, "exactamente un costeo falla por inventario insuficiente")
	assert.Len(t, db.entries, 1, "solo la venta ganadora queda costeada")

	var restante float64
	for _, b := range db.batches {
		require.GreaterOrEqual(t, b.QtyRemaining, 0.0, "nunca un remanente negativo")
		restante += b.QtyRemaining
	}
	assert.InDelta(t, 4.0, restante, 1e-9)
}

func TestComputeCogs_VentaInexistente(t *testing.T) {
	db := newFakeDB()
	err := newUC(db).ComputeCogs(context.Background(), "no-existe", "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComputeCogs_VentaSinLineas(t *testing.T) {
	db := newFakeDB()
	seedSale(db, saleID)
	require.NoError(t, newUC(db).ComputeCogs(context.Background(), saleID, ""))
	assert.Empty(t, db.entries)
	assert.Equal(t, entity.CostingPending, db.sales[saleID].CostingStatus,
		"una venta sin líneas no cambia de estado")
}

func TestComputeCogs_EpsilonExacto(t *testing.T) {
	db := newFakeDB()
	seedBatch(db, "b1", productA, 1, 0.1, "10", nil)
	seedBatch(db, "b2", productA, 2, 0.1, "10", nil)
	seedBatch(db, "b3", productA, 3, 0.1, "10", nil)
	seedSale(db, saleID, entity.SaleItem{ProductID: productA, Qty: 0.1 + 0.1 + 0.1})

	err := newUC(db).ComputeCogs(context.Background(), saleID, "")
	require.NoError(t, err, "pedir exactamente lo disponible no debe fallar por representación flotante")
	assert.Equal(t, entity.CostingDone, db.sales[saleID].CostingStatus)
}
