package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-api/internal/application/inventory"
	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test. El TxRunner clona el estado y solo lo publica si fn no falla,
// para que los tests de rollback sean reales.
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	batches   map[string]*entity.PurchaseBatch
	movements []*entity.StockMovement
	wastages  []*entity.Wastage
}

func newFakeState() *fakeState {
	return &fakeState{batches: map[string]*entity.PurchaseBatch{}}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for id, b := range s.batches {
		cp := *b
		c.batches[id] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	c.wastages = append(c.wastages, s.wastages...)
	return c
}

type fakeTx struct{ s *fakeState }

func (r *fakeTx) Run(_ context.Context, fn func(
	repository.PurchaseBatchRepository,
	repository.StockMovementRepository,
	repository.WastageRepository,
) error) error {
	tx := r.s.clone()
	if err := fn(&fakeBatches{tx}, &fakeMovements{tx}, &fakeWastages{tx}); err != nil {
		return err
	}
	*r.s = *tx
	return nil
}

type fakeBatches struct{ s *fakeState }

func (r *fakeBatches) Create(b *entity.PurchaseBatch) error {
	cp := *b
	r.s.batches[b.ID] = &cp
	return nil
}
func (r *fakeBatches) GetByID(id string) (*entity.PurchaseBatch, error)      { return r.s.batches[id], nil }
func (r *fakeBatches) GetForUpdate(id string) (*entity.PurchaseBatch, error) { return r.s.batches[id], nil }
func (r *fakeBatches) ListByProductOutlet(string, string) ([]*entity.PurchaseBatch, error) {
	return nil, nil
}
func (r *fakeBatches) ListForAllocation(string, string) ([]*entity.PurchaseBatch, error) {
	return nil, nil
}
func (r *fakeBatches) Decrement(id string, qty float64) error {
	b, ok := r.s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.QtyRemaining -= qty
	if b.QtyRemaining < 0 {
		b.QtyRemaining = 0
	}
	return nil
}

type fakeMovements struct{ s *fakeState }

func (r *fakeMovements) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}
func (r *fakeMovements) StockOnHand(itemType, itemID, outletID string) (float64, error) {
	var total float64
	for _, m := range r.s.movements {
		if m.ItemType == itemType && m.ItemID == itemID && m.OutletID == outletID {
			total += m.QtyIn - m.QtyOut
		}
	}
	return total, nil
}
func (r *fakeMovements) ListByItem(string, string, string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}
func (r *fakeMovements) ListByOutlet(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

type fakeWastages struct{ s *fakeState }

func (r *fakeWastages) Create(w *entity.Wastage) error {
	cp := *w
	r.s.wastages = append(r.s.wastages, &cp)
	return nil
}
func (r *fakeWastages) ListByOutlet(string, int, int) ([]*entity.Wastage, error) {
	return r.s.wastages, nil
}

type fakeProducts struct{ items map[string]*entity.Product }

func (r *fakeProducts) Create(p *entity.Product) error                 { r.items[p.ID] = p; return nil }
func (r *fakeProducts) GetByID(id string) (*entity.Product, error)     { return r.items[id], nil }
func (r *fakeProducts) GetBySKU(sku string) (*entity.Product, error)   { return nil, nil }
func (r *fakeProducts) List(bool) ([]*entity.Product, error)           { return nil, nil }
func (r *fakeProducts) Update(*entity.Product) error                   { return nil }

type fakeIngredients struct{ items map[string]*entity.Ingredient }

func (r *fakeIngredients) Create(i *entity.Ingredient) error             { r.items[i.ID] = i; return nil }
func (r *fakeIngredients) GetByID(id string) (*entity.Ingredient, error) { return r.items[id], nil }
func (r *fakeIngredients) List(bool) ([]*entity.Ingredient, error)       { return nil, nil }
func (r *fakeIngredients) Update(*entity.Ingredient) error               { return nil }

type fakeOutlets struct{ items map[string]*entity.Outlet }

func (r *fakeOutlets) Create(o *entity.Outlet) error             { r.items[o.ID] = o; return nil }
func (r *fakeOutlets) GetByID(id string) (*entity.Outlet, error) { return r.items[id], nil }
func (r *fakeOutlets) List() ([]*entity.Outlet, error)           { return nil, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	state *fakeState
	uc    *inventory.InventoryUseCase
}

func newFixture() *fixture {
	state := newFakeState()
	products := &fakeProducts{items: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "PAN-001", Name: "Pan campesino"},
	}}
	ingredients := &fakeIngredients{items: map[string]*entity.Ingredient{
		"ing-1": {ID: "ing-1", Name: "Harina", UOM: "kg"},
	}}
	outlets := &fakeOutlets{items: map[string]*entity.Outlet{
		"out-1": {ID: "out-1", Name: "Cocina central", Type: entity.OutletTypeKitchen},
		"out-2": {ID: "out-2", Name: "Punto norte", Type: entity.OutletTypeOutlet},
	}}
	uc := inventory.NewInventoryUseCase(&fakeTx{state}, products, ingredients, outlets, &fakeMovements{state}, &fakeBatches{state})
	return &fixture{state: state, uc: uc}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveBatch_CreaLoteYAsiento(t *testing.T) {
	f := newFixture()

	batch, err := f.uc.ReceiveBatch(context.Background(), inventory.ReceiveBatchInput{
		ProductID: "prod-1",
		OutletID:  "out-2",
		BatchNo:   "GRN-001",
		Qty:       20,
		UnitCost:  decimal.RequireFromString("8.50"),
	})
	require.NoError(t, err)
	require.NotNil(t, batch)

	stored := f.state.batches[batch.ID]
	require.NotNil(t, stored)
	assert.Equal(t, 20.0, stored.QtyIn)
	assert.Equal(t, 20.0, stored.QtyRemaining, "el remanente inicia igual a lo recibido")

	require.Len(t, f.state.movements, 1)
	mv := f.state.movements[0]
	assert.Equal(t, entity.ReasonReceipt, mv.Reason)
	assert.Equal(t, 20.0, mv.QtyIn)
	assert.Equal(t, 0.0, mv.QtyOut)
	require.NotNil(t, mv.BatchID)
	assert.Equal(t, batch.ID, *mv.BatchID)
}

func TestReceiveBatch_Invalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ReceiveBatch(context.Background(), inventory.ReceiveBatchInput{
		ProductID: "prod-1", OutletID: "out-2", BatchNo: "GRN-002", Qty: 0,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero no crea lote")

	_, err = f.uc.ReceiveBatch(context.Background(), inventory.ReceiveBatchInput{
		ProductID: "no-existe", OutletID: "out-2", BatchNo: "GRN-003", Qty: 5,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.state.movements, "nada queda asentado en el libro")
}

func TestRegisterWastage_DescuentaYAsienta(t *testing.T) {
	f := newFixture()
	f.state.batches["b1"] = &entity.PurchaseBatch{
		ID: "b1", ProductID: "prod-1", OutletID: "out-2",
		QtyIn: 10, QtyRemaining: 10, UnitCost: decimal.RequireFromString("8.50"),
	}

	err := f.uc.RegisterWastage(context.Background(), inventory.WastageInput{
		OutletID: "out-2", BatchID: "b1", Qty: 3, Reason: "expired",
	})
	require.NoError(t, err)

	assert.Equal(t, 7.0, f.state.batches["b1"].QtyRemaining)
	require.Len(t, f.state.wastages, 1)
	require.Len(t, f.state.movements, 1)
	assert.Equal(t, entity.ReasonWastage, f.state.movements[0].Reason)
	assert.Equal(t, 3.0, f.state.movements[0].QtyOut)
}

func TestRegisterWastage_ExcedeRemanente(t *testing.T) {
	f := newFixture()
	f.state.batches["b1"] = &entity.PurchaseBatch{
		ID: "b1", ProductID: "prod-1", OutletID: "out-2",
		QtyIn: 10, QtyRemaining: 2,
	}

	err := f.uc.RegisterWastage(context.Background(), inventory.WastageInput{
		OutletID: "out-2", BatchID: "b1", Qty: 5,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Equal(t, 2.0, f.state.batches["b1"].QtyRemaining, "rollback: el lote no cambia")
	assert.Empty(t, f.state.wastages)
	assert.Empty(t, f.state.movements)
}

func TestDispatch_ParDeAsientosConMismaReferencia(t *testing.T) {
	f := newFixture()

	err := f.uc.Dispatch(context.Background(), inventory.DispatchInput{
		ItemType:     entity.ItemTypeProduct,
		ItemID:       "prod-1",
		FromOutletID: "out-1",
		ToOutletID:   "out-2",
		Qty:          12,
	})
	require.NoError(t, err)

	require.Len(t, f.state.movements, 2)
	salida, entrada := f.state.movements[0], f.state.movements[1]
	assert.Equal(t, entity.ReasonDispatchOut, salida.Reason)
	assert.Equal(t, 12.0, salida.QtyOut)
	assert.Equal(t, entity.ReasonDispatchIn, entrada.Reason)
	assert.Equal(t, 12.0, entrada.QtyIn)
	assert.Equal(t, salida.RefID, entrada.RefID, "ambos asientos comparten la referencia del traslado")
}

func TestDispatch_MismoOrigenYDestino(t *testing.T) {
	f := newFixture()
	err := f.uc.Dispatch(context.Background(), inventory.DispatchInput{
		ItemType: entity.ItemTypeProduct, ItemID: "prod-1",
		FromOutletID: "out-1", ToOutletID: "out-1", Qty: 1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterProduction_EntradaProductoSalidaIngredientes(t *testing.T) {
	f := newFixture()

	err := f.uc.RegisterProduction(context.Background(), inventory.ProductionInput{
		OutletID:  "out-1",
		ProductID: "prod-1",
		Qty:       40,
		Consumed: []inventory.ConsumedIngredient{
			{IngredientID: "ing-1", Qty: 10},
		},
	})
	require.NoError(t, err)

	require.Len(t, f.state.movements, 2)
	assert.Equal(t, entity.ItemTypeProduct, f.state.movements[0].ItemType)
	assert.Equal(t, 40.0, f.state.movements[0].QtyIn)
	assert.Equal(t, entity.ItemTypeIngredient, f.state.movements[1].ItemType)
	assert.Equal(t, 10.0, f.state.movements[1].QtyOut)
	assert.Equal(t, f.state.movements[0].RefID, f.state.movements[1].RefID)
}

func TestStockOnHand_DerivadoDelLibro(t *testing.T) {
	f := newFixture()
	f.state.movements = []*entity.StockMovement{
		{ItemType: entity.ItemTypeProduct, ItemID: "prod-1", OutletID: "out-2", QtyIn: 30, Reason: entity.ReasonReceipt},
		{ItemType: entity.ItemTypeProduct, ItemID: "prod-1", OutletID: "out-2", QtyOut: 12, Reason: entity.ReasonSale},
		{ItemType: entity.ItemTypeProduct, ItemID: "prod-1", OutletID: "out-2", QtyOut: 2, Reason: entity.ReasonWastage},
		// otro punto: no debe contar
		{ItemType: entity.ItemTypeProduct, ItemID: "prod-1", OutletID: "out-1", QtyIn: 99, Reason: entity.ReasonProduction},
	}

	qty, err := f.uc.StockOnHand(entity.ItemTypeProduct, "prod-1", "out-2")
	require.NoError(t, err)
	assert.Equal(t, 16.0, qty, "SUM(qty_in) - SUM(qty_out) del par (ítem, punto)")

	_, err = f.uc.StockOnHand("otro", "prod-1", "out-2")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
