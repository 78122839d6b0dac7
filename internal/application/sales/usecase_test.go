package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-api/internal/application/sales"
	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	sales     map[string]*entity.Sale
	movements []*entity.StockMovement
}

type fakeTx struct{ s *fakeState }

func (r *fakeTx) Run(_ context.Context, fn func(
	repository.SaleRepository,
	repository.StockMovementRepository,
) error) error {
	tx := &fakeState{sales: map[string]*entity.Sale{}}
	for id, s := range r.s.sales {
		cp := *s
		tx.sales[id] = &cp
	}
	tx.movements = append(tx.movements, r.s.movements...)
	if err := fn(&fakeSales{tx}, &fakeMovements{tx}); err != nil {
		return err
	}
	*r.s = *tx
	return nil
}

type fakeSales struct{ s *fakeState }

func (r *fakeSales) Create(s *entity.Sale) error {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	r.s.sales[s.ID] = &cp
	return nil
}
func (r *fakeSales) GetByID(id string) (*entity.Sale, error) { return r.s.sales[id], nil }
func (r *fakeSales) UpdateCostingStatus(id, status string) error {
	s, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.CostingStatus = status
	return nil
}
func (r *fakeSales) ListByOutlet(string, *time.Time, *time.Time, int, int) ([]*entity.Sale, error) {
	return nil, nil
}

type fakeMovements struct{ s *fakeState }

func (r *fakeMovements) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}
func (r *fakeMovements) StockOnHand(string, string, string) (float64, error) { return 0, nil }
func (r *fakeMovements) ListByItem(string, string, string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovements) ListByOutlet(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeOutlets struct{ items map[string]*entity.Outlet }

func (r *fakeOutlets) Create(o *entity.Outlet) error             { r.items[o.ID] = o; return nil }
func (r *fakeOutlets) GetByID(id string) (*entity.Outlet, error) { return r.items[id], nil }
func (r *fakeOutlets) List() ([]*entity.Outlet, error)           { return nil, nil }

type fakeProducts struct{ items map[string]*entity.Product }

func (r *fakeProducts) Create(p *entity.Product) error               { r.items[p.ID] = p; return nil }
func (r *fakeProducts) GetByID(id string) (*entity.Product, error)   { return r.items[id], nil }
func (r *fakeProducts) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }
func (r *fakeProducts) List(bool) ([]*entity.Product, error)         { return nil, nil }
func (r *fakeProducts) Update(*entity.Product) error                 { return nil }

// fakeCogs registra las invocaciones al motor y puede simular insuficiencia.
type fakeCogs struct {
	calls  []string
	method string
	err    error
}

func (f *fakeCogs) ComputeCogs(_ context.Context, saleID, method string) error {
	f.calls = append(f.calls, saleID)
	f.method = method
	return f.err
}

func newFixture(cogs *fakeCogs) (*fakeState, *sales.CreateSaleUseCase) {
	state := &fakeState{sales: map[string]*entity.Sale{}}
	outlets := &fakeOutlets{items: map[string]*entity.Outlet{
		"out-1": {ID: "out-1", Name: "Punto norte", Type: entity.OutletTypeOutlet},
	}}
	products := &fakeProducts{items: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "PAN-001", Name: "Pan campesino"},
	}}
	uc := sales.NewCreateSaleUseCase(&fakeTx{state}, outlets, products, &fakeSales{state}, cogs)
	return state, uc
}

func lineInput(qty float64) sales.SaleLineInput {
	return sales.SaleLineInput{
		ProductID: "prod-1",
		Qty:       qty,
		UnitPrice: decimal.RequireFromString("15.00"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_PersisteAsientaYCostea(t *testing.T) {
	cogs := &fakeCogs{}
	state, uc := newFixture(cogs)

	sale, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		OutletID: "out-1",
		Subtotal: decimal.RequireFromString("105.00"),
		Total:    decimal.RequireFromString("105.00"),
		Method:   "FEFO",
		Items:    []sales.SaleLineInput{lineInput(7)},
	})
	require.NoError(t, err)
	require.NotNil(t, sale)

	stored := state.sales[sale.ID]
	require.NotNil(t, stored, "la venta queda durable antes del costeo")
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 7.0, stored.Items[0].Qty)

	require.Len(t, state.movements, 1, "un asiento de salida por línea")
	assert.Equal(t, entity.ReasonSale, state.movements[0].Reason)
	assert.Equal(t, 7.0, state.movements[0].QtyOut)
	assert.Equal(t, "sales", state.movements[0].RefTable)
	assert.Equal(t, sale.ID, state.movements[0].RefID)

	require.Equal(t, []string{sale.ID}, cogs.calls, "el motor se invoca una vez con la venta durable")
	assert.Equal(t, "FEFO", cogs.method)
	assert.Equal(t, entity.CostingDone, sale.CostingStatus)
}

func TestCreateSale_InsuficienteMarcaFallida(t *testing.T) {
	cogs := &fakeCogs{err: domain.ErrInsufficientInventory}
	state, uc := newFixture(cogs)

	sale, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{
		OutletID: "out-1",
		Items:    []sales.SaleLineInput{lineInput(999)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientInventory)
	require.NotNil(t, sale, "la venta no se borra: queda para resolución manual")
	assert.Equal(t, entity.CostingFailed, sale.CostingStatus)
	assert.Equal(t, entity.CostingFailed, state.sales[sale.ID].CostingStatus)
}

func TestCreateSale_Validacion(t *testing.T) {
	cogs := &fakeCogs{}
	_, uc := newFixture(cogs)

	_, err := uc.CreateSale(context.Background(), sales.CreateSaleInput{OutletID: "out-1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateSale(context.Background(), sales.CreateSaleInput{
		OutletID: "out-1",
		Items:    []sales.SaleLineInput{lineInput(0)},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.CreateSale(context.Background(), sales.CreateSaleInput{
		OutletID: "no-existe",
		Items:    []sales.SaleLineInput{lineInput(1)},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, cogs.calls, "el motor nunca se invoca si la validación falla")
}

func TestRetryCosting_Idempotente(t *testing.T) {
	cogs := &fakeCogs{}
	state, uc := newFixture(cogs)
	state.sales["sale-1"] = &entity.Sale{ID: "sale-1", OutletID: "out-1", CostingStatus: entity.CostingFailed}

	require.NoError(t, uc.RetryCosting(context.Background(), "sale-1", ""))
	assert.Equal(t, []string{"sale-1"}, cogs.calls)

	err := uc.RetryCosting(context.Background(), "no-existe", "")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
