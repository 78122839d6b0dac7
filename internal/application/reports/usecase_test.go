package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────

type fakeReportRepo struct {
	cogsRows     []*repository.CogsReportRow
	stockRows    []*repository.StockOnHandRow
	lowStockRows []*repository.LowStockRow

	lastFrom, lastTo time.Time
	lastOutlet       string
}

func (r *fakeReportRepo) CogsByRange(outletID string, from, to time.Time) ([]*repository.CogsReportRow, error) {
	r.lastOutlet, r.lastFrom, r.lastTo = outletID, from, to
	return r.cogsRows, nil
}

func (r *fakeReportRepo) StockOnHandByOutlet(outletID string) ([]*repository.StockOnHandRow, error) {
	return r.stockRows, nil
}

func (r *fakeReportRepo) LowStock(outletID string) ([]*repository.LowStockRow, error) {
	return r.lowStockRows, nil
}

type fakeOutletRepo struct {
	outlets map[string]*entity.Outlet
}

func (r *fakeOutletRepo) Create(o *entity.Outlet) error { r.outlets[o.ID] = o; return nil }
func (r *fakeOutletRepo) GetByID(id string) (*entity.Outlet, error) {
	return r.outlets[id], nil
}
func (r *fakeOutletRepo) List() ([]*entity.Outlet, error) { return nil, nil }

func newUseCase(reportRepo *fakeReportRepo) *ReportUseCase {
	outlets := &fakeOutletRepo{outlets: map[string]*entity.Outlet{
		"out-1": {ID: "out-1", Name: "Sucursal Centro", Type: entity.OutletTypeOutlet},
	}}
	return NewReportUseCase(reportRepo, outlets)
}

func sampleRows() []*repository.CogsReportRow {
	computed := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	return []*repository.CogsReportRow{
		{
			SaleItemID: "si-1", SaleID: "s-1", OutletID: "out-1", OutletName: "Sucursal Centro",
			ProductID: "p-1", SKU: "PAN-001", ProductName: "Pan francés",
			Qty: 7, UnitCost: decimal.RequireFromString("12.86"), TotalCost: decimal.RequireFromString("90.00"),
			Method: "FIFO", ComputedAt: computed,
		},
		{
			SaleItemID: "si-2", SaleID: "s-2", OutletID: "out-1", OutletName: "Sucursal Centro",
			ProductID: "p-2", SKU: "TOR-001", ProductName: "Torta de chocolate",
			Qty: 2, UnitCost: decimal.RequireFromString("45.50"), TotalCost: decimal.RequireFromString("91.00"),
			Method: "FIFO", ComputedAt: computed,
		},
	}
}

// ──────────────────────────────────────────────
// CogsReport
// ──────────────────────────────────────────────

func TestCogsReport_SumaTotalDelPeriodo(t *testing.T) {
	repo := &fakeReportRepo{cogsRows: sampleRows()}
	uc := newUseCase(repo)

	resp, err := uc.CogsReport(dto.CogsReportRequest{
		OutletID:  "out-1",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-31",
	})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)

	assert.Equal(t, "181.00", resp.TotalCost.StringFixed(2), "el total debe ser la suma de las filas")
	assert.Equal(t, "PAN-001", resp.Rows[0].SKU)
	assert.Equal(t, "out-1", repo.lastOutlet)

	// El límite superior es exclusivo: cubre el día completo de end_date.
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), repo.lastFrom)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local), repo.lastTo)
}

func TestCogsReport_FechasPorDefecto(t *testing.T) {
	repo := &fakeReportRepo{}
	uc := newUseCase(repo)

	_, err := uc.CogsReport(dto.CogsReportRequest{})
	require.NoError(t, err)

	now := time.Now()
	wantFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	assert.Equal(t, wantFrom, repo.lastFrom, "sin start_date arranca el mes en curso")
	assert.True(t, repo.lastTo.After(now), "sin end_date el rango incluye hoy completo")
}

func TestCogsReport_Invalidos(t *testing.T) {
	uc := newUseCase(&fakeReportRepo{})

	_, err := uc.CogsReport(dto.CogsReportRequest{StartDate: "15/08/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "formato de fecha inválido")

	_, err = uc.CogsReport(dto.CogsReportRequest{StartDate: "2026-08-31", EndDate: "2026-08-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "rango invertido")

	_, err = uc.CogsReport(dto.CogsReportRequest{OutletID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────
// StockOnHand / LowStock
// ──────────────────────────────────────────────

func TestStockOnHand_ValidaOutlet(t *testing.T) {
	repo := &fakeReportRepo{stockRows: []*repository.StockOnHandRow{
		{ItemType: entity.ItemTypeProduct, ItemID: "p-1", ItemName: "Pan francés", OutletID: "out-1", Qty: 12},
	}}
	uc := newUseCase(repo)

	rows, err := uc.StockOnHand("out-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 12.0, rows[0].Qty, 1e-9)

	_, err = uc.StockOnHand("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStock_ConvierteFilas(t *testing.T) {
	repo := &fakeReportRepo{lowStockRows: []*repository.LowStockRow{
		{ItemType: entity.ItemTypeIngredient, ItemID: "i-1", ItemName: "Harina", OutletID: "out-1", Qty: 3, Threshold: 10},
	}}
	uc := newUseCase(repo)

	rows, err := uc.LowStock("")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Harina", rows[0].ItemName)
	assert.InDelta(t, 10.0, rows[0].Threshold, 1e-9)
}

// ──────────────────────────────────────────────
// ExportCogsXLSX
// ──────────────────────────────────────────────

func TestExportCogsXLSX_GeneraLibroLegible(t *testing.T) {
	repo := &fakeReportRepo{cogsRows: sampleRows()}
	uc := newUseCase(repo)

	buf, err := uc.ExportCogsXLSX(dto.CogsReportRequest{
		OutletID:  "out-1",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-31",
	})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err, "el buffer debe ser un XLSX válido")
	defer f.Close()

	header, err := f.GetCellValue("COGS", "C1")
	require.NoError(t, err)
	assert.Equal(t, "SKU", header)

	sku, err := f.GetCellValue("COGS", "C2")
	require.NoError(t, err)
	assert.Equal(t, "PAN-001", sku)

	total, err := f.GetCellValue("COGS", "G4")
	require.NoError(t, err)
	assert.Equal(t, "181", total, "la fila final lleva el total del período")
}
