package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ReportUseCase consultas de lectura: COGS por período, stock por punto y alertas
// de reposición. No abre transacciones; todas las consultas son read-only.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	outletRepo repository.OutletRepository
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(reportRepo repository.ReportRepository, outletRepo repository.OutletRepository) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo, outletRepo: outletRepo}
}

// resolveRange interpreta fechas YYYY-MM-DD. Sin start_date usa el primer día
// del mes en curso; sin end_date usa hoy. El límite superior es exclusivo
// (fin del día de end_date) para que el rango incluya el día completo.
func resolveRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if startDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, startDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		from = parsed
	}
	if endDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, endDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		to = parsed
	}
	to = to.AddDate(0, 0, 1)
	if !from.Before(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return from, to, nil
}

// CogsReport arma el reporte de costo de ventas del período.
func (uc *ReportUseCase) CogsReport(in dto.CogsReportRequest) (*dto.CogsReportResponse, error) {
	from, to, err := resolveRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if in.OutletID != "" {
		outlet, err := uc.outletRepo.GetByID(in.OutletID)
		if err != nil {
			return nil, err
		}
		if outlet == nil {
			return nil, domain.ErrNotFound
		}
	}
	rows, err := uc.reportRepo.CogsByRange(in.OutletID, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.CogsReportResponse{
		Rows:      make([]dto.CogsReportRowDTO, 0, len(rows)),
		TotalCost: decimal.Zero,
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.CogsReportRowDTO{
			SaleID:      r.SaleID,
			OutletName:  r.OutletName,
			SKU:         r.SKU,
			ProductName: r.ProductName,
			Qty:         r.Qty,
			UnitCost:    r.UnitCost,
			TotalCost:   r.TotalCost,
			Method:      r.Method,
			ComputedAt:  r.ComputedAt,
		})
		resp.TotalCost = resp.TotalCost.Add(r.TotalCost)
	}
	return resp, nil
}

// StockOnHand stock derivado del libro para todos los ítems de un punto.
func (uc *ReportUseCase) StockOnHand(outletID string) ([]*repository.StockOnHandRow, error) {
	outlet, err := uc.outletRepo.GetByID(outletID)
	if err != nil {
		return nil, err
	}
	if outlet == nil {
		return nil, domain.ErrNotFound
	}
	return uc.reportRepo.StockOnHandByOutlet(outletID)
}

// LowStock ítems por debajo de su umbral de reposición. outletID vacío cubre
// todos los puntos.
func (uc *ReportUseCase) LowStock(outletID string) ([]dto.LowStockRowDTO, error) {
	if outletID != "" {
		outlet, err := uc.outletRepo.GetByID(outletID)
		if err != nil {
			return nil, err
		}
		if outlet == nil {
			return nil, domain.ErrNotFound
		}
	}
	rows, err := uc.reportRepo.LowStock(outletID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockRowDTO{
			ItemType:  r.ItemType,
			ItemID:    r.ItemID,
			ItemName:  r.ItemName,
			OutletID:  r.OutletID,
			Qty:       r.Qty,
			Threshold: r.Threshold,
		})
	}
	return out, nil
}

// ExportCogsXLSX genera el reporte de COGS como libro Excel.
func (uc *ReportUseCase) ExportCogsXLSX(in dto.CogsReportRequest) (*bytes.Buffer, error) {
	report, err := uc.CogsReport(in)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "COGS"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{"Venta", "Punto", "SKU", "Producto", "Cantidad", "Costo unitario", "Costo total", "Método", "Calculado"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}
	for i, row := range report.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		unitCost, _ := row.UnitCost.Float64()
		totalCost, _ := row.TotalCost.Float64()
		values := []interface{}{
			row.SaleID,
			row.OutletName,
			row.SKU,
			row.ProductName,
			row.Qty,
			unitCost,
			totalCost,
			row.Method,
			row.ComputedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	totalRow := len(report.Rows) + 2
	total, _ := report.TotalCost.Float64()
	totals := []interface{}{"", "", "", "", "", "", total, "", ""}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", totalRow), &totals); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
