package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/application/reports"
	"github.com/jhoicas/panaderia-api/internal/domain"
)

// ReportHandler maneja los reportes de costos, stock y reposición.
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Cogs reporte de costo de ventas del período.
// GET /api/reports/cogs?outlet_id=...&start_date=...&end_date=...
func (h *ReportHandler) Cogs(c *fiber.Ctx) error {
	var in dto.CogsReportRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	report, err := h.uc.CogsReport(in)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(report)
}

// CogsXLSX exporta el reporte de COGS como libro Excel.
// GET /api/reports/cogs/export?outlet_id=...&start_date=...&end_date=...
func (h *ReportHandler) CogsXLSX(c *fiber.Ctx) error {
	var in dto.CogsReportRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	buf, err := h.uc.ExportCogsXLSX(in)
	if err != nil {
		return reportError(c, err)
	}
	filename := fmt.Sprintf("cogs_%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}

// StockOnHand stock derivado del libro para todos los ítems de un punto.
// GET /api/reports/stock?outlet_id=...
func (h *ReportHandler) StockOnHand(c *fiber.Ctx) error {
	rows, err := h.uc.StockOnHand(c.Query("outlet_id"))
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}

// LowStock ítems por debajo de su umbral de reposición.
// GET /api/reports/low-stock?outlet_id=...
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	rows, err := h.uc.LowStock(c.Query("outlet_id"))
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(rows)
}

func reportError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas deben ser YYYY-MM-DD y el rango no puede estar invertido"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
