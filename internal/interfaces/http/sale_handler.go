package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/application/sales"
	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// SaleHandler maneja facturación, consulta y reintento de costeo de ventas.
type SaleHandler struct {
	uc       *sales.CreateSaleUseCase
	saleRepo repository.SaleRepository
}

// NewSaleHandler construye el handler. saleRepo va atado al pool (lecturas).
func NewSaleHandler(uc *sales.CreateSaleUseCase, saleRepo repository.SaleRepository) *SaleHandler {
	return &SaleHandler{uc: uc, saleRepo: saleRepo}
}

// Create factura una venta y dispara el costeo. Si el inventario no alcanza,
// la venta queda durable con costing_status=failed y se responde 409 con la
// venta incluida, para que el operador la resuelva y reintente.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CreateSaleInput{
		OutletID:    in.OutletID,
		PaymentMode: in.PaymentMode,
		Subtotal:    in.Subtotal,
		Tax:         in.Tax,
		Discount:    in.Discount,
		Total:       in.Total,
		Method:      in.Method,
		UserID:      GetUserID(c),
	}
	for _, line := range in.Items {
		input.Items = append(input.Items, sales.SaleLineInput{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			TaxPct:    line.TaxPct,
		})
	}
	sale, err := h.uc.CreateSale(c.Context(), input)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id y al menos una línea con qty > 0 son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto o producto no encontrado"})
		}
		if errors.Is(err, domain.ErrInsufficientInventory) {
			body := fiber.Map{
				"error": dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: "inventario insuficiente para costear la venta"},
			}
			if sale != nil {
				body["sale"] = toSaleResponse(sale)
			}
			return c.Status(fiber.StatusConflict).JSON(body)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID obtiene una venta con sus líneas.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.saleRepo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(toSaleResponse(sale))
}

// RetryCosting reintenta el costeo de una venta fallida. Es idempotente: las
// líneas ya costeadas no se recalculan.
// POST /api/sales/:id/cogs
func (h *SaleHandler) RetryCosting(c *fiber.Ctx) error {
	var in dto.RetryCostingRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id := c.Params("id")
	if err := h.uc.RetryCosting(c.Context(), id, in.Method); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrInsufficientInventory) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: "inventario insuficiente para costear la venta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	sale, err := h.saleRepo.GetByID(id)
	if err != nil || sale == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(toSaleResponse(sale))
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:            s.ID,
		OutletID:      s.OutletID,
		BilledAt:      s.BilledAt,
		Total:         s.Total,
		PaymentMode:   s.PaymentMode,
		CostingStatus: s.CostingStatus,
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, dto.SaleLineDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}
	return resp
}
