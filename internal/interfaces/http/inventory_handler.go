package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/application/inventory"
	"github.com/jhoicas/panaderia-api/internal/domain"
)

// InventoryHandler maneja mermas, traslados, producción y consultas del libro.
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterWastage registra una merma contra un lote.
// POST /api/inventory/wastages
func (h *InventoryHandler) RegisterWastage(c *fiber.Ctx) error {
	var in dto.WastageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.RegisterWastage(c.Context(), inventory.WastageInput{
		OutletID: in.OutletID,
		BatchID:  in.BatchID,
		Qty:      in.Qty,
		Reason:   in.Reason,
		UserID:   GetUserID(c),
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id, batch_id y qty > 0 son requeridos; el lote debe pertenecer al punto"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		if err == domain.ErrInsufficientInventory {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INVENTORY", Message: "la merma excede el remanente del lote"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Dispatch registra un traslado entre puntos.
// POST /api/inventory/dispatches
func (h *InventoryHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Dispatch(c.Context(), inventory.DispatchInput{
		ItemType:     in.ItemType,
		ItemID:       in.ItemID,
		FromOutletID: in.FromOutletID,
		ToOutletID:   in.ToOutletID,
		Qty:          in.Qty,
		UserID:       GetUserID(c),
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos: origen y destino deben diferir y qty > 0"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RegisterProduction asienta una producción en cocina.
// POST /api/inventory/productions
func (h *InventoryHandler) RegisterProduction(c *fiber.Ctx) error {
	var in dto.ProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inventory.ProductionInput{
		OutletID:  in.OutletID,
		ProductID: in.ProductID,
		Qty:       in.Qty,
		UserID:    GetUserID(c),
	}
	for _, consumed := range in.Consumed {
		input.Consumed = append(input.Consumed, inventory.ConsumedIngredient{
			IngredientID: consumed.IngredientID,
			Qty:          consumed.Qty,
		})
	}
	err := h.uc.RegisterProduction(c.Context(), input)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id, product_id y qty > 0 son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusCreated)
}

// StockOnHand stock derivado del libro para un ítem en un punto.
// GET /api/inventory/stock?item_type=...&item_id=...&outlet_id=...
func (h *InventoryHandler) StockOnHand(c *fiber.Ctx) error {
	itemType := c.Query("item_type")
	itemID := c.Query("item_id")
	outletID := c.Query("outlet_id")
	qty, err := h.uc.StockOnHand(itemType, itemID, outletID)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_type (ingredient|product), item_id y outlet_id son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.StockOnHandResponse{
		ItemType: itemType,
		ItemID:   itemID,
		OutletID: outletID,
		Qty:      qty,
	})
}

// ListMovements lista los movimientos de un punto.
// GET /api/inventory/movements?outlet_id=...&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD"})
		}
		from = &parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD"})
		}
		end := parsed.AddDate(0, 0, 1)
		to = &end
	}
	movements, err := h.uc.ListMovements(c.Query("outlet_id"), from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}
