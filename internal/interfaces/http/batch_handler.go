package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/application/inventory"
	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
)

// BatchHandler maneja recepciones de mercancía y consulta de lotes.
type BatchHandler struct {
	uc *inventory.InventoryUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *inventory.InventoryUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Receive registra una recepción de mercancía (GRN) y crea el lote.
// POST /api/batches
func (h *BatchHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inventory.ReceiveBatchInput{
		ProductID: in.ProductID,
		OutletID:  in.OutletID,
		BatchNo:   in.BatchNo,
		Qty:       in.Qty,
		UnitCost:  in.UnitCost,
		UserID:    GetUserID(c),
	}
	if in.ReceivedAt != "" {
		receivedAt, err := time.ParseInLocation("2006-01-02", in.ReceivedAt, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "received_at debe ser YYYY-MM-DD"})
		}
		input.ReceivedAt = receivedAt
	}
	if in.Expiry != "" {
		expiry, err := time.ParseInLocation("2006-01-02", in.Expiry, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry debe ser YYYY-MM-DD"})
		}
		input.Expiry = &expiry
	}
	batch, err := h.uc.ReceiveBatch(c.Context(), input)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, outlet_id, batch_no y qty > 0 son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o punto no encontrado"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el lote ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// List lista los lotes de un producto en un punto (incluye agotados).
// GET /api/batches?product_id=...&outlet_id=...
func (h *BatchHandler) List(c *fiber.Ctx) error {
	batches, err := h.uc.ListBatches(c.Query("product_id"), c.Query("outlet_id"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y outlet_id son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return c.JSON(out)
}

func toBatchResponse(b *entity.PurchaseBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:           b.ID,
		ProductID:    b.ProductID,
		OutletID:     b.OutletID,
		BatchNo:      b.BatchNo,
		ReceivedAt:   b.ReceivedAt,
		QtyIn:        b.QtyIn,
		UnitCost:     b.UnitCost,
		QtyRemaining: b.QtyRemaining,
		Expiry:       b.Expiry,
	}
}
