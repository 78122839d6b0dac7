package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/catalog"
	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/domain"
)

// OutletHandler maneja las peticiones HTTP de puntos.
type OutletHandler struct {
	uc *catalog.OutletUseCase
}

// NewOutletHandler construye el handler.
func NewOutletHandler(uc *catalog.OutletUseCase) *OutletHandler {
	return &OutletHandler{uc: uc}
}

// Create crea un punto (cocina o punto de venta).
// POST /api/outlets
func (h *OutletHandler) Create(c *fiber.Ctx) error {
	var in dto.OutletRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	outlet, err := h.uc.Create(in.Name, in.Type, in.Address)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name requerido y type debe ser kitchen u outlet"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el punto ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(outlet)
}

// GetByID obtiene un punto.
// GET /api/outlets/:id
func (h *OutletHandler) GetByID(c *fiber.Ctx) error {
	outlet, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "punto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(outlet)
}

// List lista todos los puntos.
// GET /api/outlets
func (h *OutletHandler) List(c *fiber.Ctx) error {
	outlets, err := h.uc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(outlets)
}
