package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-api/internal/application/catalog"
	"github.com/jhoicas/panaderia-api/internal/application/dto"
	"github.com/jhoicas/panaderia-api/internal/domain"
)

// IngredientHandler maneja las peticiones HTTP de materias primas.
type IngredientHandler struct {
	uc *catalog.IngredientUseCase
}

// NewIngredientHandler construye el handler.
func NewIngredientHandler(uc *catalog.IngredientUseCase) *IngredientHandler {
	return &IngredientHandler{uc: uc}
}

func ingredientInput(in dto.IngredientRequest) catalog.IngredientInput {
	return catalog.IngredientInput{
		Name:     in.Name,
		UOM:      in.UOM,
		MinStock: in.MinStock,
		UnitCost: in.UnitCost,
	}
}

// Create crea una materia prima.
// POST /api/ingredients
func (h *IngredientHandler) Create(c *fiber.Ctx) error {
	var in dto.IngredientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ingredient, err := h.uc.Create(ingredientInput(in))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y uom son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(ingredient)
}

// GetByID obtiene una materia prima.
// GET /api/ingredients/:id
func (h *IngredientHandler) GetByID(c *fiber.Ctx) error {
	ingredient, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "materia prima no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(ingredient)
}

// List lista materias primas. ?active=true filtra solo activas.
// GET /api/ingredients
func (h *IngredientHandler) List(c *fiber.Ctx) error {
	ingredients, err := h.uc.List(c.QueryBool("active"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(ingredients)
}

// Update edita una materia prima.
// PUT /api/ingredients/:id
func (h *IngredientHandler) Update(c *fiber.Ctx) error {
	var in dto.IngredientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ingredient, err := h.uc.Update(c.Params("id"), ingredientInput(in))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "materia prima no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(ingredient)
}
