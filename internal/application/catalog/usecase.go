package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-api/internal/domain"
	"github.com/jhoicas/panaderia-api/internal/domain/entity"
	"github.com/jhoicas/panaderia-api/internal/domain/repository"
)

// OutletUseCase CRUD de puntos (cocina central y puntos de venta).
type OutletUseCase struct {
	repo repository.OutletRepository
}

// NewOutletUseCase construye el caso de uso.
func NewOutletUseCase(repo repository.OutletRepository) *OutletUseCase {
	return &OutletUseCase{repo: repo}
}

// Create crea un punto. Type debe ser kitchen u outlet.
func (uc *OutletUseCase) Create(name, outletType, address string) (*entity.Outlet, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if outletType != entity.OutletTypeKitchen && outletType != entity.OutletTypeOutlet {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	outlet := &entity.Outlet{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      outletType,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(outlet); err != nil {
		return nil, err
	}
	return outlet, nil
}

// GetByID obtiene un punto.
func (uc *OutletUseCase) GetByID(id string) (*entity.Outlet, error) {
	outlet, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if outlet == nil {
		return nil, domain.ErrNotFound
	}
	return outlet, nil
}

// List lista todos los puntos.
func (uc *OutletUseCase) List() ([]*entity.Outlet, error) {
	return uc.repo.List()
}

// ProductInput alta o edición de producto terminado.
type ProductInput struct {
	SKU              string
	Name             string
	MRP              decimal.Decimal
	TaxPct           decimal.Decimal
	ShelfLifeHours   int
	ReorderThreshold float64
}

// ProductUseCase CRUD de productos terminados.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto activo. El SKU es único.
func (uc *ProductUseCase) Create(in ProductInput) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" || in.MRP.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              in.SKU,
		Name:             in.Name,
		MRP:              in.MRP,
		TaxPct:           in.TaxPct,
		ShelfLifeHours:   in.ShelfLifeHours,
		ReorderThreshold: in.ReorderThreshold,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos, opcionalmente solo activos.
func (uc *ProductUseCase) List(activeOnly bool) ([]*entity.Product, error) {
	return uc.repo.List(activeOnly)
}

// Update edita un producto existente. El SKU no cambia.
func (uc *ProductUseCase) Update(id string, in ProductInput) (*entity.Product, error) {
	if in.Name == "" || in.MRP.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Name = in.Name
	product.MRP = in.MRP
	product.TaxPct = in.TaxPct
	product.ShelfLifeHours = in.ShelfLifeHours
	product.ReorderThreshold = in.ReorderThreshold
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// IngredientInput alta o edición de materia prima.
type IngredientInput struct {
	Name     string
	UOM      string
	MinStock float64
	UnitCost decimal.Decimal
}

// IngredientUseCase CRUD de materias primas.
type IngredientUseCase struct {
	repo repository.IngredientRepository
}

// NewIngredientUseCase construye el caso de uso.
func NewIngredientUseCase(repo repository.IngredientRepository) *IngredientUseCase {
	return &IngredientUseCase{repo: repo}
}

// Create crea una materia prima activa.
func (uc *IngredientUseCase) Create(in IngredientInput) (*entity.Ingredient, error) {
	if in.Name == "" || in.UOM == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	ingredient := &entity.Ingredient{
		ID:        uuid.New().String(),
		Name:      in.Name,
		UOM:       in.UOM,
		MinStock:  in.MinStock,
		UnitCost:  in.UnitCost,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// GetByID obtiene una materia prima.
func (uc *IngredientUseCase) GetByID(id string) (*entity.Ingredient, error) {
	ingredient, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, domain.ErrNotFound
	}
	return ingredient, nil
}

// List lista materias primas, opcionalmente solo activas.
func (uc *IngredientUseCase) List(activeOnly bool) ([]*entity.Ingredient, error) {
	return uc.repo.List(activeOnly)
}

// Update edita una materia prima existente.
func (uc *IngredientUseCase) Update(id string, in IngredientInput) (*entity.Ingredient, error) {
	if in.Name == "" || in.UOM == "" {
		return nil, domain.ErrInvalidInput
	}
	ingredient, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	ingredient.Name = in.Name
	ingredient.UOM = in.UOM
	ingredient.MinStock = in.MinStock
	ingredient.UnitCost = in.UnitCost
	ingredient.UpdatedAt = time.Now()
	if err := uc.repo.Update(ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}
