package repository

import "github.com/jhoicas/panaderia-api/internal/domain/entity"

// OutletRepository define el puerto de persistencia para puntos.
type OutletRepository interface {
	Create(outlet *entity.Outlet) error
	GetByID(id string) (*entity.Outlet, error)
	List() ([]*entity.Outlet, error)
}

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(activeOnly bool) ([]*entity.Product, error)
	Update(product *entity.Product) error
}

// IngredientRepository define el puerto de persistencia para materias primas.
type IngredientRepository interface {
	Create(ingredient *entity.Ingredient) error
	GetByID(id string) (*entity.Ingredient, error)
	List(activeOnly bool) ([]*entity.Ingredient, error)
	Update(ingredient *entity.Ingredient) error
}

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}

// WastageRepository define el puerto de persistencia para mermas.
type WastageRepository interface {
	Create(wastage *entity.Wastage) error
	ListByOutlet(outletID string, limit, offset int) ([]*entity.Wastage, error)
}
