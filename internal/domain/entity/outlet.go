package entity

import "time"

// Tipos de punto: cocina central (produce) o punto de venta (vende).
const (
	OutletTypeKitchen = "kitchen"
	OutletTypeOutlet  = "outlet"
)

// Outlet representa un punto de la panadería (cocina central o punto de venta).
type Outlet struct {
	ID        string
	Name      string
	Type      string // kitchen | outlet
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
