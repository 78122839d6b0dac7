package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// User es un usuario del back office. OutletID es nil para usuarios globales (admin).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	OutletID     *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
