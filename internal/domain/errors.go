package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrInsufficientInventory: los lotes disponibles no alcanzan para cubrir la cantidad
	// vendida. Es un error de negocio (no transitorio): el operador debe recibir mercancía
	// o ajustar la venta antes de reintentar.
	ErrInsufficientInventory = errors.New("inventario insuficiente para costear la venta")
)
