package main

import (
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/panaderia-api/pkg/config"
)

// Comando de migraciones: up (default), down, status.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.DB.ConnectionString())
	if err != nil {
		fmt.Fprintln(os.Stderr, "abrir DB:", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = goose.Up(sqlDB, "migrations")
	case "down":
		err = goose.Down(sqlDB, "migrations")
	case "status":
		err = goose.Status(sqlDB, "migrations")
	default:
		fmt.Fprintln(os.Stderr, "comando desconocido:", command)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "migración:", err)
		os.Exit(1)
	}
}
