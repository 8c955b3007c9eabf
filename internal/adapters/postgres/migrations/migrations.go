package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var files embed.FS

// Up applies every pending migration to the database at dsn.
func Up(dsn string) error {
	const op = "migrations.Up"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("%s: open: %w", op, err)
	}
	defer db.Close()

	return Run(db)
}

// Run applies every pending migration using an existing connection.
func Run(db *sql.DB) error {
	const op = "migrations.Run"

	src, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("%s: source: %w", op, err)
	}
	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return fmt.Errorf("%s: driver: %w", op, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx_v5", driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: up: %w", op, err)
	}
	return nil
}
