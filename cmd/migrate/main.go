package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lunaryss/tarot-ai/internal/config"
	"github.com/lunaryss/tarot-ai/migrations"
	_ "modernc.org/sqlite"
)

// Applies (or rolls back, with "down") the embedded schema migrations
// for the configured storage driver.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	m, err := newMigrate(cfg)
	if err != nil {
		fatalf("Failed to prepare migrations: %v", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		fatalf("Unknown direction %q (want up or down)", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatalf("Migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	fmt.Printf("Migration complete: driver=%s version=%d dirty=%v\n", cfg.Storage.Driver, version, dirty)
}

func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		src, err := iofs.New(migrations.FS, "postgres")
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("pgx", cfg.Storage.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		driver, err := migratepostgres.WithInstance(db, &migratepostgres.Config{})
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", src, "postgres", driver)
	case "sqlite", "":
		src, err := iofs.New(migrations.FS, "sqlite")
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", cfg.Storage.Path))
		if err != nil {
			return nil, err
		}
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", src, "sqlite", driver)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
