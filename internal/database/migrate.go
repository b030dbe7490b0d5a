// internal/database/migrate.go
package database

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq" // postgres driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies pending schema migrations over a dedicated
// database/sql connection, separate from the gorm pool.
func RunMigrations(cfg config.DatabaseConfig, log *logrus.Logger) error {
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer db.Close()

	return Migrate(db, log)
}

// Migrate runs all pending migrations against db.
func Migrate(db *sql.DB, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	goose.SetBaseFS(migrations)
	goose.SetLogger(log)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}
