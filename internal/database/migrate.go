package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"quizdeck/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrate(path string) (*migrate.Migrate, error) {
	// migrate.Close closes the instance it was given, so it gets its own handle.
	db, err := sql.Open(DriverName, DSN(path, 0))
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration to the database file at path.
func Migrate(path string) error {
	return run(path, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// Rollback reverts every applied migration.
func Rollback(path string) error {
	return run(path, "down", func(m *migrate.Migrate) error { return m.Down() })
}

func run(path, direction string, step func(*migrate.Migrate) error) error {
	m, err := newMigrate(path)
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Get().Warn("failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Get().Debug("schema already current", zap.String("direction", direction), zap.String("path", path))
			return nil
		}
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, _ := m.Version()
	logger.Get().Info("migrations applied",
		zap.String("direction", direction),
		zap.String("path", path),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
