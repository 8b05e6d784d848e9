package infra

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// Migrator applies the versioned SQL files under migrations/.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator reuses an open *sql.DB (the one behind GORM) so no second
// connection string is needed.
func NewMigrator(db *sql.DB, path string) (*Migrator, error) {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate: driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate: source %s: %w", path, err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration. No pending migrations is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("migrate: esquema al dia")
			return nil
		}
		return fmt.Errorf("migrate: up: %w", err)
	}
	v, dirty, _ := mg.Version()
	log.Info().Uint("version", v).Bool("dirty", dirty).Msg("migrate: migraciones aplicadas")
	return nil
}

// Down rolls back every migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: down: %w", err)
	}
	log.Warn().Msg("migrate: todas las migraciones revertidas")
	return nil
}

// Steps moves n migrations forward (n > 0) or backward (n < 0).
func (mg *Migrator) Steps(n int) error {
	if err := mg.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: steps %d: %w", n, err)
	}
	v, dirty, _ := mg.Version()
	log.Info().Int("steps", n).Uint("version", v).Bool("dirty", dirty).Msg("migrate: pasos aplicados")
	return nil
}

// Version returns 0 when no migration has run yet.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Force clears a dirty state by pinning the version. Use after a manual fix.
func (mg *Migrator) Force(version int) error {
	log.Warn().Int("version", version).Msg("migrate: forzando version")
	return mg.m.Force(version)
}

// Close releases the source. The *sql.DB stays open; it belongs to the caller.
func (mg *Migrator) Close() error {
	srcErr, _ := mg.m.Close()
	return srcErr
}
