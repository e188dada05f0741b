package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/fencepro-workflow/pkg/config"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrator(cfg config.DBConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones embebidas: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("iniciar migrador: %w", err)
	}
	return m, nil
}

// MigrateUp aplica las migraciones pendientes. Sin cambios no es error.
func MigrateUp(cfg config.DBConfig, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("esquema al día")
			return nil
		}
		return fmt.Errorf("migrar: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// MigrateDown revierte steps migraciones (todas si steps <= 0).
func MigrateDown(cfg config.DBConfig, steps int, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("revertir migraciones: %w", err)
	}
	log.Info().Int("steps", steps).Msg("migraciones revertidas")
	return nil
}

// MigrationVersion versión aplicada y si quedó a medias.
func MigrationVersion(cfg config.DBConfig) (uint, bool, error) {
	m, err := newMigrator(cfg)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
