// Package store abre el almacén configurado (PostgreSQL o SQLite) y expone repositorios y transacciones.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/postgres"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/sqlite"
	"github.com/jhoicas/fencepro-workflow/pkg/config"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// Store repositorios y TxRunner sobre una misma conexión.
type Store struct {
	Driver string
	Repos  ports.Repositories
	Tx     ports.TxRunner
	close  func() error
}

// Open conecta según cfg.Driver. Con AutoMigrate aplica el esquema antes de devolver.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.AutoMigrate, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Driver,
			Repos:  sqlite.NewRepositories(db),
			Tx:     sqlite.NewTxRunner(db),
			close:  func() error { return sqlite.Close(db) },
		}, nil
	case "postgres":
		if cfg.AutoMigrate {
			if err := postgres.MigrateUp(cfg, log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Driver,
			Repos:  postgres.NewRepositories(pool),
			Tx:     postgres.NewTxRunner(pool),
			close:  func() error { pool.Close(); return nil },
		}, nil
	default:
		return nil, fmt.Errorf("store: driver no soportado %q", cfg.Driver)
	}
}

// Close libera la conexión.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
