package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// Open abre (o crea) la base SQLite embebida en path y aplica el esquema con AutoMigrate.
// Una sola conexión abierta: SQLite serializa las escrituras y así las transacciones no compiten
// por el bloqueo del archivo.
func Open(ctx context.Context, path string, autoMigrate bool, log *logger.Logger) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("sqlite")

	if err := ensureDirectory(path); err != nil {
		return nil, fmt.Errorf("sqlite: crear directorio: %w", err)
	}

	db, err := gorm.Open(gormsqlite.Open(dsn(path)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: obtener conexión: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if autoMigrate {
		if err := Migrate(ctx, db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	log.Info().Str("path", path).Bool("auto_migrate", autoMigrate).Msg("base SQLite abierta")
	return db, nil
}

// Migrate crea o actualiza las tablas del almacén embebido.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("sqlite: migrar: %w", err)
	}
	return nil
}

// Close libera la conexión subyacente.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func ensureDirectory(path string) error {
	candidate := strings.TrimSpace(path)
	if candidate == "" || candidate == ":memory:" {
		return nil
	}
	candidate = strings.TrimPrefix(candidate, "file:")
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}
	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
