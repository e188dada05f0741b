package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repositorios funcionan con cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// utcPtr normaliza a UTC las marcas opcionales leídas de TIMESTAMPTZ.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// dateOnly fecha de calendario (medianoche UTC) para columnas DATE.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	start, _ := dayBounds(*t)
	return &start
}

// Las tablas versionadas listan sus columnas con id primero y created_at último:
// el UPDATE condicional reescribe todo lo intermedio y usa el último parámetro como versión esperada.

func insertSQL(table string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
}

func selectSQL(table string, cols []string, where string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(cols, ", "), table, where)
}

func versionedUpdateSQL(table string, cols []string) string {
	set := make([]string, 0, len(cols)-2)
	for i := 1; i < len(cols)-1; i++ {
		set = append(set, fmt.Sprintf("%s = $%d", cols[i], i+1))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND version = $%d", table, strings.Join(set, ", "), len(cols))
}

// execVersioned ejecuta el UPDATE condicional; ninguna fila afectada significa que otro escritor ganó.
// args son los valores de la fila en el orden de cols (created_at incluido, se descarta).
func execVersioned(ctx context.Context, q Querier, sql string, args []any, expectedVersion int64) error {
	args = append(args[:len(args)-1:len(args)-1], expectedVersion)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}
