package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var (
	_ repository.StatusHistoryRepository   = (*StatusHistoryRepo)(nil)
	_ repository.AssignmentCheckRepository = (*AssignmentCheckRepo)(nil)
)

// StatusHistoryRepo libro append-only; la secuencia es un BIGSERIAL.
type StatusHistoryRepo struct {
	q Querier
}

// NewStatusHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

// Append inserta la entrada y devuelve la secuencia asignada en e.Sequence.
func (r *StatusHistoryRepo) Append(ctx context.Context, e *entity.StatusHistoryEntry) error {
	query := `
		INSERT INTO status_history (id, entity_type, entity_id, from_status, to_status, changed_at, actor_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		e.ID, string(e.EntityType), e.EntityID, e.FromStatus, e.ToStatus, e.ChangedAt, e.ActorID, e.Note,
	).Scan(&e.Sequence)
	if err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

// ListByEntity historial de la entidad por secuencia ascendente.
func (r *StatusHistoryRepo) ListByEntity(ctx context.Context, et entity.EntityType, entityID string) ([]*entity.StatusHistoryEntry, error) {
	query := `
		SELECT sequence, id, entity_type, entity_id, from_status, to_status, changed_at, actor_id, note
		FROM status_history
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY sequence`
	rows, err := r.q.Query(ctx, query, string(et), entityID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var out []*entity.StatusHistoryEntry
	for rows.Next() {
		var e entity.StatusHistoryEntry
		var entityType string
		if err := rows.Scan(&e.Sequence, &e.ID, &entityType, &e.EntityID, &e.FromStatus, &e.ToStatus, &e.ChangedAt, &e.ActorID, &e.Note); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		e.EntityType = entity.EntityType(entityType)
		e.ChangedAt = e.ChangedAt.UTC()
		out = append(out, &e)
	}
	return out, rows.Err()
}

// AssignmentCheckRepo resultados de factibilidad registrados.
type AssignmentCheckRepo struct {
	q Querier
}

// NewAssignmentCheckRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentCheckRepository(q Querier) *AssignmentCheckRepo {
	return &AssignmentCheckRepo{q: q}
}

// Create inserta el resultado.
func (r *AssignmentCheckRepo) Create(ctx context.Context, c *entity.AssignmentCheck) error {
	query := `
		INSERT INTO assignment_checks (id, target_type, target_id, assignee_id, assignee_kind, ok, failure_kind, detail, overridden, actor_id, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, string(c.TargetType), c.TargetID, c.AssigneeID, c.AssigneeKind,
		c.OK, c.FailureKind, c.Detail, c.Overridden, c.ActorID, c.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assignment check: %w", err)
	}
	return nil
}

// ListByTarget verificaciones de la entidad en orden cronológico.
func (r *AssignmentCheckRepo) ListByTarget(ctx context.Context, targetType entity.EntityType, targetID string) ([]*entity.AssignmentCheck, error) {
	query := `
		SELECT id, target_type, target_id, assignee_id, assignee_kind, ok, failure_kind, detail, overridden, actor_id, checked_at
		FROM assignment_checks
		WHERE target_type = $1 AND target_id = $2
		ORDER BY checked_at, seq`
	rows, err := r.q.Query(ctx, query, string(targetType), targetID)
	if err != nil {
		return nil, fmt.Errorf("list assignment checks: %w", err)
	}
	defer rows.Close()

	var out []*entity.AssignmentCheck
	for rows.Next() {
		var c entity.AssignmentCheck
		var tt string
		if err := rows.Scan(&c.ID, &tt, &c.TargetID, &c.AssigneeID, &c.AssigneeKind, &c.OK, &c.FailureKind, &c.Detail, &c.Overridden, &c.ActorID, &c.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan assignment check: %w", err)
		}
		c.TargetType = entity.EntityType(tt)
		c.CheckedAt = c.CheckedAt.UTC()
		out = append(out, &c)
	}
	return out, rows.Err()
}
