package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de JobRepository (usable con pool o tx).
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

var jobColumns = []string{
	"id", "quote_id", "request_id", "client_id", "kind",
	"scheduled_date", "time_window", "estimated_hours",
	"crew_id", "rep_id", "territory_id", "product_type", "linear_feet", "contract_total",
	"ready_for_yard_at", "picking_started_at", "picking_completed_at", "staging_completed_at",
	"loaded_at", "work_started_at", "work_completed_at",
	"completion_photo_count", "customer_signature", "completion_notes", "invoice_id", "status",
	"version", "status_changed_at", "updated_at", "created_at",
}

var (
	insertJobSQL = insertSQL("jobs", jobColumns)
	selectJobSQL = selectSQL("jobs", jobColumns, "id = $1")
	updateJobSQL = versionedUpdateSQL("jobs", jobColumns)
)

func jobArgs(j *entity.Job) []any {
	p := j.Phases
	return []any{
		j.ID, j.QuoteID, j.RequestID, j.ClientID, j.Kind,
		dateOnly(j.ScheduledDate), j.TimeWindow, j.EstimatedHours,
		j.CrewID, j.RepID, j.TerritoryID, j.ProductType, j.LinearFeet, j.ContractTotal,
		p.ReadyForYardAt, p.PickingStartedAt, p.PickingCompletedAt, p.StagingCompletedAt,
		p.LoadedAt, p.WorkStartedAt, p.WorkCompletedAt,
		j.Completion.PhotoCount, j.Completion.Signature, j.Completion.Notes, j.InvoiceID, string(j.Status),
		j.Version, j.StatusChangedAt, j.UpdatedAt, j.CreatedAt,
	}
}

// Create inserta el trabajo.
func (r *JobRepo) Create(ctx context.Context, j *entity.Job) error {
	if _, err := r.q.Exec(ctx, insertJobSQL, jobArgs(j)...); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID obtiene el trabajo; (nil, nil) si no existe.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	var j entity.Job
	var status string
	p := &j.Phases
	err := r.q.QueryRow(ctx, selectJobSQL, id).Scan(
		&j.ID, &j.QuoteID, &j.RequestID, &j.ClientID, &j.Kind,
		&j.ScheduledDate, &j.TimeWindow, &j.EstimatedHours,
		&j.CrewID, &j.RepID, &j.TerritoryID, &j.ProductType, &j.LinearFeet, &j.ContractTotal,
		&p.ReadyForYardAt, &p.PickingStartedAt, &p.PickingCompletedAt, &p.StagingCompletedAt,
		&p.LoadedAt, &p.WorkStartedAt, &p.WorkCompletedAt,
		&j.Completion.PhotoCount, &j.Completion.Signature, &j.Completion.Notes, &j.InvoiceID, &status,
		&j.Version, &j.StatusChangedAt, &j.UpdatedAt, &j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	j.Status = entity.JobStatus(status)
	j.ScheduledDate = dateOnly(j.ScheduledDate)
	for _, ts := range []**time.Time{
		&p.ReadyForYardAt, &p.PickingStartedAt, &p.PickingCompletedAt, &p.StagingCompletedAt,
		&p.LoadedAt, &p.WorkStartedAt, &p.WorkCompletedAt,
	} {
		*ts = utcPtr(*ts)
	}
	j.StatusChangedAt = j.StatusChangedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()
	j.CreatedAt = j.CreatedAt.UTC()
	return &j, nil
}

// Update reescribe el trabajo si la versión almacenada sigue siendo expectedVersion.
func (r *JobRepo) Update(ctx context.Context, j *entity.Job, expectedVersion int64) error {
	next := *j
	next.Version = expectedVersion + 1
	if err := execVersioned(ctx, r.q, updateJobSQL, jobArgs(&next), expectedVersion); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	j.Version = next.Version
	return nil
}

// SumLinearFeetForCrew suma en NUMERIC los pies lineales de la cuadrilla ese día.
func (r *JobRepo) SumLinearFeetForCrew(ctx context.Context, crewID string, date time.Time, excludeID string) (decimal.Decimal, error) {
	day, _ := dayBounds(date)
	query := `
		SELECT COALESCE(SUM(linear_feet), 0) FROM jobs
		WHERE crew_id = $1 AND scheduled_date = $2 AND id <> $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, crewID, day, excludeID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum crew linear feet: %w", err)
	}
	return total, nil
}
