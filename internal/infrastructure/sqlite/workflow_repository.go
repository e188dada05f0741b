package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var (
	_ repository.ServiceRequestRepository  = (*RequestRepo)(nil)
	_ repository.QuoteRepository           = (*QuoteRepo)(nil)
	_ repository.JobRepository             = (*JobRepo)(nil)
	_ repository.InvoiceRepository         = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository         = (*PaymentRepo)(nil)
	_ repository.StatusHistoryRepository   = (*HistoryRepo)(nil)
	_ repository.AssignmentCheckRepository = (*CheckRepo)(nil)
)

// conditionalUpdate reescribe la fila solo si la versión sigue siendo la leída.
// Ninguna fila afectada significa que otro escritor ganó.
func conditionalUpdate(ctx context.Context, db *gorm.DB, model any, id string, expectedVersion int64, row any) error {
	res := db.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func firstOrNil[T any](ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// --- Solicitudes ---

// RequestRepo solicitudes de servicio en SQLite.
type RequestRepo struct{ db *gorm.DB }

func NewRequestRepo(db *gorm.DB) *RequestRepo { return &RequestRepo{db: db} }

func (r *RequestRepo) Create(ctx context.Context, req *entity.ServiceRequest) error {
	if err := r.db.WithContext(ctx).Create(toRequestRow(req)).Error; err != nil {
		return fmt.Errorf("sqlite: crear solicitud: %w", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	row, err := firstOrNil[requestRow](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: leer solicitud: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r *RequestRepo) Update(ctx context.Context, req *entity.ServiceRequest, expectedVersion int64) error {
	row := toRequestRow(req)
	row.Version = expectedVersion + 1
	if err := conditionalUpdate(ctx, r.db, &requestRow{}, req.ID, expectedVersion, row); err != nil {
		return err
	}
	req.Version = row.Version
	return nil
}

// CountAssessmentsForRep una solicitud pendiente o archivada no ocupa cupo del vendedor.
func (r *RequestRepo) CountAssessmentsForRep(ctx context.Context, repID string, date time.Time, excludeID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&requestRow{}).
		Where("assessment_rep_id = ? AND assessment_date = ? AND id <> ? AND status NOT IN ?",
			repID, fmtDate(date), excludeID, []string{string(entity.RequestPending), string(entity.RequestArchived)}).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("sqlite: contar evaluaciones: %w", err)
	}
	return int(n), nil
}

// --- Cotizaciones ---

// QuoteRepo cotizaciones en SQLite.
type QuoteRepo struct{ db *gorm.DB }

func NewQuoteRepo(db *gorm.DB) *QuoteRepo { return &QuoteRepo{db: db} }

func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	if err := r.db.WithContext(ctx).Create(toQuoteRow(q)).Error; err != nil {
		return fmt.Errorf("sqlite: crear cotización: %w", err)
	}
	return nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	row, err := firstOrNil[quoteRow](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: leer cotización: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote, expectedVersion int64) error {
	row := toQuoteRow(q)
	row.Version = expectedVersion + 1
	if err := conditionalUpdate(ctx, r.db, &quoteRow{}, q.ID, expectedVersion, row); err != nil {
		return err
	}
	q.Version = row.Version
	return nil
}

// --- Trabajos ---

// JobRepo trabajos en SQLite.
type JobRepo struct{ db *gorm.DB }

func NewJobRepo(db *gorm.DB) *JobRepo { return &JobRepo{db: db} }

func (r *JobRepo) Create(ctx context.Context, j *entity.Job) error {
	if err := r.db.WithContext(ctx).Create(toJobRow(j)).Error; err != nil {
		return fmt.Errorf("sqlite: crear trabajo: %w", err)
	}
	return nil
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	row, err := firstOrNil[jobRow](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: leer trabajo: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r *JobRepo) Update(ctx context.Context, j *entity.Job, expectedVersion int64) error {
	row := toJobRow(j)
	row.Version = expectedVersion + 1
	if err := conditionalUpdate(ctx, r.db, &jobRow{}, j.ID, expectedVersion, row); err != nil {
		return err
	}
	j.Version = row.Version
	return nil
}

// SumLinearFeetForCrew suma en Go: la columna es texto decimal y SUM de SQLite la pasaría a float.
func (r *JobRepo) SumLinearFeetForCrew(ctx context.Context, crewID string, date time.Time, excludeID string) (decimal.Decimal, error) {
	var values []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&jobRow{}).
		Where("crew_id = ? AND scheduled_date = ? AND id <> ?", crewID, fmtDate(date), excludeID).
		Pluck("linear_feet", &values).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sqlite: sumar pies lineales: %w", err)
	}
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total, nil
}

// --- Facturas ---

// InvoiceRepo facturas en SQLite.
type InvoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepo(db *gorm.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if err := r.db.WithContext(ctx).Create(toInvoiceRow(inv)).Error; err != nil {
		return fmt.Errorf("sqlite: crear factura: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row, err := firstOrNil[invoiceRow](ctx, r.db, "id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: leer factura: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r *InvoiceRepo) GetByJobID(ctx context.Context, jobID string) (*entity.Invoice, error) {
	row, err := firstOrNil[invoiceRow](ctx, r.db, "job_id = ?", jobID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: leer factura por trabajo: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error {
	row := toInvoiceRow(inv)
	row.Version = expectedVersion + 1
	if err := conditionalUpdate(ctx, r.db, &invoiceRow{}, inv.ID, expectedVersion, row); err != nil {
		return err
	}
	inv.Version = row.Version
	return nil
}

// --- Abonos ---

// PaymentRepo abonos en SQLite.
type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if err := r.db.WithContext(ctx).Create(toPaymentRow(p)).Error; err != nil {
		return fmt.Errorf("sqlite: crear abono: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	var rows []paymentRow
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).
		Order("received_at ASC").Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: listar abonos: %w", err)
	}
	out := make([]*entity.Payment, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- Historial ---

// HistoryRepo libro de historial de estados en SQLite; la secuencia es el rowid autoincremental.
type HistoryRepo struct{ db *gorm.DB }

func NewHistoryRepo(db *gorm.DB) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) Append(ctx context.Context, e *entity.StatusHistoryEntry) error {
	row := &historyRow{
		ID:         e.ID,
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ChangedAt:  fmtTime(e.ChangedAt),
		ActorID:    e.ActorID,
		Note:       e.Note,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("sqlite: registrar historial: %w", err)
	}
	e.Sequence = row.Sequence
	return nil
}

func (r *HistoryRepo) ListByEntity(ctx context.Context, et entity.EntityType, entityID string) ([]*entity.StatusHistoryEntry, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).Where("entity_type = ? AND entity_id = ?", string(et), entityID).
		Order("sequence ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: listar historial: %w", err)
	}
	out := make([]*entity.StatusHistoryEntry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- Verificaciones de asignación ---

// CheckRepo resultados de factibilidad en SQLite.
type CheckRepo struct{ db *gorm.DB }

func NewCheckRepo(db *gorm.DB) *CheckRepo { return &CheckRepo{db: db} }

func (r *CheckRepo) Create(ctx context.Context, c *entity.AssignmentCheck) error {
	row := &assignmentCheckRow{
		ID:           c.ID,
		TargetType:   string(c.TargetType),
		TargetID:     c.TargetID,
		AssigneeID:   c.AssigneeID,
		AssigneeKind: c.AssigneeKind,
		OK:           c.OK,
		FailureKind:  c.FailureKind,
		Detail:       c.Detail,
		Overridden:   c.Overridden,
		ActorID:      c.ActorID,
		CheckedAt:    fmtTime(c.CheckedAt),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("sqlite: registrar verificación: %w", err)
	}
	return nil
}

func (r *CheckRepo) ListByTarget(ctx context.Context, targetType entity.EntityType, targetID string) ([]*entity.AssignmentCheck, error) {
	var rows []assignmentCheckRow
	err := r.db.WithContext(ctx).Where("target_type = ? AND target_id = ?", string(targetType), targetID).
		Order("checked_at ASC").Order("rowid ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: listar verificaciones: %w", err)
	}
	out := make([]*entity.AssignmentCheck, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
