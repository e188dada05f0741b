package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var _ repository.ServiceRequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación de ServiceRequestRepository (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

var requestColumns = []string{
	"id", "project_id", "client_id", "community_id", "property_id",
	"contact_name", "contact_phone", "contact_email", "street", "city", "state", "zip",
	"source", "request_type", "product_type", "linear_feet_estimate", "territory_id",
	"assessment_required", "assessment_scheduled_at", "assessment_completed_at", "assessment_rep_id", "assessment_notes",
	"status", "priority", "converted_to_quote_id", "converted_to_job_id",
	"version", "status_changed_at", "updated_at", "created_at",
}

var (
	insertRequestSQL = insertSQL("service_requests", requestColumns)
	selectRequestSQL = selectSQL("service_requests", requestColumns, "id = $1")
	updateRequestSQL = versionedUpdateSQL("service_requests", requestColumns)
)

func requestArgs(r *entity.ServiceRequest) []any {
	return []any{
		r.ID, r.ProjectID, r.ClientID, r.CommunityID, r.PropertyID,
		r.Contact.Name, r.Contact.Phone, r.Contact.Email,
		r.Address.Street, r.Address.City, r.Address.State, r.Address.Zip,
		r.Source, r.RequestType, r.ProductType, r.LinearFeetEstimate, r.TerritoryID,
		r.Assessment.Required, r.Assessment.ScheduledAt, r.Assessment.CompletedAt,
		r.Assessment.AssignedRepID, r.Assessment.Notes,
		string(r.Status), r.Priority, r.ConvertedToQuoteID, r.ConvertedToJobID,
		r.Version, r.StatusChangedAt, r.UpdatedAt, r.CreatedAt,
	}
}

// Create inserta la solicitud.
func (r *RequestRepo) Create(ctx context.Context, req *entity.ServiceRequest) error {
	if _, err := r.q.Exec(ctx, insertRequestSQL, requestArgs(req)...); err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud; (nil, nil) si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	var req entity.ServiceRequest
	var status string
	err := r.q.QueryRow(ctx, selectRequestSQL, id).Scan(
		&req.ID, &req.ProjectID, &req.ClientID, &req.CommunityID, &req.PropertyID,
		&req.Contact.Name, &req.Contact.Phone, &req.Contact.Email,
		&req.Address.Street, &req.Address.City, &req.Address.State, &req.Address.Zip,
		&req.Source, &req.RequestType, &req.ProductType, &req.LinearFeetEstimate, &req.TerritoryID,
		&req.Assessment.Required, &req.Assessment.ScheduledAt, &req.Assessment.CompletedAt,
		&req.Assessment.AssignedRepID, &req.Assessment.Notes,
		&status, &req.Priority, &req.ConvertedToQuoteID, &req.ConvertedToJobID,
		&req.Version, &req.StatusChangedAt, &req.UpdatedAt, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service request: %w", err)
	}
	req.Status = entity.RequestStatus(status)
	req.Assessment.ScheduledAt = utcPtr(req.Assessment.ScheduledAt)
	req.Assessment.CompletedAt = utcPtr(req.Assessment.CompletedAt)
	req.StatusChangedAt = req.StatusChangedAt.UTC()
	req.UpdatedAt = req.UpdatedAt.UTC()
	req.CreatedAt = req.CreatedAt.UTC()
	return &req, nil
}

// Update reescribe la solicitud si la versión almacenada sigue siendo expectedVersion.
func (r *RequestRepo) Update(ctx context.Context, req *entity.ServiceRequest, expectedVersion int64) error {
	next := *req
	next.Version = expectedVersion + 1
	if err := execVersioned(ctx, r.q, updateRequestSQL, requestArgs(&next), expectedVersion); err != nil {
		return fmt.Errorf("update service request: %w", err)
	}
	req.Version = next.Version
	return nil
}

// CountAssessmentsForRep evaluaciones del vendedor en el día UTC de date; las solicitudes
// pendientes o archivadas no ocupan cupo.
func (r *RequestRepo) CountAssessmentsForRep(ctx context.Context, repID string, date time.Time, excludeID string) (int, error) {
	start, end := dayBounds(date)
	query := `
		SELECT COUNT(*) FROM service_requests
		WHERE assessment_rep_id = $1
		  AND assessment_scheduled_at >= $2 AND assessment_scheduled_at < $3
		  AND id <> $4 AND status <> ALL($5)`
	excluded := []string{string(entity.RequestPending), string(entity.RequestArchived)}
	var n int
	if err := r.q.QueryRow(ctx, query, repID, start, end, excludeID, excluded).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}
