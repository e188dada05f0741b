package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// CreateRequest registra una solicitud en pending y su creación en el historial.
func (uc *WorkflowUseCase) CreateRequest(ctx context.Context, actor entity.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.ClientID == "" || in.TerritoryID == "" || in.ProductType == "" || in.LinearFeetEstimate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	switch priority {
	case "":
		priority = entity.PriorityNormal
	case entity.PriorityLow, entity.PriorityNormal, entity.PriorityHigh, entity.PriorityUrgent:
	default:
		return nil, fmt.Errorf("%w: prioridad %q", domain.ErrInvalidInput, priority)
	}

	now := uc.now()
	r := &entity.ServiceRequest{
		ID:          uuid.New().String(),
		ProjectID:   in.ProjectID,
		ClientID:    in.ClientID,
		CommunityID: in.CommunityID,
		PropertyID:  in.PropertyID,
		Contact: entity.ContactSnapshot{
			Name: in.Contact.Name, Phone: in.Contact.Phone, Email: in.Contact.Email,
		},
		Address: entity.AddressSnapshot{
			Street: in.Address.Street, City: in.Address.City, State: in.Address.State, Zip: in.Address.Zip,
		},
		Source:             in.Source,
		RequestType:        in.RequestType,
		ProductType:        in.ProductType,
		LinearFeetEstimate: in.LinearFeetEstimate,
		TerritoryID:        in.TerritoryID,
		Assessment:         entity.Assessment{Required: in.AssessmentRequired, Notes: in.Notes},
		Status:             entity.RequestPending,
		Priority:           priority,
		Version:            1,
		StatusChangedAt:    now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	entry := newEntry(entity.EntityRequest, r.ID, nil, string(r.Status), actor, "", now)
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Requests.Create(ctx, r)
	}, entry); err != nil {
		return nil, err
	}
	uc.logTransition(entry)
	return toRequestResponse(r), nil
}

// GetRequest devuelve la solicitud.
func (uc *WorkflowUseCase) GetRequest(ctx context.Context, id string) (*dto.RequestResponse, error) {
	r, err := uc.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(r), nil
}

// estados desde los que se puede programar o reprogramar la evaluación
var schedulableRequest = map[entity.RequestStatus]bool{
	entity.RequestPending:             true,
	entity.RequestAssessmentScheduled: true,
	entity.RequestAssessmentToday:     true,
	entity.RequestAssessmentOverdue:   true,
}

// CanAssignAssessment verifica territorio, habilidad y cupo diario del vendedor para la evaluación.
// Si date es nil se usa la fecha ya programada en la solicitud.
func (uc *WorkflowUseCase) CanAssignAssessment(ctx context.Context, repID, requestID string, date *time.Time) (*dto.FeasibilityResponse, error) {
	r, err := uc.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if date == nil {
		date = r.Assessment.ScheduledAt
	}
	if date == nil {
		return nil, fmt.Errorf("%w: la solicitud no tiene evaluación programada", domain.ErrInvalidInput)
	}
	rep, err := uc.loadSalesRep(ctx, repID)
	if err != nil {
		return nil, err
	}
	res, err := uc.evaluateAssessment(ctx, uc.repos, rep, r, *date)
	if err != nil {
		return nil, err
	}
	return toFeasibilityResponse(entity.EntityRequest, r.ID, rep.ID, entity.AssigneeProfile, res), nil
}

// ScheduleAssessment asigna vendedor y fecha a la evaluación. Registra siempre la verificación;
// un fallo bloquea salvo override de admin o manager. Desde pending mueve a assessment_scheduled.
func (uc *WorkflowUseCase) ScheduleAssessment(ctx context.Context, actor entity.Actor, requestID string, in dto.ScheduleAssessmentRequest) (*dto.ScheduleAssessmentResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.Override && !actor.Privileged() {
		return nil, fmt.Errorf("%w: solo admin o manager pueden forzar una asignación", domain.ErrForbidden)
	}
	if in.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: fecha de evaluación requerida", domain.ErrInvalidInput)
	}
	r, err := uc.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, r.Version); err != nil {
		return nil, err
	}
	if !schedulableRequest[r.Status] {
		return nil, fmt.Errorf("%w: la solicitud en %s no admite programar evaluación", domain.ErrConflict, r.Status)
	}
	rep, err := uc.loadSalesRep(ctx, in.RepID)
	if err != nil {
		return nil, err
	}
	scheduledAt := in.ScheduledAt.UTC()
	res, err := uc.evaluateAssessment(ctx, uc.repos, rep, r, scheduledAt)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	check := newCheck(entity.EntityRequest, r.ID, rep.ID, entity.AssigneeProfile, res, in.Override, actor, now)
	if !res.OK && !in.Override {
		if err := uc.recordCheck(ctx, check); err != nil {
			return nil, err
		}
		return nil, res.Err
	}

	version := r.Version
	from := r.Status
	r.Assessment.ScheduledAt = &scheduledAt
	r.Assessment.AssignedRepID = rep.ID
	var entries []*entity.StatusHistoryEntry
	if from == entity.RequestPending {
		if err := rules.ApplyRequestTransition(r, entity.RequestAssessmentScheduled, now); err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(entity.EntityRequest, r.ID, strPtr(string(from)), string(r.Status), actor, "", now))
	}
	r.Assessment.Required = true
	r.UpdatedAt = now

	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Requests.Update(ctx, r, version); err != nil {
			return err
		}
		return repos.Checks.Create(ctx, check)
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	if check.Overridden {
		uc.logOverride(check)
	}
	return &dto.ScheduleAssessmentResponse{
		Request:    *toRequestResponse(r),
		Check:      *toFeasibilityResponse(entity.EntityRequest, r.ID, rep.ID, entity.AssigneeProfile, res),
		Overridden: check.Overridden,
	}, nil
}

func (uc *WorkflowUseCase) evaluateAssessment(ctx context.Context, repos ports.Repositories, rep *entity.TeamProfile, r *entity.ServiceRequest, at time.Time) (rules.FeasibilityResult, error) {
	in, err := uc.feasibilityBase(ctx, repos, entity.AssigneeProfile, rep.ID, r.TerritoryID, r.ProductType, at)
	if err != nil {
		return rules.FeasibilityResult{}, err
	}
	day := startOfDay(at)
	count, err := repos.Requests.CountAssessmentsForRep(ctx, rep.ID, day, r.ID)
	if err != nil {
		return rules.FeasibilityResult{}, fmt.Errorf("contar evaluaciones: %w", err)
	}
	in.Capacity = func() error {
		return rules.CheckAssessmentCapacity(rep.MaxDailyAssessments, count)
	}
	return rules.CheckFeasibility(in), nil
}

func (uc *WorkflowUseCase) loadSalesRep(ctx context.Context, id string) (*entity.TeamProfile, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repos.Reference.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer perfil: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !p.IsSalesRep() || !p.Active {
		return nil, fmt.Errorf("%w: el perfil %s no es un vendedor activo", domain.ErrInvalidInput, id)
	}
	return p, nil
}

// startOfDay medianoche UTC del día de t.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
