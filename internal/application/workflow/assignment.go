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

// assignee asignado resuelto: una cuadrilla o un perfil del equipo.
type assignee struct {
	kind    string
	crew    *entity.Crew
	profile *entity.TeamProfile
}

func (a assignee) id() string {
	if a.crew != nil {
		return a.crew.ID
	}
	return a.profile.ID
}

// estados en los que el trabajo todavía admite cambiar cuadrilla o vendedor
var assignableJob = map[entity.JobStatus]bool{
	entity.JobWon:          true,
	entity.JobScheduled:    true,
	entity.JobReadyForYard: true,
	entity.JobPicking:      true,
	entity.JobStaged:       true,
	entity.JobLoaded:       true,
}

func (uc *WorkflowUseCase) resolveAssignee(ctx context.Context, id string) (assignee, error) {
	if id == "" {
		return assignee{}, domain.ErrInvalidInput
	}
	crew, err := uc.repos.Reference.GetCrew(ctx, id)
	if err != nil {
		return assignee{}, fmt.Errorf("leer cuadrilla: %w", err)
	}
	if crew != nil {
		if !crew.Active {
			return assignee{}, fmt.Errorf("%w: cuadrilla %s inactiva", domain.ErrInvalidInput, id)
		}
		return assignee{kind: entity.AssigneeCrew, crew: crew}, nil
	}
	p, err := uc.repos.Reference.GetProfile(ctx, id)
	if err != nil {
		return assignee{}, fmt.Errorf("leer perfil: %w", err)
	}
	if p == nil {
		return assignee{}, domain.ErrNotFound
	}
	if !p.Active {
		return assignee{}, fmt.Errorf("%w: perfil %s inactivo", domain.ErrInvalidInput, id)
	}
	return assignee{kind: entity.AssigneeProfile, profile: p}, nil
}

// feasibilityBase resuelve cobertura, tipo de proyecto y habilidades del asignado.
func (uc *WorkflowUseCase) feasibilityBase(ctx context.Context, repos ports.Repositories, kind, assigneeID, territoryID, productType string, at time.Time) (rules.FeasibilityInput, error) {
	coverage, err := repos.Reference.ListCoverage(ctx, kind, assigneeID)
	if err != nil {
		return rules.FeasibilityInput{}, fmt.Errorf("leer cobertura: %w", err)
	}
	skills, err := repos.Reference.ListSkills(ctx, kind, assigneeID)
	if err != nil {
		return rules.FeasibilityInput{}, fmt.Errorf("leer habilidades: %w", err)
	}
	pt, err := repos.Reference.GetProjectTypeByProduct(ctx, productType)
	if err != nil {
		return rules.FeasibilityInput{}, fmt.Errorf("leer tipo de proyecto: %w", err)
	}
	ptID := ""
	if pt != nil {
		ptID = pt.ID
	}
	return rules.FeasibilityInput{
		AssigneeID:    assigneeID,
		TerritoryID:   territoryID,
		Date:          at,
		Coverage:      coverage,
		ProjectTypeID: ptID,
		Skills:        skills,
	}, nil
}

// evaluateJob verifica factibilidad del asignado para el trabajo en su fecha programada.
// La capacidad solo aplica a cuadrillas (pies lineales del día).
func (uc *WorkflowUseCase) evaluateJob(ctx context.Context, j *entity.Job, a assignee) (rules.FeasibilityResult, error) {
	if j.ScheduledDate == nil {
		return rules.FeasibilityResult{}, fmt.Errorf("%w: el trabajo no tiene fecha programada", domain.ErrInvalidInput)
	}
	in, err := uc.feasibilityBase(ctx, uc.repos, a.kind, a.id(), j.TerritoryID, j.ProductType, *j.ScheduledDate)
	if err != nil {
		return rules.FeasibilityResult{}, err
	}
	if a.crew != nil {
		assigned, err := uc.repos.Jobs.SumLinearFeetForCrew(ctx, a.crew.ID, startOfDay(*j.ScheduledDate), j.ID)
		if err != nil {
			return rules.FeasibilityResult{}, fmt.Errorf("sumar pies lineales: %w", err)
		}
		maxLF := a.crew.MaxDailyLF
		in.Capacity = func() error {
			return rules.CheckCrewCapacity(maxLF, assigned, j.LinearFeet)
		}
	}
	return rules.CheckFeasibility(in), nil
}

// CanAssign verificación de factibilidad sin efectos: no asigna ni registra.
func (uc *WorkflowUseCase) CanAssign(ctx context.Context, assigneeID, jobID string) (*dto.FeasibilityResponse, error) {
	j, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	a, err := uc.resolveAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	res, err := uc.evaluateJob(ctx, j, a)
	if err != nil {
		return nil, err
	}
	return toFeasibilityResponse(entity.EntityJob, j.ID, a.id(), a.kind, res), nil
}

// AssignCrew asigna la cuadrilla al trabajo por la vía estándar.
func (uc *WorkflowUseCase) AssignCrew(ctx context.Context, actor entity.Actor, jobID string, in dto.AssignRequest) (*dto.AssignmentResponse, error) {
	return uc.assign(ctx, actor, jobID, in, entity.AssigneeCrew)
}

// AssignRep asigna el vendedor responsable del trabajo por la vía estándar.
func (uc *WorkflowUseCase) AssignRep(ctx context.Context, actor entity.Actor, jobID string, in dto.AssignRequest) (*dto.AssignmentResponse, error) {
	return uc.assign(ctx, actor, jobID, in, entity.AssigneeProfile)
}

func (uc *WorkflowUseCase) assign(ctx context.Context, actor entity.Actor, jobID string, in dto.AssignRequest, kind string) (*dto.AssignmentResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.Override && !actor.Privileged() {
		return nil, fmt.Errorf("%w: solo admin o manager pueden forzar una asignación", domain.ErrForbidden)
	}
	j, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, j.Version); err != nil {
		return nil, err
	}
	if !assignableJob[j.Status] {
		return nil, fmt.Errorf("%w: el trabajo en %s ya no admite asignaciones", domain.ErrConflict, j.Status)
	}
	a, err := uc.resolveAssignee(ctx, in.AssigneeID)
	if err != nil {
		return nil, err
	}
	if a.kind != kind {
		return nil, fmt.Errorf("%w: %s no es de tipo %s", domain.ErrInvalidInput, in.AssigneeID, kind)
	}
	if a.profile != nil && !a.profile.IsSalesRep() {
		return nil, fmt.Errorf("%w: el perfil %s no es vendedor", domain.ErrInvalidInput, in.AssigneeID)
	}
	res, err := uc.evaluateJob(ctx, j, a)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	check := newCheck(entity.EntityJob, j.ID, a.id(), a.kind, res, in.Override, actor, now)
	if !res.OK && !in.Override {
		if err := uc.recordCheck(ctx, check); err != nil {
			return nil, err
		}
		return nil, res.Err
	}

	version := j.Version
	if a.crew != nil {
		j.CrewID = a.crew.ID
	} else {
		j.RepID = a.profile.ID
	}
	j.UpdatedAt = now
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Jobs.Update(ctx, j, version); err != nil {
			return err
		}
		return repos.Checks.Create(ctx, check)
	}); err != nil {
		return nil, err
	}
	if check.Overridden {
		uc.logOverride(check)
	}
	uc.log.Info().Str("job", j.ID).Str("assignee", a.id()).Str("kind", a.kind).Str("actor", actor.ID).Msg("asignación aplicada")
	return &dto.AssignmentResponse{
		Check:      *toFeasibilityResponse(entity.EntityJob, j.ID, a.id(), a.kind, res),
		Overridden: check.Overridden,
		Version:    j.Version,
	}, nil
}

// recheckAssignees verifica de nuevo cuadrilla y vendedor del trabajo en su fecha actual.
// Sin override, un fallo queda registrado y bloquea el cambio; si todo pasa, devuelve las
// verificaciones para guardarlas junto con el trabajo.
func (uc *WorkflowUseCase) recheckAssignees(ctx context.Context, actor entity.Actor, j *entity.Job, override bool, now time.Time) ([]*entity.AssignmentCheck, error) {
	var (
		checks []*entity.AssignmentCheck
		failed []*entity.AssignmentCheck
		first  error
	)
	for _, id := range []string{j.CrewID, j.RepID} {
		if id == "" {
			continue
		}
		a, err := uc.resolveAssignee(ctx, id)
		if err != nil {
			return nil, err
		}
		res, err := uc.evaluateJob(ctx, j, a)
		if err != nil {
			return nil, err
		}
		check := newCheck(entity.EntityJob, j.ID, a.id(), a.kind, res, override, actor, now)
		checks = append(checks, check)
		if !res.OK && !override {
			failed = append(failed, check)
			if first == nil {
				first = res.Err
			}
		}
	}
	if first == nil {
		return checks, nil
	}
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		for _, c := range failed {
			if err := repos.Checks.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return nil, first
}

func newCheck(targetType entity.EntityType, targetID, assigneeID, kind string, res rules.FeasibilityResult, override bool, actor entity.Actor, at time.Time) *entity.AssignmentCheck {
	return &entity.AssignmentCheck{
		ID:           uuid.New().String(),
		TargetType:   targetType,
		TargetID:     targetID,
		AssigneeID:   assigneeID,
		AssigneeKind: kind,
		OK:           res.OK,
		FailureKind:  res.Reason,
		Detail:       res.Detail,
		Overridden:   !res.OK && override,
		ActorID:      actor.ID,
		CheckedAt:    at,
	}
}

// recordCheck guarda una verificación fallida que bloqueó la asignación.
func (uc *WorkflowUseCase) recordCheck(ctx context.Context, check *entity.AssignmentCheck) error {
	return uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Checks.Create(ctx, check)
	})
}

func (uc *WorkflowUseCase) logOverride(check *entity.AssignmentCheck) {
	uc.log.Warn().
		Str("target", string(check.TargetType)).
		Str("id", check.TargetID).
		Str("assignee", check.AssigneeID).
		Str("failure", check.FailureKind).
		Str("actor", check.ActorID).
		Msg("asignación forzada pese a fallo de factibilidad")
}
