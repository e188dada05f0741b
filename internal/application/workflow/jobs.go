package workflow

import (
	"context"
	"fmt"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// ScheduleJob fija fecha, ventana y duración. Un trabajo en won pasa a scheduled en la misma
// transacción; uno ya programado solo se reprograma. Si el día cambia, la cuadrilla y el
// vendedor ya asignados se verifican de nuevo para el día nuevo.
func (uc *WorkflowUseCase) ScheduleJob(ctx context.Context, actor entity.Actor, jobID string, in dto.ScheduleJobRequest) (*dto.JobResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.ScheduledDate.IsZero() || in.EstimatedHours.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Override && !actor.Privileged() {
		return nil, fmt.Errorf("%w: solo admin o manager pueden forzar una reprogramación", domain.ErrForbidden)
	}
	j, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, j.Version); err != nil {
		return nil, err
	}
	if j.Status != entity.JobWon && j.Status != entity.JobScheduled {
		return nil, fmt.Errorf("%w: el trabajo en %s ya no se puede reprogramar", domain.ErrConflict, j.Status)
	}

	version, from := j.Version, j.Status
	now := uc.now()
	day := startOfDay(in.ScheduledDate)
	moved := j.ScheduledDate == nil || !j.ScheduledDate.Equal(day)
	j.ScheduledDate = &day
	j.TimeWindow = in.TimeWindow
	j.EstimatedHours = in.EstimatedHours

	var checks []*entity.AssignmentCheck
	if moved {
		if checks, err = uc.recheckAssignees(ctx, actor, j, in.Override, now); err != nil {
			return nil, err
		}
	}

	var entries []*entity.StatusHistoryEntry
	if from == entity.JobWon {
		if err := rules.ApplyJobTransition(j, entity.JobScheduled, now, now); err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(entity.EntityJob, j.ID, strPtr(string(from)), string(j.Status), actor, "", now))
	}
	j.UpdatedAt = now

	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Jobs.Update(ctx, j, version); err != nil {
			return err
		}
		for _, c := range checks {
			if err := repos.Checks.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	for _, c := range checks {
		if c.Overridden {
			uc.logOverride(c)
		}
	}
	return toJobResponse(j), nil
}

// YardStatus fecha programada, fase actual y marcas registradas para el sistema de patio.
// YardWindowStart es informativo; el motor no lo exige.
func (uc *WorkflowUseCase) YardStatus(ctx context.Context, jobID string) (*dto.YardStatusResponse, error) {
	j, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.YardStatusResponse{
		JobID:           j.ID,
		Status:          string(j.Status),
		ScheduledDate:   j.ScheduledDate,
		YardWindowStart: rules.YardWindowStart(j.ScheduledDate, uc.cfg.YardLeadDays),
		Phases:          toPhasesResponse(j.Phases),
	}, nil
}

// GetJob devuelve el trabajo.
func (uc *WorkflowUseCase) GetJob(ctx context.Context, id string) (*dto.JobResponse, error) {
	j, err := uc.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return toJobResponse(j), nil
}
