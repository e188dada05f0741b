package workflow

import (
	"fmt"
	"time"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// phaseFields devuelve los punteros a las marcas que escribe la entrada a cada estado.
// La primera marca es la que identifica la fase como registrada.
func phaseFields(p *entity.JobPhases, s entity.JobStatus) []**time.Time {
	switch s {
	case entity.JobReadyForYard:
		return []**time.Time{&p.ReadyForYardAt}
	case entity.JobPicking:
		return []**time.Time{&p.PickingStartedAt}
	case entity.JobStaged:
		// salir de picking hacia adelante cierra picking y registra staging
		return []**time.Time{&p.StagingCompletedAt, &p.PickingCompletedAt}
	case entity.JobLoaded:
		return []**time.Time{&p.LoadedAt}
	case entity.JobInProgress:
		return []**time.Time{&p.WorkStartedAt}
	case entity.JobCompleted:
		return []**time.Time{&p.WorkCompletedAt}
	}
	return nil
}

// PhaseRecorded indica si la fase del estado ya tiene marca. Estados sin fase devuelven false.
func PhaseRecorded(p entity.JobPhases, s entity.JobStatus) bool {
	fields := phaseFields(&p, s)
	return len(fields) > 0 && *fields[0] != nil
}

// ChainIndex posición del estado en la cadena lineal; -1 si no pertenece.
func ChainIndex(s entity.JobStatus) int {
	for i, c := range JobChain {
		if c == s {
			return i
		}
	}
	return -1
}

func isBackward(from, to entity.JobStatus) bool {
	return ChainIndex(to) < ChainIndex(from)
}

// ApplyJobTransition mueve el trabajo y mantiene las marcas de fase.
// at es el momento del evento en patio o campo; now es el reloj del motor.
//
// Una marca ya registrada se reporta antes que la tabla: un escaneo duplicado de la fase
// actual (ready_for_yard -> ready_for_yard) es PhaseAlreadyRecorded, no una transición ilegal.
// Solo la corrección hacia atrás puede entrar a un estado con marca.
func ApplyJobTransition(j *entity.Job, to entity.JobStatus, at, now time.Time) error {
	from := j.Status
	legal := CanTransition(entity.EntityJob, string(from), string(to))

	if PhaseRecorded(j.Phases, to) && !(legal && isBackward(from, to)) {
		return &domain.PhaseError{Phase: string(to), Err: domain.ErrPhaseAlreadyRecorded}
	}
	if !legal {
		return &domain.TransitionError{Entity: string(entity.EntityJob), From: string(from), To: string(to)}
	}

	if isBackward(from, to) {
		// deshacer la fase actual para que el siguiente avance la registre de nuevo
		for _, f := range phaseFields(&j.Phases, from) {
			*f = nil
		}
	} else {
		if to == entity.JobScheduled && j.ScheduledDate == nil {
			return fmt.Errorf("%w: el trabajo no tiene fecha programada", domain.ErrInvalidInput)
		}
		fields := phaseFields(&j.Phases, to)
		if len(fields) > 0 {
			if latest := j.Phases.Latest(); latest != nil && at.Before(*latest) {
				return &domain.PhaseError{Phase: string(to), Err: domain.ErrPhaseOutOfOrder}
			}
			ts := at.UTC()
			for _, f := range fields {
				v := ts
				*f = &v
			}
		}
	}

	j.Status = to
	j.StatusChangedAt = now
	return nil
}

// YardWindowStart fecha desde la cual patio debe empezar a preparar material.
// Solo informativo: el motor no lo exige.
func YardWindowStart(scheduled *time.Time, leadDays int) *time.Time {
	if scheduled == nil {
		return nil
	}
	start := scheduled.AddDate(0, 0, -leadDays)
	return &start
}
