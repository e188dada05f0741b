package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// Códigos de fallo de factibilidad expuestos a los adaptadores.
const (
	FailureTerritoryMismatch = "TERRITORY_MISMATCH"
	FailureSkillGap          = "SKILL_GAP"
	FailureCapacityExceeded  = "CAPACITY_EXCEEDED"
)

// MinimumProficiency nivel mínimo exigido para cualquier tipo de proyecto.
const MinimumProficiency = entity.ProficiencyBasic

// FeasibilityInput datos ya resueltos por la capa de aplicación para un asignado y un destino.
type FeasibilityInput struct {
	AssigneeID    string
	TerritoryID   string
	Date          time.Time
	Coverage      []entity.TerritoryCoverage // filas del asignado
	ProjectTypeID string                     // "" si el producto no tiene tipo de proyecto
	Skills        []entity.Skill             // habilidades del asignado
	Capacity      CapacityCheck              // nil = sin verificación de capacidad
}

// CapacityCheck verificación de capacidad diaria ya parametrizada.
type CapacityCheck func() error

// FeasibilityResult resultado de CanAssign; Err envuelve el centinela del fallo.
type FeasibilityResult struct {
	OK     bool
	Reason string
	Detail string
	Err    error
}

// CheckFeasibility ejecuta territorio, habilidad y capacidad en ese orden y se detiene en el primer fallo.
func CheckFeasibility(in FeasibilityInput) FeasibilityResult {
	checks := []func() error{
		func() error { return CheckTerritory(in.Coverage, in.TerritoryID, in.Date.Weekday()) },
		func() error { return CheckSkill(in.Skills, in.ProjectTypeID) },
	}
	if in.Capacity != nil {
		checks = append(checks, in.Capacity)
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return FeasibilityResult{OK: false, Reason: FailureCode(err), Detail: detailOf(err), Err: err}
		}
	}
	return FeasibilityResult{OK: true}
}

// CheckTerritory exige una fila de cobertura del territorio que incluya el día de la semana.
func CheckTerritory(coverage []entity.TerritoryCoverage, territoryID string, day time.Weekday) error {
	for _, c := range coverage {
		if c.TerritoryID == territoryID && c.Covers(day) {
			return nil
		}
	}
	return &domain.FeasibilityError{
		Kind:   domain.ErrTerritoryMismatch,
		Detail: fmt.Sprintf("territorio %s no cubierto el %s", territoryID, day),
	}
}

// CheckSkill exige una habilidad registrada para el tipo de proyecto en nivel basic o superior.
func CheckSkill(skills []entity.Skill, projectTypeID string) error {
	if projectTypeID != "" {
		for _, s := range skills {
			if s.ProjectTypeID == projectTypeID && s.Proficiency.AtLeast(MinimumProficiency) {
				return nil
			}
		}
	}
	detail := "sin tipo de proyecto para el producto"
	if projectTypeID != "" {
		detail = fmt.Sprintf("sin habilidad >= %s para el tipo de proyecto %s", MinimumProficiency, projectTypeID)
	}
	return &domain.FeasibilityError{Kind: domain.ErrSkillGap, Detail: detail}
}

// CheckCrewCapacity falla si los pies lineales ya asignados más los del trabajo superan el máximo diario.
func CheckCrewCapacity(maxDailyLF, assignedLF, jobLF decimal.Decimal) error {
	total := assignedLF.Add(jobLF)
	if total.GreaterThan(maxDailyLF) {
		return &domain.FeasibilityError{
			Kind:   domain.ErrCapacityExceeded,
			Detail: fmt.Sprintf("%s LF asignados + %s LF > máximo %s LF", assignedLF, jobLF, maxDailyLF),
		}
	}
	return nil
}

// CheckAssessmentCapacity falla si el vendedor ya tiene el máximo de evaluaciones del día.
func CheckAssessmentCapacity(maxDaily, scheduled int) error {
	if scheduled >= maxDaily {
		return &domain.FeasibilityError{
			Kind:   domain.ErrCapacityExceeded,
			Detail: fmt.Sprintf("%d evaluaciones programadas, máximo %d", scheduled, maxDaily),
		}
	}
	return nil
}

// FailureCode traduce un error de factibilidad a su código estable.
func FailureCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrTerritoryMismatch):
		return FailureTerritoryMismatch
	case errors.Is(err, domain.ErrSkillGap):
		return FailureSkillGap
	case errors.Is(err, domain.ErrCapacityExceeded):
		return FailureCapacityExceeded
	}
	return ""
}

func detailOf(err error) string {
	var fe *domain.FeasibilityError
	if errors.As(err, &fe) {
		return fe.Detail
	}
	return err.Error()
}
