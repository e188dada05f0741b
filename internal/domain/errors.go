package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	ErrIllegalTransition      = errors.New("transición no permitida")
	ErrApprovalRequired       = errors.New("la cotización requiere aprobación")
	ErrPhaseAlreadyRecorded   = errors.New("fase ya registrada")
	ErrPhaseOutOfOrder        = errors.New("marca de fase fuera de orden")
	ErrConcurrentModification = errors.New("modificación concurrente; vuelva a leer y reintente")

	ErrTerritoryMismatch = errors.New("el asignado no cubre el territorio ese día")
	ErrSkillGap          = errors.New("el asignado no tiene la habilidad requerida")
	ErrCapacityExceeded  = errors.New("capacidad diaria excedida")
)

// TransitionError detalla una transición rechazada por la tabla.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s %s -> %s", ErrIllegalTransition, e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// ApprovalRequiredError lista los umbrales que dispararon la compuerta.
type ApprovalRequiredError struct {
	Reasons []string
}

func (e *ApprovalRequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrApprovalRequired, strings.Join(e.Reasons, ", "))
}

func (e *ApprovalRequiredError) Unwrap() error { return ErrApprovalRequired }

// PhaseError detalla un rechazo de la sub-secuencia de patio.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Phase)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// FeasibilityError detalla un fallo de factibilidad (territorio, habilidad o capacidad).
type FeasibilityError struct {
	Kind   error
	Detail string
}

func (e *FeasibilityError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *FeasibilityError) Unwrap() error { return e.Kind }

// IsDomainError indica si err pertenece a la taxonomía de dominio (frente a errores de infraestructura).
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrForbidden, ErrConflict,
		ErrIllegalTransition, ErrApprovalRequired, ErrPhaseAlreadyRecorded, ErrPhaseOutOfOrder,
		ErrConcurrentModification, ErrTerritoryMismatch, ErrSkillGap, ErrCapacityExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
