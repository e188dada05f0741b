package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus estado de un trabajo; la cadena lineal es también la secuencia de fases de patio y cuadrilla.
type JobStatus string

const (
	JobWon               JobStatus = "won"
	JobScheduled         JobStatus = "scheduled"
	JobReadyForYard      JobStatus = "ready_for_yard"
	JobPicking           JobStatus = "picking"
	JobStaged            JobStatus = "staged"
	JobLoaded            JobStatus = "loaded"
	JobInProgress        JobStatus = "in_progress"
	JobCompleted         JobStatus = "completed"
	JobRequiresInvoicing JobStatus = "requires_invoicing"
)

// Origen del trabajo.
const (
	JobKindNewSale  = "new_sale" // desde una cotización aprobada
	JobKindWarranty = "warranty" // directo desde una solicitud
)

// JobPhases marcas de tiempo de la sub-secuencia patio/cuadrilla.
type JobPhases struct {
	ReadyForYardAt     *time.Time
	PickingStartedAt   *time.Time
	PickingCompletedAt *time.Time
	StagingCompletedAt *time.Time
	LoadedAt           *time.Time
	WorkStartedAt      *time.Time
	WorkCompletedAt    *time.Time
}

// Latest devuelve la marca más reciente registrada (nil si no hay ninguna).
func (p JobPhases) Latest() *time.Time {
	var latest *time.Time
	for _, ts := range []*time.Time{
		p.ReadyForYardAt, p.PickingStartedAt, p.PickingCompletedAt, p.StagingCompletedAt,
		p.LoadedAt, p.WorkStartedAt, p.WorkCompletedAt,
	} {
		if ts != nil && (latest == nil || ts.After(*latest)) {
			latest = ts
		}
	}
	return latest
}

// JobCompletion artefactos de cierre en campo.
type JobCompletion struct {
	PhotoCount int
	Signature  string
	Notes      string
}

// Job unidad de trabajo de campo programada.
type Job struct {
	ID        string
	QuoteID   string
	RequestID string
	ClientID  string
	Kind      string

	ScheduledDate  *time.Time // solo fecha (medianoche UTC)
	TimeWindow     string
	EstimatedHours decimal.Decimal

	CrewID      string
	RepID       string
	TerritoryID string

	ProductType   string
	LinearFeet    decimal.Decimal
	ContractTotal decimal.Decimal

	Phases     JobPhases
	Completion JobCompletion
	InvoiceID  string

	Status JobStatus

	Version         int64
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
