package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus estado de una solicitud de servicio.
type RequestStatus string

const (
	RequestPending             RequestStatus = "pending"
	RequestAssessmentScheduled RequestStatus = "assessment_scheduled"
	RequestAssessmentToday     RequestStatus = "assessment_today"
	RequestAssessmentOverdue   RequestStatus = "assessment_overdue"
	RequestAssessmentCompleted RequestStatus = "assessment_completed"
	RequestConverted           RequestStatus = "converted"
	RequestArchived            RequestStatus = "archived"
)

// Prioridades de una solicitud.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ContactSnapshot datos de contacto copiados al crear la solicitud.
type ContactSnapshot struct {
	Name  string
	Phone string
	Email string
}

// AddressSnapshot dirección copiada al crear la solicitud.
type AddressSnapshot struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Assessment sub-registro de la visita de evaluación en sitio.
type Assessment struct {
	Required      bool
	ScheduledAt   *time.Time
	CompletedAt   *time.Time
	AssignedRepID string
	Notes         string
}

// ServiceRequest demanda entrante de un cliente, antes de cotizar.
type ServiceRequest struct {
	ID          string
	ProjectID   string
	ClientID    string
	CommunityID string
	PropertyID  string
	Contact     ContactSnapshot
	Address     AddressSnapshot

	Source             string
	RequestType        string
	ProductType        string
	LinearFeetEstimate decimal.Decimal
	TerritoryID        string

	Assessment Assessment

	Status             RequestStatus
	Priority           string
	ConvertedToQuoteID string
	ConvertedToJobID   string

	Version         int64
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasConversionPointer indica si la solicitud ya apunta a su cotización o trabajo.
func (r *ServiceRequest) HasConversionPointer() bool {
	return r.ConvertedToQuoteID != "" || r.ConvertedToJobID != ""
}
