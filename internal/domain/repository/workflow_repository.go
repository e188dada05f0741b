package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// Convenciones de los puertos de persistencia:
//   - GetByID devuelve (nil, nil) si no existe; la capa de aplicación lo traduce a ErrNotFound.
//   - Update es condicional sobre la versión leída: si ninguna fila coincide devuelve
//     domain.ErrConcurrentModification. En éxito incrementa Version en la entidad.

// ServiceRequestRepository puerto de persistencia para solicitudes.
type ServiceRequestRepository interface {
	Create(ctx context.Context, r *entity.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error)
	Update(ctx context.Context, r *entity.ServiceRequest, expectedVersion int64) error
	// CountAssessmentsForRep cuenta evaluaciones asignadas al vendedor en el día de date,
	// excluyendo la solicitud excludeID (reprogramaciones).
	CountAssessmentsForRep(ctx context.Context, repID string, date time.Time, excludeID string) (int, error)
}

// QuoteRepository puerto de persistencia para cotizaciones.
type QuoteRepository interface {
	Create(ctx context.Context, q *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	Update(ctx context.Context, q *entity.Quote, expectedVersion int64) error
}

// JobRepository puerto de persistencia para trabajos.
type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id string) (*entity.Job, error)
	Update(ctx context.Context, j *entity.Job, expectedVersion int64) error
	// SumLinearFeetForCrew suma los pies lineales de los trabajos de la cuadrilla programados en date,
	// excluyendo excludeID.
	SumLinearFeetForCrew(ctx context.Context, crewID string, date time.Time, excludeID string) (decimal.Decimal, error)
}

// InvoiceRepository puerto de persistencia para facturas.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByJobID(ctx context.Context, jobID string) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error
}

// PaymentRepository abonos de facturas; solo inserción.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
}

// StatusHistoryRepository libro de historial de estados; solo inserción.
type StatusHistoryRepository interface {
	// Append inserta la entrada y asigna Sequence.
	Append(ctx context.Context, e *entity.StatusHistoryEntry) error
	// ListByEntity devuelve las entradas en orden de inserción (Sequence ascendente).
	ListByEntity(ctx context.Context, et entity.EntityType, entityID string) ([]*entity.StatusHistoryEntry, error)
}

// AssignmentCheckRepository resultados registrados de factibilidad.
type AssignmentCheckRepository interface {
	Create(ctx context.Context, c *entity.AssignmentCheck) error
	ListByTarget(ctx context.Context, targetType entity.EntityType, targetID string) ([]*entity.AssignmentCheck, error)
}
