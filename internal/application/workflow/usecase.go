// Package workflow orquesta el motor de campo: carga entidades, aplica las reglas de
// internal/domain/workflow y persiste cambio de estado e historial en una sola transacción.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// Config políticas configurables del motor.
type Config struct {
	Approval       rules.ApprovalPolicy
	YardLeadDays   int
	InvoiceDueDays int
}

// DefaultConfig umbrales por defecto, dos días de patio y 30 días de plazo de pago.
func DefaultConfig() Config {
	return Config{
		Approval:       rules.DefaultApprovalPolicy(),
		YardLeadDays:   2,
		InvoiceDueDays: 30,
	}
}

// WorkflowUseCase casos de uso del motor de transiciones.
type WorkflowUseCase struct {
	repos     ports.Repositories
	tx        ports.TxRunner
	clock     ports.Clock
	publisher ports.TransitionPublisher
	cfg       Config
	log       *logger.Logger
}

// NewWorkflowUseCase construye el caso de uso. repos son los repositorios de lectura fuera de tx.
// publisher y log pueden ser nil.
func NewWorkflowUseCase(
	repos ports.Repositories,
	tx ports.TxRunner,
	clock ports.Clock,
	publisher ports.TransitionPublisher,
	cfg Config,
	log *logger.Logger,
) *WorkflowUseCase {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowUseCase{
		repos:     repos,
		tx:        tx,
		clock:     clock,
		publisher: publisher,
		cfg:       cfg,
		log:       log.Component("workflow"),
	}
}

func (uc *WorkflowUseCase) now() time.Time {
	return uc.clock.Now().UTC()
}

// newEntry prepara una entrada del libro; Sequence la asigna el almacén al insertar.
func newEntry(et entity.EntityType, id string, from *string, to string, actor entity.Actor, note string, at time.Time) *entity.StatusHistoryEntry {
	return &entity.StatusHistoryEntry{
		ID:         uuid.New().String(),
		EntityType: et,
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		ChangedAt:  at,
		ActorID:    actor.ID,
		Note:       note,
	}
}

func strPtr(s string) *string { return &s }

// commit ejecuta write y las inserciones al historial en una transacción; publica al confirmar.
func (uc *WorkflowUseCase) commit(ctx context.Context, write func(r ports.Repositories) error, entries ...*entity.StatusHistoryEntry) error {
	err := uc.tx.RunInTx(ctx, func(r ports.Repositories) error {
		if write != nil {
			if err := write(r); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if err := r.History.Append(ctx, e); err != nil {
				return fmt.Errorf("registrar historial: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		uc.publish(ctx, *e)
	}
	return nil
}

// publish notifica sin afectar el resultado: la transición ya está confirmada.
func (uc *WorkflowUseCase) publish(ctx context.Context, e entity.StatusHistoryEntry) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.log.Error().Err(err).
			Str("entity", string(e.EntityType)).
			Str("id", e.EntityID).
			Str("to", e.ToStatus).
			Msg("no se pudo publicar la transición")
	}
}

func (uc *WorkflowUseCase) logTransition(e *entity.StatusHistoryEntry) {
	from := ""
	if e.FromStatus != nil {
		from = *e.FromStatus
	}
	uc.log.Info().
		Str("entity", string(e.EntityType)).
		Str("id", e.EntityID).
		Str("from", from).
		Str("to", e.ToStatus).
		Str("actor", e.ActorID).
		Int64("sequence", e.Sequence).
		Msg("transición aplicada")
}

func requireActor(actor entity.Actor) error {
	if actor.ID == "" {
		return fmt.Errorf("%w: actor no identificado", domain.ErrForbidden)
	}
	return nil
}

// checkVersion compara la versión esperada por el cliente (If-Match) con la leída.
func checkVersion(expected *int64, current int64) error {
	if expected != nil && *expected != current {
		return domain.ErrConcurrentModification
	}
	return nil
}

func (uc *WorkflowUseCase) loadRequest(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	r, err := uc.repos.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer solicitud: %w", err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (uc *WorkflowUseCase) loadQuote(ctx context.Context, id string) (*entity.Quote, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	q, err := uc.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer cotización: %w", err)
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

func (uc *WorkflowUseCase) loadJob(ctx context.Context, id string) (*entity.Job, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	j, err := uc.repos.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer trabajo: %w", err)
	}
	if j == nil {
		return nil, domain.ErrNotFound
	}
	return j, nil
}

func (uc *WorkflowUseCase) loadInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
