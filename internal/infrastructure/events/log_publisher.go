package events

import (
	"context"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

var _ ports.TransitionPublisher = (*LogPublisher)(nil)

// LogPublisher escribe las transiciones en el log; se usa cuando no hay NATS configurado.
type LogPublisher struct {
	prefix string
	log    *logger.Logger
}

func NewLogPublisher(prefix string, log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &LogPublisher{prefix: prefix, log: log.Component("events")}
}

func (p *LogPublisher) Publish(_ context.Context, e entity.StatusHistoryEntry) error {
	from := ""
	if e.FromStatus != nil {
		from = *e.FromStatus
	}
	p.log.Info().
		Str("subject", Subject(p.prefix, e)).
		Str("id", e.EntityID).
		Str("from", from).
		Str("to", e.ToStatus).
		Int64("sequence", e.Sequence).
		Msg("evento de transición")
	return nil
}
