package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

var _ ports.TransitionPublisher = (*NATSPublisher)(nil)

// NATSPublisher publica cada transición en el subject prefix.entidad.estado.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	log    *logger.Logger
}

// ConnectNATS abre la conexión con reconexión indefinida; los cortes se registran en el log.
func ConnectNATS(url, clientName, prefix string, log *logger.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("nats")

	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("desconectado de NATS")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("reconectado a NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar NATS: %w", err)
	}
	log.Info().Str("url", conn.ConnectedUrl()).Str("prefix", prefix).Msg("publicador NATS listo")
	return &NATSPublisher{conn: conn, prefix: prefix, log: log}, nil
}

// Publish envía la transición; no espera confirmación del servidor.
func (p *NATSPublisher) Publish(ctx context.Context, e entity.StatusHistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(e)
	if err != nil {
		return fmt.Errorf("serializar transición: %w", err)
	}
	subject := Subject(p.prefix, e)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publicar %s: %w", subject, err)
	}
	p.log.Debug().Str("subject", subject).Int64("sequence", e.Sequence).Msg("transición publicada")
	return nil
}

// Close vacía lo pendiente y cierra la conexión.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
