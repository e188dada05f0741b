package ports

import (
	"context"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks . TransitionPublisher

// TransitionPublisher notifica transiciones ya confirmadas a colaboradores externos
// (notificaciones, tableros). Se invoca después del commit; un fallo no revierte la transición.
type TransitionPublisher interface {
	Publish(ctx context.Context, entry entity.StatusHistoryEntry) error
}
