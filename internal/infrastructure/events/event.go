// Package events publica las transiciones confirmadas hacia colaboradores externos.
package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// TransitionEvent carga publicada por cada entrada del historial.
type TransitionEvent struct {
	ID         string    `json:"id"`
	Sequence   int64     `json:"sequence"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	FromStatus *string   `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedAt  time.Time `json:"changedAt"`
	ActorID    string    `json:"actorId"`
	Note       string    `json:"note,omitempty"`
}

// FromEntry copia la entrada del libro.
func FromEntry(e entity.StatusHistoryEntry) TransitionEvent {
	return TransitionEvent{
		ID:         e.ID,
		Sequence:   e.Sequence,
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ChangedAt:  e.ChangedAt.UTC(),
		ActorID:    e.ActorID,
		Note:       e.Note,
	}
}

// Subject prefix.entidad.estado_destino, p.ej. "fencepro.workflow.quote.sent".
func Subject(prefix string, e entity.StatusHistoryEntry) string {
	parts := make([]string, 0, 3)
	if p := strings.Trim(prefix, "."); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, string(e.EntityType), e.ToStatus)
	return strings.Join(parts, ".")
}

// Encode serializa la entrada como TransitionEvent en JSON.
func Encode(e entity.StatusHistoryEntry) ([]byte, error) {
	return json.Marshal(FromEntry(e))
}
