package entity

import "time"

// StatusHistoryEntry registro inmutable de auditoría: una fila por transición aceptada
// (y una por creación, con FromStatus nil).
type StatusHistoryEntry struct {
	ID         string
	Sequence   int64 // asignado por el almacén; define el orden de inserción
	EntityType EntityType
	EntityID   string
	FromStatus *string
	ToStatus   string
	ChangedAt  time.Time
	ActorID    string
	Note       string
}
