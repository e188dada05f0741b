package entity

// Tipos de entidad con máquina de estados.
type EntityType string

const (
	EntityRequest EntityType = "request"
	EntityQuote   EntityType = "quote"
	EntityJob     EntityType = "job"
	EntityInvoice EntityType = "invoice"
)

// ParseEntityType valida el tipo de entidad recibido desde un adaptador.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case EntityRequest, EntityQuote, EntityJob, EntityInvoice:
		return EntityType(s), true
	}
	return "", false
}

// Roles del equipo.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleSalesRep = "sales_rep"
	RoleOffice   = "office"
	RoleYard     = "yard"
	RoleCrew     = "crew"
	RoleSystem   = "system"
)

// Actor identidad que ejecuta una operación del motor.
type Actor struct {
	ID   string
	Name string
	Role string
}

// Privileged indica si el actor puede aprobar cotizaciones y forzar asignaciones.
func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}
