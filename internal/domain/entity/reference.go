package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asignado.
const (
	AssigneeCrew    = "crew"
	AssigneeProfile = "profile"
)

// Territory zona de cobertura comercial y operativa.
type Territory struct {
	ID     string
	Code   string
	Name   string
	Active bool
}

// Crew cuadrilla de instalación con su capacidad diaria en pies lineales.
type Crew struct {
	ID            string
	Name          string
	LeadProfileID string
	MaxDailyLF    decimal.Decimal
	Active        bool
}

// TeamProfile miembro del equipo; un vendedor es un perfil con rol sales_rep.
type TeamProfile struct {
	ID                  string
	Name                string
	Email               string
	Role                string
	MaxDailyAssessments int
	Active              bool
}

// IsSalesRep indica si el perfil puede recibir evaluaciones y trabajos como vendedor.
func (p *TeamProfile) IsSalesRep() bool {
	return p.Role == RoleSalesRep
}

// ProjectType tipo de proyecto ligado a un código de producto (p.ej. "vinyl_privacy").
type ProjectType struct {
	ID          string
	Name        string
	ProductType string
}

// Proficiency nivel de dominio de una habilidad.
type Proficiency string

const (
	ProficiencyTrainee      Proficiency = "trainee"
	ProficiencyBasic        Proficiency = "basic"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

var proficiencyRank = map[Proficiency]int{
	ProficiencyTrainee:      0,
	ProficiencyBasic:        1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// Valid indica si el nivel es conocido.
func (p Proficiency) Valid() bool {
	_, ok := proficiencyRank[p]
	return ok
}

// AtLeast compara niveles; un nivel desconocido nunca alcanza a otro.
func (p Proficiency) AtLeast(min Proficiency) bool {
	r, ok := proficiencyRank[p]
	if !ok {
		return false
	}
	return r >= proficiencyRank[min]
}

// Skill habilidad registrada de un asignado para un tipo de proyecto.
type Skill struct {
	ID            string
	AssigneeID    string
	AssigneeKind  string
	ProjectTypeID string
	Proficiency   Proficiency
}

// TerritoryCoverage días en que un asignado cubre un territorio. Days nil = todos los días.
type TerritoryCoverage struct {
	ID           string
	AssigneeID   string
	AssigneeKind string
	TerritoryID  string
	Days         []time.Weekday
}

// Covers indica si la cobertura aplica al día de la semana dado.
func (c TerritoryCoverage) Covers(day time.Weekday) bool {
	if c.Days == nil {
		return true
	}
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}
	return false
}

// AssignmentCheck resultado registrado de una verificación de factibilidad por la vía estándar.
type AssignmentCheck struct {
	ID           string
	TargetType   EntityType
	TargetID     string
	AssigneeID   string
	AssigneeKind string
	OK           bool
	FailureKind  string
	Detail       string
	Overridden   bool
	ActorID      string
	CheckedAt    time.Time
}
