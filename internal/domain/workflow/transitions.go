// Package workflow contiene las reglas puras del motor de campo: tablas de transición,
// compuerta de aprobación, sub-secuencia de patio y verificación de factibilidad.
// No depende de almacenamiento ni de transporte.
package workflow

import (
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// table grafo dirigido de un tipo de entidad. Las aristas se guardan en el orden en que
// se escribieron para que las interfaces muestren las acciones en un orden estable.
type table struct {
	order    []string
	edges    map[string][]string
	terminal map[string]bool
	reopen   map[string]string // estado terminal -> destino de reapertura
}

func newTable(order []string, edges map[string][]string, terminal []string, reopen map[string]string) *table {
	t := &table{
		order:    order,
		edges:    edges,
		terminal: make(map[string]bool, len(terminal)),
		reopen:   reopen,
	}
	for _, s := range terminal {
		t.terminal[s] = true
	}
	return t
}

var tables = map[entity.EntityType]*table{
	entity.EntityRequest: newTable(
		[]string{
			string(entity.RequestPending), string(entity.RequestAssessmentScheduled),
			string(entity.RequestAssessmentToday), string(entity.RequestAssessmentOverdue),
			string(entity.RequestAssessmentCompleted), string(entity.RequestConverted),
			string(entity.RequestArchived),
		},
		map[string][]string{
			string(entity.RequestPending): {
				string(entity.RequestAssessmentScheduled), string(entity.RequestConverted), string(entity.RequestArchived),
			},
			string(entity.RequestAssessmentScheduled): {
				string(entity.RequestAssessmentToday), string(entity.RequestAssessmentCompleted), string(entity.RequestArchived),
			},
			string(entity.RequestAssessmentToday): {
				string(entity.RequestAssessmentCompleted), string(entity.RequestAssessmentOverdue),
			},
			string(entity.RequestAssessmentOverdue): {
				string(entity.RequestAssessmentCompleted), string(entity.RequestArchived),
			},
			string(entity.RequestAssessmentCompleted): {
				string(entity.RequestConverted), string(entity.RequestArchived),
			},
			string(entity.RequestConverted): {},
			string(entity.RequestArchived):  {string(entity.RequestPending)},
		},
		[]string{string(entity.RequestConverted), string(entity.RequestArchived)},
		map[string]string{string(entity.RequestArchived): string(entity.RequestPending)},
	),

	entity.EntityQuote: newTable(
		[]string{
			string(entity.QuoteDraft), string(entity.QuotePendingApproval), string(entity.QuoteSent),
			string(entity.QuoteFollowUp), string(entity.QuoteChangesRequested), string(entity.QuoteApproved),
			string(entity.QuoteConverted), string(entity.QuoteLost),
		},
		map[string][]string{
			string(entity.QuoteDraft): {
				string(entity.QuotePendingApproval), string(entity.QuoteSent), string(entity.QuoteLost),
			},
			string(entity.QuotePendingApproval): {
				string(entity.QuoteSent), string(entity.QuoteDraft), string(entity.QuoteLost),
			},
			string(entity.QuoteSent): {
				string(entity.QuoteFollowUp), string(entity.QuoteChangesRequested), string(entity.QuoteApproved), string(entity.QuoteLost),
			},
			string(entity.QuoteFollowUp): {
				string(entity.QuoteSent), string(entity.QuoteChangesRequested), string(entity.QuoteApproved), string(entity.QuoteLost),
			},
			string(entity.QuoteChangesRequested): {
				string(entity.QuoteDraft), string(entity.QuoteSent), string(entity.QuoteLost),
			},
			string(entity.QuoteApproved): {
				string(entity.QuoteConverted), string(entity.QuoteLost),
			},
			string(entity.QuoteConverted): {},
			string(entity.QuoteLost):      {string(entity.QuoteDraft)},
		},
		[]string{string(entity.QuoteConverted), string(entity.QuoteLost)},
		map[string]string{string(entity.QuoteLost): string(entity.QuoteDraft)},
	),

	// Cadena lineal con una sola arista hacia atrás por paso para corregir un avance prematuro.
	// completed y requires_invoicing no retroceden.
	entity.EntityJob: newTable(
		jobChainStrings(),
		map[string][]string{
			string(entity.JobWon):               {string(entity.JobScheduled)},
			string(entity.JobScheduled):         {string(entity.JobReadyForYard), string(entity.JobWon)},
			string(entity.JobReadyForYard):      {string(entity.JobPicking), string(entity.JobScheduled)},
			string(entity.JobPicking):           {string(entity.JobStaged), string(entity.JobReadyForYard)},
			string(entity.JobStaged):            {string(entity.JobLoaded), string(entity.JobPicking)},
			string(entity.JobLoaded):            {string(entity.JobInProgress), string(entity.JobStaged)},
			string(entity.JobInProgress):        {string(entity.JobCompleted), string(entity.JobLoaded)},
			string(entity.JobCompleted):         {string(entity.JobRequiresInvoicing)},
			string(entity.JobRequiresInvoicing): {},
		},
		[]string{string(entity.JobRequiresInvoicing)},
		nil,
	),

	entity.EntityInvoice: newTable(
		[]string{
			string(entity.InvoiceDraft), string(entity.InvoiceSent), string(entity.InvoicePastDue),
			string(entity.InvoicePaid), string(entity.InvoiceBadDebt),
		},
		map[string][]string{
			string(entity.InvoiceDraft):   {string(entity.InvoiceSent)},
			string(entity.InvoiceSent):    {string(entity.InvoicePastDue), string(entity.InvoicePaid), string(entity.InvoiceBadDebt)},
			string(entity.InvoicePastDue): {string(entity.InvoicePaid), string(entity.InvoiceBadDebt)},
			string(entity.InvoicePaid):    {},
			string(entity.InvoiceBadDebt): {},
		},
		[]string{string(entity.InvoicePaid), string(entity.InvoiceBadDebt)},
		nil,
	),
}

// JobChain secuencia lineal de estados de un trabajo.
var JobChain = []entity.JobStatus{
	entity.JobWon, entity.JobScheduled, entity.JobReadyForYard, entity.JobPicking, entity.JobStaged,
	entity.JobLoaded, entity.JobInProgress, entity.JobCompleted, entity.JobRequiresInvoicing,
}

func jobChainStrings() []string {
	out := make([]string, len(JobChain))
	for i, s := range JobChain {
		out[i] = string(s)
	}
	return out
}

// CanTransition indica si existe la arista from -> to para el tipo de entidad.
// No hay auto-lazos: ninguna tabla los define.
func CanTransition(et entity.EntityType, from, to string) bool {
	t, ok := tables[et]
	if !ok {
		return false
	}
	for _, next := range t.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LegalNextStates devuelve los estados alcanzables en un paso, en el orden de la tabla.
// Un estado terminal solo devuelve su destino de reapertura, si lo tiene.
func LegalNextStates(et entity.EntityType, from string) []string {
	t, ok := tables[et]
	if !ok {
		return nil
	}
	next := t.edges[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsTerminal indica si el estado es terminal para el tipo de entidad.
func IsTerminal(et entity.EntityType, status string) bool {
	t, ok := tables[et]
	return ok && t.terminal[status]
}

// IsReopen indica si from -> to es la arista de reapertura de un estado terminal.
func IsReopen(et entity.EntityType, from, to string) bool {
	t, ok := tables[et]
	if !ok || t.reopen == nil {
		return false
	}
	dest, ok := t.reopen[from]
	return ok && dest == to
}

// ValidStatus indica si el estado pertenece al tipo de entidad.
func ValidStatus(et entity.EntityType, status string) bool {
	t, ok := tables[et]
	if !ok {
		return false
	}
	_, ok = t.edges[status]
	return ok
}

// Statuses devuelve todos los estados del tipo de entidad en orden de declaración.
func Statuses(et entity.EntityType) []string {
	t, ok := tables[et]
	if !ok {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// InitialStatus estado con el que se crea cada entidad.
func InitialStatus(et entity.EntityType) string {
	switch et {
	case entity.EntityRequest:
		return string(entity.RequestPending)
	case entity.EntityQuote:
		return string(entity.QuoteDraft)
	case entity.EntityJob:
		return string(entity.JobWon)
	case entity.EntityInvoice:
		return string(entity.InvoiceDraft)
	}
	return ""
}
