package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

var allEntities = []entity.EntityType{
	entity.EntityRequest, entity.EntityQuote, entity.EntityJob, entity.EntityInvoice,
}

func TestCanTransition_SinAutoLazos(t *testing.T) {
	for _, et := range allEntities {
		for _, s := range workflow.Statuses(et) {
			assert.False(t, workflow.CanTransition(et, s, s), "%s: %s no debe tener auto-lazo", et, s)
		}
	}
}

func TestLegalNextStates_TerminalesSoloReapertura(t *testing.T) {
	for _, et := range allEntities {
		for _, s := range workflow.Statuses(et) {
			if !workflow.IsTerminal(et, s) {
				continue
			}
			for _, next := range workflow.LegalNextStates(et, s) {
				assert.True(t, workflow.IsReopen(et, s, next),
					"%s: el terminal %s solo puede salir por reapertura, no hacia %s", et, s, next)
			}
		}
	}

	assert.Equal(t, []string{"pending"}, workflow.LegalNextStates(entity.EntityRequest, "archived"))
	assert.Equal(t, []string{"draft"}, workflow.LegalNextStates(entity.EntityQuote, "lost"))
	assert.Empty(t, workflow.LegalNextStates(entity.EntityRequest, "converted"))
	assert.Empty(t, workflow.LegalNextStates(entity.EntityJob, "requires_invoicing"))
	assert.Empty(t, workflow.LegalNextStates(entity.EntityInvoice, "paid"))
	assert.Empty(t, workflow.LegalNextStates(entity.EntityInvoice, "bad_debt"))
}

func TestLegalNextStates_OrdenDeLaTabla(t *testing.T) {
	assert.Equal(t,
		[]string{"follow_up", "changes_requested", "approved", "lost"},
		workflow.LegalNextStates(entity.EntityQuote, "sent"))
	assert.Equal(t,
		[]string{"assessment_scheduled", "converted", "archived"},
		workflow.LegalNextStates(entity.EntityRequest, "pending"))
}

func TestLegalNextStates_CopiaIndependiente(t *testing.T) {
	next := workflow.LegalNextStates(entity.EntityInvoice, "draft")
	next[0] = "paid"
	assert.Equal(t, []string{"sent"}, workflow.LegalNextStates(entity.EntityInvoice, "draft"))
}

func TestJobChain_UnRetrocesoPorPaso(t *testing.T) {
	chain := workflow.JobChain
	for i := 1; i < len(chain); i++ {
		assert.True(t, workflow.CanTransition(entity.EntityJob, string(chain[i-1]), string(chain[i])))
	}
	for i := 1; i <= workflow.ChainIndex(entity.JobInProgress); i++ {
		assert.True(t, workflow.CanTransition(entity.EntityJob, string(chain[i]), string(chain[i-1])),
			"%s debe poder volver a %s", chain[i], chain[i-1])
	}
	assert.False(t, workflow.CanTransition(entity.EntityJob, "completed", "in_progress"))
	assert.False(t, workflow.CanTransition(entity.EntityJob, "requires_invoicing", "completed"))
	assert.False(t, workflow.CanTransition(entity.EntityJob, "won", "ready_for_yard"))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, workflow.ValidStatus(entity.EntityQuote, "pending_approval"))
	assert.False(t, workflow.ValidStatus(entity.EntityQuote, "won"))
	assert.False(t, workflow.ValidStatus(entity.EntityType("client"), "draft"))
}

// Escenario B: pending -> converted es una arista; converted -> assessment_scheduled no.
func TestApplyRequestTransition_ConversionDirecta(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	r := &entity.ServiceRequest{Status: entity.RequestPending, ConvertedToQuoteID: "q-1"}

	require.NoError(t, workflow.ApplyRequestTransition(r, entity.RequestConverted, now))
	assert.Equal(t, entity.RequestConverted, r.Status)
	assert.Equal(t, now, r.StatusChangedAt)

	err := workflow.ApplyRequestTransition(r, entity.RequestAssessmentScheduled, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIllegalTransition))

	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "converted", te.From)
	assert.Equal(t, "assessment_scheduled", te.To)
	assert.Equal(t, entity.RequestConverted, r.Status, "el estado no debe cambiar tras un rechazo")
}

func TestApplyRequestTransition_ConvertidaSinPuntero(t *testing.T) {
	r := &entity.ServiceRequest{Status: entity.RequestPending}
	err := workflow.ApplyRequestTransition(r, entity.RequestConverted, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.RequestPending, r.Status)
}

func TestApplyRequestTransition_EvaluacionCompletadaMarcaFecha(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	r := &entity.ServiceRequest{Status: entity.RequestAssessmentScheduled}
	require.NoError(t, workflow.ApplyRequestTransition(r, entity.RequestAssessmentCompleted, now))
	require.NotNil(t, r.Assessment.CompletedAt)
	assert.Equal(t, now, *r.Assessment.CompletedAt)
}

func TestApplyRequestTransition_ReaperturaLiberaVisita(t *testing.T) {
	at := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	r := &entity.ServiceRequest{Status: entity.RequestArchived}
	r.Assessment.Required = true
	r.Assessment.ScheduledAt = &at
	r.Assessment.AssignedRepID = "rep-1"

	require.NoError(t, workflow.ApplyRequestTransition(r, entity.RequestPending, at))
	assert.Equal(t, entity.RequestPending, r.Status)
	assert.Nil(t, r.Assessment.ScheduledAt)
	assert.Empty(t, r.Assessment.AssignedRepID)
	assert.True(t, r.Assessment.Required)
}

func TestApplyInvoiceTransition_PagadaExigeSaldoCero(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceSent}
	inv.Total = mustDec("1000")
	inv.AmountPaid = mustDec("400")
	inv.RecalculateBalance()

	err := workflow.ApplyInvoiceTransition(inv, entity.InvoicePaid, time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.InvoiceSent, inv.Status)

	inv.AmountPaid = mustDec("1000")
	inv.RecalculateBalance()
	require.NoError(t, workflow.ApplyInvoiceTransition(inv, entity.InvoicePaid, time.Now()))
	assert.Equal(t, entity.InvoicePaid, inv.Status)

	err = workflow.ApplyInvoiceTransition(inv, entity.InvoiceBadDebt, time.Now())
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}
