package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricing(total, margin, discount string) entity.QuotePricing {
	return entity.QuotePricing{
		Total:           mustDec(total),
		MarginPercent:   mustDec(margin),
		DiscountPercent: mustDec(discount),
	}
}

func TestEvaluate_OrdenFijoDeRazones(t *testing.T) {
	policy := workflow.DefaultApprovalPolicy()

	eval := policy.Evaluate(pricing("30000", "10", "12"))
	assert.True(t, eval.Required)
	assert.Equal(t, []string{workflow.ReasonQuoteTotal, workflow.ReasonMargin, workflow.ReasonDiscount}, eval.Reasons)

	eval = policy.Evaluate(pricing("20000", "15", "10"))
	assert.False(t, eval.Required, "los umbrales exactos no disparan la compuerta")
	assert.Empty(t, eval.Reasons)

	eval = policy.Evaluate(pricing("25000.01", "40", "0"))
	assert.Equal(t, []string{workflow.ReasonQuoteTotal}, eval.Reasons)
}

// Escenario A: total 30000, margen 20, descuento 5 -> solo QUOTE_TOTAL, y sent falla antes de aprobar.
func TestApplyQuoteTransition_CompuertaBloqueaEnvio(t *testing.T) {
	policy := workflow.DefaultApprovalPolicy()
	q := &entity.Quote{Status: entity.QuoteDraft, Pricing: pricing("30000", "20", "5")}

	eval := policy.Reprice(q)
	assert.True(t, eval.Required)
	assert.Equal(t, []string{workflow.ReasonQuoteTotal}, eval.Reasons)
	assert.True(t, q.Approval.RequiresApproval)

	err := workflow.ApplyQuoteTransition(q, entity.QuoteSent, policy, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrApprovalRequired))

	var ae *domain.ApprovalRequiredError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, []string{workflow.ReasonQuoteTotal}, ae.Reasons)
	assert.Equal(t, entity.QuoteDraft, q.Status)
	assert.Nil(t, q.Communication.SentAt)

	q.Approval.Status = entity.ApprovalApproved
	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	require.NoError(t, workflow.ApplyQuoteTransition(q, entity.QuoteSent, policy, now))
	assert.Equal(t, entity.QuoteSent, q.Status)
	require.NotNil(t, q.Communication.SentAt)
	assert.Equal(t, now, *q.Communication.SentAt)
}

func TestApplyQuoteTransition_PendienteDeAprobacion(t *testing.T) {
	policy := workflow.DefaultApprovalPolicy()
	q := &entity.Quote{Status: entity.QuoteDraft, Pricing: pricing("40000", "20", "0")}
	policy.Reprice(q)

	require.NoError(t, workflow.ApplyQuoteTransition(q, entity.QuotePendingApproval, policy, time.Now()))
	assert.Equal(t, entity.ApprovalPending, q.Approval.Status)

	err := workflow.ApplyQuoteTransition(q, entity.QuoteSent, policy, time.Now())
	assert.ErrorIs(t, err, domain.ErrApprovalRequired)
}

func TestApplyQuoteTransition_PendienteSinCompuertaNoAbreAprobacion(t *testing.T) {
	policy := workflow.DefaultApprovalPolicy()
	q := &entity.Quote{Status: entity.QuoteDraft, Pricing: pricing("8000", "30", "0")}
	policy.Reprice(q)
	require.False(t, q.Approval.RequiresApproval)

	require.NoError(t, workflow.ApplyQuoteTransition(q, entity.QuotePendingApproval, policy, time.Now()))
	assert.Equal(t, entity.QuotePendingApproval, q.Status)
	assert.Equal(t, entity.ApprovalNone, q.Approval.Status, "sin compuerta no queda una aprobación que nadie puede decidir")

	require.NoError(t, workflow.ApplyQuoteTransition(q, entity.QuoteSent, policy, time.Now()))
}

func TestApplyQuoteTransition_ReenvioDesdeSeguimientoNoEvalua(t *testing.T) {
	policy := workflow.DefaultApprovalPolicy()
	sent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	q := &entity.Quote{Status: entity.QuoteFollowUp, Pricing: pricing("40000", "20", "0")}
	q.Communication.SentAt = &sent
	policy.Reprice(q)

	require.NoError(t, workflow.ApplyQuoteTransition(q, entity.QuoteSent, policy, time.Now()))
	assert.True(t, q.Communication.SentAt.After(sent))
}

func TestApplyQuoteTransition_AprobadaMarcaRespuesta(t *testing.T) {
	q := &entity.Quote{Status: entity.QuoteSent}
	require.NoError(t, workflow.ApplyQuoteTransition(q, entity.QuoteApproved, workflow.DefaultApprovalPolicy(), time.Now()))
	assert.NotNil(t, q.ClientResponse.ApprovedAt)

	err := workflow.ApplyQuoteTransition(q, entity.QuoteConverted, workflow.DefaultApprovalPolicy(), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "convertir exige un trabajo destino")
}

func TestReprice_ReiniciaAprobacionPrevia(t *testing.T) {
	policy := workflow.DefaultApprovalPolicy()
	at := time.Now()
	q := &entity.Quote{Pricing: pricing("30000", "20", "0")}
	q.Approval = entity.QuoteApproval{RequiresApproval: true, Status: entity.ApprovalApproved, ApprovedBy: "mgr", ApprovedAt: &at}

	q.Pricing = pricing("31000", "20", "0")
	policy.Reprice(q)
	assert.Equal(t, entity.ApprovalPending, q.Approval.Status)
	assert.Empty(t, q.Approval.ApprovedBy)
	assert.Nil(t, q.Approval.ApprovedAt)

	q.Pricing = pricing("9000", "25", "0")
	policy.Reprice(q)
	assert.False(t, q.Approval.RequiresApproval)
	assert.Equal(t, entity.ApprovalNone, q.Approval.Status)
}

func TestMarginAndDiscountPercent(t *testing.T) {
	assert.True(t, workflow.MarginPercent(mustDec("1000"), mustDec("800")).Equal(mustDec("20")))
	assert.True(t, workflow.MarginPercent(decimal.Zero, mustDec("10")).IsZero())
	assert.True(t, workflow.DiscountPercent(mustDec("50"), mustDec("1000")).Equal(mustDec("5")))
}
