package workflow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// completeJob avanza un trabajo programado por toda la cadena de patio y campo.
func (h *harness) completeJob(t *testing.T, jobID string) {
	t.Helper()
	for _, to := range []string{"ready_for_yard", "picking", "staged", "loaded", "in_progress", "completed"} {
		h.transition(t, entity.EntityJob, jobID, to)
	}
}

func TestConvertQuoteToJob_DesdeAprobada(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := h.createSmallQuote(t)

	_, err := h.uc.ConvertQuoteToJob(ctx, office, q.ID, dto.ConvertToJobRequest{})
	require.ErrorIs(t, err, domain.ErrIllegalTransition, "una cotización en draft no se convierte")

	h.transition(t, entity.EntityQuote, q.ID, "sent")
	h.transition(t, entity.EntityQuote, q.ID, "approved")

	conv, err := h.uc.ConvertQuoteToJob(ctx, office, q.ID, dto.ConvertToJobRequest{Signature: "M. Gómez", PONumber: "PO-77"})
	require.NoError(t, err)
	assert.Equal(t, "job", conv.TargetType)

	j, err := h.uc.GetJob(ctx, conv.TargetID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.JobWon), j.Status)
	assert.Equal(t, entity.JobKindNewSale, j.Kind)
	assert.Equal(t, q.ID, j.QuoteID)
	assert.True(t, j.ContractTotal.Equal(q.Total), "sin monto explícito se usa el total de la cotización")

	got, err := h.uc.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.QuoteConverted), got.Status)
	assert.Equal(t, j.ID, got.ConvertedToJobID)
	assert.NotNil(t, got.ClientApprovedAt)

	jobHistory, err := h.uc.HistoryFor(ctx, "job", j.ID)
	require.NoError(t, err)
	require.Len(t, jobHistory, 1)
	assert.Nil(t, jobHistory[0].FromStatus)
}

func TestFacturacion_FlujoCompleto(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	j := h.createScheduledJob(t, 9000)

	_, err := h.uc.GenerateInvoice(ctx, office, j.ID, dto.GenerateInvoiceRequest{})
	require.ErrorIs(t, err, domain.ErrConflict, "un trabajo sin completar no se factura")

	h.completeJob(t, j.ID)
	done, err := h.uc.GetJob(ctx, j.ID)
	require.NoError(t, err)
	require.NotNil(t, done.Phases.StagingCompletedAt)
	require.NotNil(t, done.Phases.PickingCompletedAt, "staged cierra también el picking")
	require.NotNil(t, done.Phases.WorkCompletedAt)

	inv, err := h.uc.GenerateInvoice(ctx, office, j.ID, dto.GenerateInvoiceRequest{TaxAmount: dec(720)})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceDraft), inv.Status)
	assert.True(t, inv.Total.Equal(dec(9720)))
	assert.True(t, inv.BalanceDue.Equal(dec(9720)))
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-20250609-"), inv.InvoiceNumber)
	assert.True(t, inv.DueDate.Equal(inv.InvoiceDate.AddDate(0, 0, 30)))

	job, err := h.uc.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.JobRequiresInvoicing), job.Status)
	assert.Equal(t, inv.ID, job.InvoiceID)

	_, err = h.uc.GenerateInvoice(ctx, office, j.ID, dto.GenerateInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict, "un trabajo tiene una sola factura")

	// Un borrador no recibe abonos
	_, err = h.uc.RecordPayment(ctx, office, inv.ID, dto.RecordPaymentRequest{Amount: dec(100), Method: "check"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	h.transition(t, entity.EntityInvoice, inv.ID, "sent")

	_, err = h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "invoice", EntityID: inv.ID, ToStatus: "paid"})
	assert.ErrorIs(t, err, domain.ErrConflict, "paid exige saldo cero")

	partial, err := h.uc.RecordPayment(ctx, office, inv.ID, dto.RecordPaymentRequest{Amount: dec(4000), Method: "check", Reference: "CHK-1001"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceSent), partial.Status)
	assert.True(t, partial.BalanceDue.Equal(dec(5720)))
	require.Len(t, partial.Payments, 1)

	_, err = h.uc.RecordPayment(ctx, office, inv.ID, dto.RecordPaymentRequest{Amount: dec(6000), Method: "card"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el abono no puede superar el saldo")

	paid, err := h.uc.RecordPayment(ctx, office, inv.ID, dto.RecordPaymentRequest{Amount: dec(5720), Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoicePaid), paid.Status)
	assert.True(t, paid.BalanceDue.IsZero())
	assert.True(t, paid.AmountPaid.Equal(dec(9720)))
	require.Len(t, paid.Payments, 2)

	history, err := h.uc.HistoryFor(ctx, "invoice", inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "paid", history[2].ToStatus)
	assert.Equal(t, "pago completo", history[2].Note)
}

func TestMarkInvoiceSync_NoCambiaEstado(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	j := h.createScheduledJob(t, 2000)
	h.completeJob(t, j.ID)
	inv, err := h.uc.GenerateInvoice(ctx, office, j.ID, dto.GenerateInvoiceRequest{})
	require.NoError(t, err)

	failed, err := h.uc.MarkInvoiceSync(ctx, office, inv.ID, dto.InvoiceSyncRequest{Status: entity.SyncFailed, Error: "timeout"})
	require.NoError(t, err)
	assert.Equal(t, entity.SyncFailed, failed.SyncStatus)
	assert.Equal(t, "timeout", failed.SyncError)
	assert.Equal(t, string(entity.InvoiceDraft), failed.Status)

	synced, err := h.uc.MarkInvoiceSync(ctx, office, inv.ID, dto.InvoiceSyncRequest{Status: entity.SyncSynced})
	require.NoError(t, err)
	assert.Empty(t, synced.SyncError)
	assert.NotNil(t, synced.SyncedAt)

	_, err = h.uc.MarkInvoiceSync(ctx, office, inv.ID, dto.InvoiceSyncRequest{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyTransition_CompletadoNoRetrocede(t *testing.T) {
	h := newHarness(t)
	j := h.createScheduledJob(t, 2000)
	h.completeJob(t, j.ID)

	_, err := h.uc.ApplyTransition(context.Background(), office, dto.TransitionCommand{EntityType: "job", EntityID: j.ID, ToStatus: "scheduled"})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}
