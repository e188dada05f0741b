package workflow_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports/mocks"
	"github.com/jhoicas/fencepro-workflow/internal/application/workflow"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// ─── Compuerta de aprobación ────────────────────────────────────────────────────

func TestApplyTransition_CotizacionGrandeRequiereAprobacion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// total 30000, margen 20 %, descuento 5 %
	q, err := h.uc.CreateQuote(ctx, office, dto.CreateQuoteRequest{
		ClientID:    "cli-1",
		TerritoryID: "ter-n",
		ProductType: productVinyl,
		LinearFeet:  dec(300),
		Pricing:     dto.PricingInput{Subtotal: dec(30000), TaxAmount: dec(1500), DiscountAmount: dec(1500), Cost: dec(22800)},
	})
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(dec(30000)))
	assert.True(t, q.MarginPercent.Equal(dec(20)), "margen %s", q.MarginPercent)
	assert.True(t, q.DiscountPercent.Equal(dec(5)), "descuento %s", q.DiscountPercent)
	assert.True(t, q.RequiresApproval)
	assert.Equal(t, string(entity.ApprovalNone), q.ApprovalStatus, "pending solo al pasar a pending_approval")

	eval, err := h.uc.RequiresApproval(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, eval.Required)
	assert.Equal(t, []string{rules.ReasonQuoteTotal}, eval.Reasons)

	_, err = h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "quote", EntityID: q.ID, ToStatus: "sent"})
	require.ErrorIs(t, err, domain.ErrApprovalRequired)
	var approvalErr *domain.ApprovalRequiredError
	require.True(t, errors.As(err, &approvalErr))
	assert.Equal(t, []string{rules.ReasonQuoteTotal}, approvalErr.Reasons)

	// Solo admin o manager deciden
	_, err = h.uc.ApproveQuote(ctx, office, q.ID, dto.ApprovalDecisionRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	approved, err := h.uc.ApproveQuote(ctx, admin, q.ID, dto.ApprovalDecisionRequest{Reason: "cliente recurrente"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.QuoteDraft), approved.Status, "la decisión no cambia el estado")
	assert.Equal(t, string(entity.ApprovalApproved), approved.ApprovalStatus)
	assert.Equal(t, admin.ID, approved.ApprovedBy)

	res := h.transition(t, entity.EntityQuote, q.ID, "sent")
	assert.Equal(t, "draft", res.FromStatus)

	got, err := h.uc.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SentAt, "sent implica sent_at")
	assert.True(t, now.Equal(*got.SentAt))
}

func TestUpdateQuotePricing_RevierteAprobacion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	q, err := h.uc.CreateQuote(ctx, office, dto.CreateQuoteRequest{
		ClientID: "cli-1", TerritoryID: "ter-n", ProductType: productVinyl, LinearFeet: dec(300),
		Pricing: dto.PricingInput{Subtotal: dec(30000), Cost: dec(20000)},
	})
	require.NoError(t, err)
	_, err = h.uc.ApproveQuote(ctx, admin, q.ID, dto.ApprovalDecisionRequest{})
	require.NoError(t, err)

	// Cambio de precio que sigue requiriendo aprobación: vuelve a pending
	updated, err := h.uc.UpdateQuotePricing(ctx, office, q.ID, dto.UpdateQuotePricingRequest{
		Pricing: dto.PricingInput{Subtotal: dec(32000), Cost: dec(20000)},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ApprovalPending), updated.ApprovalStatus)
	assert.Empty(t, updated.ApprovedBy)

	// Por debajo de todos los umbrales: ya no requiere aprobación y se puede enviar
	updated, err = h.uc.UpdateQuotePricing(ctx, office, q.ID, dto.UpdateQuotePricingRequest{
		Pricing: dto.PricingInput{Subtotal: dec(12000), Cost: dec(8000)},
	})
	require.NoError(t, err)
	assert.False(t, updated.RequiresApproval)
	assert.Equal(t, string(entity.ApprovalNone), updated.ApprovalStatus)
	h.transition(t, entity.EntityQuote, q.ID, "sent")

	_, err = h.uc.UpdateQuotePricing(ctx, office, q.ID, dto.UpdateQuotePricingRequest{
		Pricing: dto.PricingInput{Subtotal: dec(11000), Cost: dec(8000)},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "una cotización enviada no admite cambios de precio")
}

// ─── Tablas de transición ───────────────────────────────────────────────────────

func TestConvertRequestToQuote_DesdePendingYLuegoIlegal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	r := h.createRequest(t)

	conv, err := h.uc.ConvertRequestToQuote(ctx, office, r.ID, dto.ConvertRequestToQuoteRequest{
		Pricing: dto.PricingInput{Subtotal: dec(6000), Cost: dec(4000)},
	})
	require.NoError(t, err)
	assert.Equal(t, "quote", conv.TargetType)

	got, err := h.uc.GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RequestConverted), got.Status)
	assert.Equal(t, conv.TargetID, got.ConvertedToQuoteID)

	q, err := h.uc.GetQuote(ctx, conv.TargetID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, q.RequestID)
	assert.True(t, q.LinearFeet.Equal(dec(50)), "sin pies lineales explícitos se usa la estimación")

	_, err = h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "request", EntityID: r.ID, ToStatus: "assessment_scheduled"})
	require.ErrorIs(t, err, domain.ErrIllegalTransition)
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "converted", te.From)

	history, err := h.uc.HistoryFor(ctx, "request", r.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "converted", history[1].ToStatus)
}

func TestApplyTransition_ConvertedSinPunteroEsInvalido(t *testing.T) {
	h := newHarness(t)
	r := h.createRequest(t)

	_, err := h.uc.ApplyTransition(context.Background(), office, dto.TransitionCommand{EntityType: "request", EntityID: r.ID, ToStatus: "converted"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "converted solo se alcanza por las operaciones de conversión")
}

func TestApplyTransition_EntradasInvalidas(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.uc.ApplyTransition(ctx, entity.Actor{}, dto.TransitionCommand{EntityType: "quote", EntityID: "x", ToStatus: "sent"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "ticket", EntityID: "x", ToStatus: "sent"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "quote", EntityID: "x", ToStatus: "shipped"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "quote", EntityID: "no-existe", ToStatus: "sent"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyTransition_VersionEsperadaObsoleta(t *testing.T) {
	h := newHarness(t)
	q := h.createSmallQuote(t)
	stale := int64(7)

	_, err := h.uc.ApplyTransition(context.Background(), office, dto.TransitionCommand{
		EntityType: "quote", EntityID: q.ID, ToStatus: "sent", ExpectedVersion: &stale,
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestLegalNextStates_Etiquetas(t *testing.T) {
	h := newHarness(t)

	opts, err := h.uc.LegalNextStates("job", "scheduled")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, dto.StatusOption{Status: "ready_for_yard", Label: "Ready For Yard"}, opts[0])
	assert.Equal(t, "won", opts[1].Status)

	opts, err = h.uc.LegalNextStates("quote", "lost")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.True(t, opts[0].Reopen, "lost -> draft es reapertura")

	_, err = h.uc.LegalNextStates("quote", "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, "Requires Invoicing", workflow.StatusLabel("requires_invoicing"))
}

// ─── Sub-secuencia de patio ─────────────────────────────────────────────────────

func TestApplyTransition_FaseYaRegistrada(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	j := h.createScheduledJob(t, 9000)
	assert.Equal(t, string(entity.JobScheduled), j.Status)

	h.transition(t, entity.EntityJob, j.ID, "ready_for_yard")

	_, err := h.uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "job", EntityID: j.ID, ToStatus: "ready_for_yard"})
	require.ErrorIs(t, err, domain.ErrPhaseAlreadyRecorded)

	yard, err := h.uc.YardStatus(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready_for_yard", yard.Status)
	require.NotNil(t, yard.Phases.ReadyForYardAt)
	require.NotNil(t, yard.YardWindowStart)
	assert.True(t, jobDay.AddDate(0, 0, -2).Equal(*yard.YardWindowStart))

	history, err := h.uc.HistoryFor(ctx, "job", j.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, "won", history[0].ToStatus)
	require.NotNil(t, history[2].FromStatus)
	assert.Equal(t, "scheduled", *history[2].FromStatus)
	assert.Equal(t, "ready_for_yard", history[2].ToStatus)
	assert.Less(t, history[1].Sequence, history[2].Sequence)
}

func TestApplyTransition_RetrocesoLimpiaFase(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	j := h.createScheduledJob(t, 9000)

	h.transition(t, entity.EntityJob, j.ID, "ready_for_yard")
	h.transition(t, entity.EntityJob, j.ID, "picking")
	h.transition(t, entity.EntityJob, j.ID, "ready_for_yard")

	got, err := h.uc.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready_for_yard", got.Status)
	assert.Nil(t, got.Phases.PickingStartedAt, "el retroceso limpia la fase abandonada")
	assert.NotNil(t, got.Phases.ReadyForYardAt)
}

// ─── Atomicidad y concurrencia ──────────────────────────────────────────────────

// barrierQuotes retiene las dos primeras lecturas hasta que ambas llegan, para que los dos
// escritores partan de la misma versión.
type barrierQuotes struct {
	repository.QuoteRepository
	n     atomic.Int32
	ready chan struct{}
}

func (b *barrierQuotes) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := b.QuoteRepository.GetByID(ctx, id)
	switch b.n.Add(1) {
	case 1:
		<-b.ready
	case 2:
		close(b.ready)
	}
	return q, err
}

func TestApplyTransition_EscritoresConcurrentes(t *testing.T) {
	h := newHarness(t)
	q := h.createSmallQuote(t)

	repos := h.repos
	repos.Quotes = &barrierQuotes{QuoteRepository: h.repos.Quotes, ready: make(chan struct{})}
	uc := workflow.NewWorkflowUseCase(repos, h.tx, fixedClock{now}, nil, workflow.DefaultConfig(), nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ApplyTransition(context.Background(), office, dto.TransitionCommand{
				EntityType: "quote", EntityID: q.ID, ToStatus: "sent",
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConcurrentModification):
			conflicts++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente un escritor gana")
	assert.Equal(t, 1, conflicts, "el otro recibe modificación concurrente")

	history, err := h.uc.HistoryFor(context.Background(), "quote", q.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "solo la transición ganadora queda en el historial")

	got, err := h.uc.GetQuote(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

type failingHistory struct{ repository.StatusHistoryRepository }

func (failingHistory) Append(context.Context, *entity.StatusHistoryEntry) error {
	return errors.New("libro no disponible")
}

// failingLedgerTx falla la escritura del historial dentro de la transacción.
type failingLedgerTx struct{ inner ports.TxRunner }

func (f failingLedgerTx) RunInTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return f.inner.RunInTx(ctx, func(repos ports.Repositories) error {
		repos.History = failingHistory{repos.History}
		return fn(repos)
	})
}

func TestApplyTransition_FalloDelHistorialNoCambiaEstado(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := h.createSmallQuote(t)

	uc := workflow.NewWorkflowUseCase(h.repos, failingLedgerTx{h.tx}, fixedClock{now}, nil, workflow.DefaultConfig(), nil)
	_, err := uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "quote", EntityID: q.ID, ToStatus: "sent"})
	require.Error(t, err)
	assert.False(t, domain.IsDomainError(err), "un fallo del almacén es error de infraestructura")

	got, err := h.uc.GetQuote(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.QuoteDraft), got.Status)
	assert.Equal(t, int64(1), got.Version)
	assert.Nil(t, got.SentAt)

	history, err := h.uc.HistoryFor(ctx, "quote", q.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

// ─── Publicación de transiciones ────────────────────────────────────────────────

func TestApplyTransition_PublicaTrasConfirmar(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockTransitionPublisher(ctrl)

	var published []entity.StatusHistoryEntry
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e entity.StatusHistoryEntry) error {
			published = append(published, e)
			return errors.New("nats caído")
		}).Times(2)

	uc := h.withUseCase(pub)
	ctx := context.Background()
	q, err := uc.CreateQuote(ctx, office, dto.CreateQuoteRequest{
		ClientID: "cli-1", TerritoryID: "ter-n", ProductType: productVinyl, LinearFeet: dec(40),
		Pricing: dto.PricingInput{Subtotal: dec(4000), Cost: dec(2500)},
	})
	require.NoError(t, err)

	res, err := uc.ApplyTransition(ctx, office, dto.TransitionCommand{EntityType: "quote", EntityID: q.ID, ToStatus: "sent", Note: "por correo"})
	require.NoError(t, err, "un fallo al publicar no revierte la transición")
	assert.Equal(t, int64(2), res.Version)

	require.Len(t, published, 2)
	assert.Equal(t, "draft", published[0].ToStatus)
	assert.Equal(t, "sent", published[1].ToStatus)
	assert.Equal(t, "por correo", published[1].Note)
	assert.Equal(t, res.Sequence, published[1].Sequence, "se publica la entrada ya numerada")
}
