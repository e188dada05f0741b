package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// estados en los que la cotización aún no se ha enviado y admite cambios de precio o decisión gerencial
var preSendQuote = map[entity.QuoteStatus]bool{
	entity.QuoteDraft:            true,
	entity.QuotePendingApproval:  true,
	entity.QuoteChangesRequested: true,
}

// buildPricing completa total, margen y porcentaje de descuento a partir de los montos de entrada.
func buildPricing(in dto.PricingInput) (entity.QuotePricing, error) {
	for _, v := range []decimal.Decimal{in.Subtotal, in.TaxAmount, in.DiscountAmount, in.Cost} {
		if v.IsNegative() {
			return entity.QuotePricing{}, fmt.Errorf("%w: montos negativos", domain.ErrInvalidInput)
		}
	}
	if in.DiscountAmount.GreaterThan(in.Subtotal) {
		return entity.QuotePricing{}, fmt.Errorf("%w: el descuento supera el subtotal", domain.ErrInvalidInput)
	}
	total := in.Subtotal.Add(in.TaxAmount).Sub(in.DiscountAmount)
	return entity.QuotePricing{
		Subtotal:        in.Subtotal,
		TaxAmount:       in.TaxAmount,
		DiscountAmount:  in.DiscountAmount,
		Total:           total,
		Cost:            in.Cost,
		MarginPercent:   rules.MarginPercent(in.Subtotal.Sub(in.DiscountAmount), in.Cost),
		DiscountPercent: rules.DiscountPercent(in.DiscountAmount, in.Subtotal),
	}, nil
}

// CreateQuote crea una cotización en draft, evalúa la compuerta y registra la creación en el historial.
func (uc *WorkflowUseCase) CreateQuote(ctx context.Context, actor entity.Actor, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.ClientID == "" || in.TerritoryID == "" || in.ProductType == "" || in.LinearFeet.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.RequestID != "" {
		if _, err := uc.loadRequest(ctx, in.RequestID); err != nil {
			return nil, err
		}
	}
	pricing, err := buildPricing(in.Pricing)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	q := &entity.Quote{
		ID:           uuid.New().String(),
		RequestID:    in.RequestID,
		ClientID:     in.ClientID,
		TerritoryID:  in.TerritoryID,
		ProductType:  in.ProductType,
		LinearFeet:   in.LinearFeet,
		ScopeSummary: in.ScopeSummary,
		Pricing:      pricing,
		Terms: entity.QuoteTerms{
			ValidUntil:     in.ValidUntil,
			PaymentTerms:   in.PaymentTerms,
			DepositPercent: in.DepositPercent,
		},
		Status:          entity.QuoteDraft,
		Version:         1,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	uc.cfg.Approval.Reprice(q)

	entry := newEntry(entity.EntityQuote, q.ID, nil, string(q.Status), actor, "", now)
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Quotes.Create(ctx, q)
	}, entry); err != nil {
		return nil, err
	}
	uc.logTransition(entry)
	return toQuoteResponse(q), nil
}

// UpdateQuotePricing cambia precios de una cotización no enviada y reevalúa la compuerta.
func (uc *WorkflowUseCase) UpdateQuotePricing(ctx context.Context, actor entity.Actor, quoteID string, in dto.UpdateQuotePricingRequest) (*dto.QuoteResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	q, err := uc.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, q.Version); err != nil {
		return nil, err
	}
	if !preSendQuote[q.Status] {
		return nil, fmt.Errorf("%w: la cotización en %s no admite cambios de precio", domain.ErrConflict, q.Status)
	}
	pricing, err := buildPricing(in.Pricing)
	if err != nil {
		return nil, err
	}
	version := q.Version
	q.Pricing = pricing
	eval := uc.cfg.Approval.Reprice(q)
	q.UpdatedAt = uc.now()

	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Quotes.Update(ctx, q, version)
	}); err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote", q.ID).Bool("requires_approval", eval.Required).
		Strs("reasons", eval.Reasons).Str("actor", actor.ID).Msg("precios de cotización actualizados")
	return toQuoteResponse(q), nil
}

// RequiresApproval evalúa la compuerta con los umbrales vigentes.
func (uc *WorkflowUseCase) RequiresApproval(ctx context.Context, quoteID string) (*dto.ApprovalEvaluationResponse, error) {
	q, err := uc.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	eval := uc.cfg.Approval.Evaluate(q.Pricing)
	return &dto.ApprovalEvaluationResponse{
		QuoteID:        q.ID,
		Required:       eval.Required,
		Reasons:        eval.Reasons,
		ApprovalStatus: string(q.Approval.Status),
	}, nil
}

// ApproveQuote decisión gerencial positiva. No cambia el estado de la cotización.
func (uc *WorkflowUseCase) ApproveQuote(ctx context.Context, actor entity.Actor, quoteID string, in dto.ApprovalDecisionRequest) (*dto.QuoteResponse, error) {
	return uc.decideApproval(ctx, actor, quoteID, in, entity.ApprovalApproved)
}

// RejectQuote decisión gerencial negativa. No cambia el estado de la cotización.
func (uc *WorkflowUseCase) RejectQuote(ctx context.Context, actor entity.Actor, quoteID string, in dto.ApprovalDecisionRequest) (*dto.QuoteResponse, error) {
	return uc.decideApproval(ctx, actor, quoteID, in, entity.ApprovalRejected)
}

func (uc *WorkflowUseCase) decideApproval(ctx context.Context, actor entity.Actor, quoteID string, in dto.ApprovalDecisionRequest, decision entity.ApprovalStatus) (*dto.QuoteResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.Privileged() {
		return nil, fmt.Errorf("%w: solo admin o manager deciden aprobaciones", domain.ErrForbidden)
	}
	q, err := uc.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, q.Version); err != nil {
		return nil, err
	}
	if !preSendQuote[q.Status] {
		return nil, fmt.Errorf("%w: la cotización en %s ya no admite decisión de aprobación", domain.ErrConflict, q.Status)
	}
	if !q.Approval.RequiresApproval {
		return nil, fmt.Errorf("%w: la cotización no requiere aprobación", domain.ErrConflict)
	}

	version := q.Version
	now := uc.now()
	q.Approval.Status = decision
	q.Approval.ApprovedBy = actor.ID
	q.Approval.ApprovedAt = &now
	q.Approval.Reason = in.Reason
	q.UpdatedAt = now

	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Quotes.Update(ctx, q, version)
	}); err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote", q.ID).Str("decision", string(decision)).Str("actor", actor.ID).Msg("decisión de aprobación registrada")
	return toQuoteResponse(q), nil
}

// GetQuote devuelve la cotización.
func (uc *WorkflowUseCase) GetQuote(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.loadQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q), nil
}
