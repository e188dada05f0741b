package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// ConvertRequestToQuote crea la cotización desde la solicitud y mueve la solicitud a converted.
// Ambas escrituras y sus dos entradas de historial van en una transacción.
func (uc *WorkflowUseCase) ConvertRequestToQuote(ctx context.Context, actor entity.Actor, requestID string, in dto.ConvertRequestToQuoteRequest) (*dto.ConversionResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	r, err := uc.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, r.Version); err != nil {
		return nil, err
	}
	if !rules.CanTransition(entity.EntityRequest, string(r.Status), string(entity.RequestConverted)) {
		return nil, &domain.TransitionError{Entity: string(entity.EntityRequest), From: string(r.Status), To: string(entity.RequestConverted)}
	}
	pricing, err := buildPricing(in.Pricing)
	if err != nil {
		return nil, err
	}
	lf := in.LinearFeet
	if lf.IsZero() {
		lf = r.LinearFeetEstimate
	}
	if lf.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	q := &entity.Quote{
		ID:           uuid.New().String(),
		RequestID:    r.ID,
		ClientID:     r.ClientID,
		TerritoryID:  r.TerritoryID,
		ProductType:  r.ProductType,
		LinearFeet:   lf,
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

	version, from := r.Version, r.Status
	r.ConvertedToQuoteID = q.ID
	if err := rules.ApplyRequestTransition(r, entity.RequestConverted, now); err != nil {
		return nil, err
	}
	r.UpdatedAt = now

	entries := []*entity.StatusHistoryEntry{
		newEntry(entity.EntityQuote, q.ID, nil, string(q.Status), actor, "", now),
		newEntry(entity.EntityRequest, r.ID, strPtr(string(from)), string(r.Status), actor, "", now),
	}
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Quotes.Create(ctx, q); err != nil {
			return err
		}
		return repos.Requests.Update(ctx, r, version)
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	return &dto.ConversionResponse{
		SourceType: string(entity.EntityRequest), SourceID: r.ID,
		TargetType: string(entity.EntityQuote), TargetID: q.ID,
	}, nil
}

// ConvertRequestToJob crea un trabajo de garantía directamente desde la solicitud.
func (uc *WorkflowUseCase) ConvertRequestToJob(ctx context.Context, actor entity.Actor, requestID string, in dto.ConvertToJobRequest) (*dto.ConversionResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.ContractTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	r, err := uc.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, r.Version); err != nil {
		return nil, err
	}
	if !rules.CanTransition(entity.EntityRequest, string(r.Status), string(entity.RequestConverted)) {
		return nil, &domain.TransitionError{Entity: string(entity.EntityRequest), From: string(r.Status), To: string(entity.RequestConverted)}
	}

	now := uc.now()
	j := newJob(now)
	j.RequestID = r.ID
	j.ClientID = r.ClientID
	j.Kind = entity.JobKindWarranty
	j.TerritoryID = r.TerritoryID
	j.ProductType = r.ProductType
	j.LinearFeet = r.LinearFeetEstimate
	j.ContractTotal = in.ContractTotal

	version, from := r.Version, r.Status
	r.ConvertedToJobID = j.ID
	if err := rules.ApplyRequestTransition(r, entity.RequestConverted, now); err != nil {
		return nil, err
	}
	r.UpdatedAt = now

	entries := []*entity.StatusHistoryEntry{
		newEntry(entity.EntityJob, j.ID, nil, string(j.Status), actor, "", now),
		newEntry(entity.EntityRequest, r.ID, strPtr(string(from)), string(r.Status), actor, "", now),
	}
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Jobs.Create(ctx, j); err != nil {
			return err
		}
		return repos.Requests.Update(ctx, r, version)
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	return &dto.ConversionResponse{
		SourceType: string(entity.EntityRequest), SourceID: r.ID,
		TargetType: string(entity.EntityJob), TargetID: j.ID,
	}, nil
}

// ConvertQuoteToJob crea el trabajo de venta desde una cotización aceptada por el cliente
// y mueve la cotización a converted.
func (uc *WorkflowUseCase) ConvertQuoteToJob(ctx context.Context, actor entity.Actor, quoteID string, in dto.ConvertToJobRequest) (*dto.ConversionResponse, error) {
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
	if !rules.CanTransition(entity.EntityQuote, string(q.Status), string(entity.QuoteConverted)) {
		return nil, &domain.TransitionError{Entity: string(entity.EntityQuote), From: string(q.Status), To: string(entity.QuoteConverted)}
	}

	now := uc.now()
	j := newJob(now)
	j.QuoteID = q.ID
	j.RequestID = q.RequestID
	j.ClientID = q.ClientID
	j.Kind = entity.JobKindNewSale
	j.TerritoryID = q.TerritoryID
	j.ProductType = q.ProductType
	j.LinearFeet = q.LinearFeet
	j.ContractTotal = q.Pricing.Total
	if !in.ContractTotal.IsZero() {
		if in.ContractTotal.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		j.ContractTotal = in.ContractTotal
	}

	version, from := q.Version, q.Status
	q.ConvertedToJobID = j.ID
	if in.Signature != "" {
		q.ClientResponse.Signature = in.Signature
	}
	if in.PONumber != "" {
		q.ClientResponse.PONumber = in.PONumber
	}
	if err := rules.ApplyQuoteTransition(q, entity.QuoteConverted, uc.cfg.Approval, now); err != nil {
		return nil, err
	}
	q.UpdatedAt = now

	entries := []*entity.StatusHistoryEntry{
		newEntry(entity.EntityJob, j.ID, nil, string(j.Status), actor, "", now),
		newEntry(entity.EntityQuote, q.ID, strPtr(string(from)), string(q.Status), actor, "", now),
	}
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Jobs.Create(ctx, j); err != nil {
			return err
		}
		return repos.Quotes.Update(ctx, q, version)
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	return &dto.ConversionResponse{
		SourceType: string(entity.EntityQuote), SourceID: q.ID,
		TargetType: string(entity.EntityJob), TargetID: j.ID,
	}, nil
}

func newJob(now time.Time) *entity.Job {
	return &entity.Job{
		ID:              uuid.New().String(),
		Status:          entity.JobWon,
		Version:         1,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
