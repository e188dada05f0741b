package workflow

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// ApplyTransition carga la entidad, valida tabla y reglas propias del tipo, y confirma
// en una transacción la escritura condicional por versión junto con la entrada del historial.
func (uc *WorkflowUseCase) ApplyTransition(ctx context.Context, actor entity.Actor, cmd dto.TransitionCommand) (*dto.TransitionResult, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	et, ok := entity.ParseEntityType(cmd.EntityType)
	if !ok || cmd.EntityID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !rules.ValidStatus(et, cmd.ToStatus) {
		return nil, fmt.Errorf("%w: estado %q desconocido para %s", domain.ErrInvalidInput, cmd.ToStatus, et)
	}

	switch et {
	case entity.EntityRequest:
		return uc.transitionRequest(ctx, actor, cmd)
	case entity.EntityQuote:
		return uc.transitionQuote(ctx, actor, cmd)
	case entity.EntityJob:
		return uc.transitionJob(ctx, actor, cmd)
	default:
		return uc.transitionInvoice(ctx, actor, cmd)
	}
}

func (uc *WorkflowUseCase) transitionRequest(ctx context.Context, actor entity.Actor, cmd dto.TransitionCommand) (*dto.TransitionResult, error) {
	r, err := uc.loadRequest(ctx, cmd.EntityID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(cmd.ExpectedVersion, r.Version); err != nil {
		return nil, err
	}
	from, version := string(r.Status), r.Version
	now := uc.now()
	if err := rules.ApplyRequestTransition(r, entity.RequestStatus(cmd.ToStatus), now); err != nil {
		return nil, err
	}
	r.UpdatedAt = now
	entry := newEntry(entity.EntityRequest, r.ID, strPtr(from), cmd.ToStatus, actor, cmd.Note, now)
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Requests.Update(ctx, r, version)
	}, entry); err != nil {
		return nil, err
	}
	return uc.transitionResult(entry, r.Version), nil
}

func (uc *WorkflowUseCase) transitionQuote(ctx context.Context, actor entity.Actor, cmd dto.TransitionCommand) (*dto.TransitionResult, error) {
	q, err := uc.loadQuote(ctx, cmd.EntityID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(cmd.ExpectedVersion, q.Version); err != nil {
		return nil, err
	}
	from, version := string(q.Status), q.Version
	now := uc.now()
	if err := rules.ApplyQuoteTransition(q, entity.QuoteStatus(cmd.ToStatus), uc.cfg.Approval, now); err != nil {
		return nil, err
	}
	if q.Status == entity.QuoteLost && cmd.Note != "" {
		q.ClientResponse.LostReason = cmd.Note
	}
	q.UpdatedAt = now
	entry := newEntry(entity.EntityQuote, q.ID, strPtr(from), cmd.ToStatus, actor, cmd.Note, now)
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Quotes.Update(ctx, q, version)
	}, entry); err != nil {
		return nil, err
	}
	return uc.transitionResult(entry, q.Version), nil
}

func (uc *WorkflowUseCase) transitionJob(ctx context.Context, actor entity.Actor, cmd dto.TransitionCommand) (*dto.TransitionResult, error) {
	j, err := uc.loadJob(ctx, cmd.EntityID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(cmd.ExpectedVersion, j.Version); err != nil {
		return nil, err
	}
	from, version := string(j.Status), j.Version
	now := uc.now()
	at := now
	if cmd.OccurredAt != nil {
		at = cmd.OccurredAt.UTC()
	}
	if err := rules.ApplyJobTransition(j, entity.JobStatus(cmd.ToStatus), at, now); err != nil {
		return nil, err
	}
	if j.Status == entity.JobCompleted && cmd.Note != "" {
		j.Completion.Notes = cmd.Note
	}
	j.UpdatedAt = now
	entry := newEntry(entity.EntityJob, j.ID, strPtr(from), cmd.ToStatus, actor, cmd.Note, now)
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Jobs.Update(ctx, j, version)
	}, entry); err != nil {
		return nil, err
	}
	return uc.transitionResult(entry, j.Version), nil
}

func (uc *WorkflowUseCase) transitionInvoice(ctx context.Context, actor entity.Actor, cmd dto.TransitionCommand) (*dto.TransitionResult, error) {
	inv, err := uc.loadInvoice(ctx, cmd.EntityID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(cmd.ExpectedVersion, inv.Version); err != nil {
		return nil, err
	}
	from, version := string(inv.Status), inv.Version
	now := uc.now()
	if err := rules.ApplyInvoiceTransition(inv, entity.InvoiceStatus(cmd.ToStatus), now); err != nil {
		return nil, err
	}
	inv.UpdatedAt = now
	entry := newEntry(entity.EntityInvoice, inv.ID, strPtr(from), cmd.ToStatus, actor, cmd.Note, now)
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Invoices.Update(ctx, inv, version)
	}, entry); err != nil {
		return nil, err
	}
	return uc.transitionResult(entry, inv.Version), nil
}

func (uc *WorkflowUseCase) transitionResult(e *entity.StatusHistoryEntry, version int64) *dto.TransitionResult {
	uc.logTransition(e)
	from := ""
	if e.FromStatus != nil {
		from = *e.FromStatus
	}
	return &dto.TransitionResult{
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		FromStatus: from,
		ToStatus:   e.ToStatus,
		Version:    version,
		ChangedAt:  e.ChangedAt,
		HistoryID:  e.ID,
		Sequence:   e.Sequence,
	}
}

// LegalNextStates estados alcanzables en un paso, con etiqueta para la UI.
func (uc *WorkflowUseCase) LegalNextStates(entityType, status string) ([]dto.StatusOption, error) {
	et, ok := entity.ParseEntityType(entityType)
	if !ok || !rules.ValidStatus(et, status) {
		return nil, domain.ErrInvalidInput
	}
	next := rules.LegalNextStates(et, status)
	out := make([]dto.StatusOption, 0, len(next))
	for _, s := range next {
		out = append(out, dto.StatusOption{
			Status: s,
			Label:  StatusLabel(s),
			Reopen: rules.IsReopen(et, status, s),
		})
	}
	return out, nil
}

// StatusLabel etiqueta legible: "ready_for_yard" -> "Ready For Yard".
func StatusLabel(status string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(status, "_", " "))
}

// HistoryFor historial completo de una entidad en orden de inserción.
func (uc *WorkflowUseCase) HistoryFor(ctx context.Context, entityType, entityID string) ([]dto.StatusHistoryResponse, error) {
	et, ok := entity.ParseEntityType(entityType)
	if !ok || entityID == "" {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.repos.History.ListByEntity(ctx, et, entityID)
	if err != nil {
		return nil, fmt.Errorf("leer historial: %w", err)
	}
	out := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryResponse(e))
	}
	return out, nil
}
