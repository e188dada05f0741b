package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

// GenerateInvoice crea la factura en draft para un trabajo completado. Un trabajo en completed
// pasa a requires_invoicing en la misma transacción. Un trabajo tiene como máximo una factura.
func (uc *WorkflowUseCase) GenerateInvoice(ctx context.Context, actor entity.Actor, jobID string, in dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	j, err := uc.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.Status != entity.JobCompleted && j.Status != entity.JobRequiresInvoicing {
		return nil, fmt.Errorf("%w: el trabajo en %s no está completado", domain.ErrConflict, j.Status)
	}
	existing, err := uc.repos.Invoices.GetByJobID(ctx, j.ID)
	if err != nil {
		return nil, fmt.Errorf("buscar factura del trabajo: %w", err)
	}
	if existing != nil || j.InvoiceID != "" {
		return nil, fmt.Errorf("%w: el trabajo ya tiene factura", domain.ErrConflict)
	}

	subtotal := j.ContractTotal
	if in.Subtotal != nil {
		subtotal = *in.Subtotal
	}
	if subtotal.IsNegative() || in.TaxAmount.IsNegative() || in.DiscountAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	total := subtotal.Add(in.TaxAmount).Sub(in.DiscountAmount)
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: el descuento supera el total", domain.ErrInvalidInput)
	}
	dueDays := in.DueDays
	if dueDays <= 0 {
		dueDays = uc.cfg.InvoiceDueDays
	}

	now := uc.now()
	id := uuid.New().String()
	inv := &entity.Invoice{
		ID:              id,
		JobID:           j.ID,
		ClientID:        j.ClientID,
		InvoiceNumber:   fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(id[:8])),
		Subtotal:        subtotal,
		TaxAmount:       in.TaxAmount,
		DiscountAmount:  in.DiscountAmount,
		Total:           total,
		AmountPaid:      decimal.Zero,
		InvoiceDate:     startOfDay(now),
		DueDate:         startOfDay(now).AddDate(0, 0, dueDays),
		Sync:            entity.InvoiceSync{Status: entity.SyncNotSynced},
		Status:          entity.InvoiceDraft,
		Version:         1,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	inv.RecalculateBalance()

	version, from := j.Version, j.Status
	j.InvoiceID = inv.ID
	entries := []*entity.StatusHistoryEntry{
		newEntry(entity.EntityInvoice, inv.ID, nil, string(inv.Status), actor, "", now),
	}
	if from == entity.JobCompleted {
		if err := rules.ApplyJobTransition(j, entity.JobRequiresInvoicing, now, now); err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(entity.EntityJob, j.ID, strPtr(string(from)), string(j.Status), actor, "", now))
	}
	j.UpdatedAt = now

	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		return repos.Jobs.Update(ctx, j, version)
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	return toInvoiceResponse(inv, nil), nil
}

// RecordPayment registra un abono sobre una factura enviada o vencida. Si el saldo llega a cero
// la factura pasa a paid en la misma transacción.
func (uc *WorkflowUseCase) RecordPayment(ctx context.Context, actor entity.Actor, invoiceID string, in dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() || in.Method == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(in.ExpectedVersion, inv.Version); err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceSent && inv.Status != entity.InvoicePastDue {
		return nil, fmt.Errorf("%w: la factura en %s no admite abonos", domain.ErrConflict, inv.Status)
	}
	if in.Amount.GreaterThan(inv.BalanceDue) {
		return nil, fmt.Errorf("%w: el abono %s supera el saldo %s", domain.ErrInvalidInput,
			in.Amount.StringFixed(2), inv.BalanceDue.StringFixed(2))
	}

	now := uc.now()
	received := now
	if in.ReceivedAt != nil {
		received = in.ReceivedAt.UTC()
	}
	p := &entity.Payment{
		ID:         uuid.New().String(),
		InvoiceID:  inv.ID,
		Amount:     in.Amount,
		Method:     in.Method,
		Reference:  in.Reference,
		ReceivedAt: received,
		RecordedBy: actor.ID,
		CreatedAt:  now,
	}

	version, from := inv.Version, inv.Status
	inv.AmountPaid = inv.AmountPaid.Add(in.Amount)
	inv.RecalculateBalance()
	var entries []*entity.StatusHistoryEntry
	if inv.BalanceDue.IsZero() {
		if err := rules.ApplyInvoiceTransition(inv, entity.InvoicePaid, now); err != nil {
			return nil, err
		}
		entries = append(entries, newEntry(entity.EntityInvoice, inv.ID, strPtr(string(from)), string(inv.Status), actor, "pago completo", now))
	}
	inv.UpdatedAt = now

	var payments []*entity.Payment
	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		if err := repos.Payments.Create(ctx, p); err != nil {
			return err
		}
		if err := repos.Invoices.Update(ctx, inv, version); err != nil {
			return err
		}
		list, err := repos.Payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("listar abonos: %w", err)
		}
		payments = list
		return nil
	}, entries...); err != nil {
		return nil, err
	}
	for _, e := range entries {
		uc.logTransition(e)
	}
	uc.log.Info().Str("invoice", inv.ID).Str("amount", in.Amount.String()).
		Str("balance_due", inv.BalanceDue.String()).Str("actor", actor.ID).Msg("abono registrado")
	return toInvoiceResponse(inv, payments), nil
}

// MarkInvoiceSync actualiza el sub-registro de sincronización contable. No toca el estado.
func (uc *WorkflowUseCase) MarkInvoiceSync(ctx context.Context, actor entity.Actor, invoiceID string, in dto.InvoiceSyncRequest) (*dto.InvoiceResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	switch in.Status {
	case entity.SyncNotSynced, entity.SyncPending, entity.SyncSynced, entity.SyncFailed:
	default:
		return nil, fmt.Errorf("%w: estado de sincronización %q", domain.ErrInvalidInput, in.Status)
	}
	inv, err := uc.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	version := inv.Version
	now := uc.now()
	inv.Sync.Status = in.Status
	inv.Sync.Error = ""
	switch in.Status {
	case entity.SyncSynced:
		inv.Sync.SyncedAt = &now
	case entity.SyncFailed:
		inv.Sync.Error = in.Error
	}
	inv.UpdatedAt = now

	if err := uc.commit(ctx, func(repos ports.Repositories) error {
		return repos.Invoices.Update(ctx, inv, version)
	}); err != nil {
		return nil, err
	}
	if in.Status == entity.SyncFailed {
		uc.log.Warn().Str("invoice", inv.ID).Str("error", in.Error).Msg("sincronización contable fallida")
	}
	return toInvoiceResponse(inv, nil), nil
}

// GetInvoice devuelve la factura con sus abonos.
func (uc *WorkflowUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listar abonos: %w", err)
	}
	return toInvoiceResponse(inv, payments), nil
}
