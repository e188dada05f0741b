package workflow

import (
	"fmt"
	"time"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

func illegal(et entity.EntityType, from, to string) error {
	return &domain.TransitionError{Entity: string(et), From: from, To: to}
}

// ApplyRequestTransition valida y aplica un cambio de estado sobre la solicitud.
func ApplyRequestTransition(r *entity.ServiceRequest, to entity.RequestStatus, now time.Time) error {
	if !CanTransition(entity.EntityRequest, string(r.Status), string(to)) {
		return illegal(entity.EntityRequest, string(r.Status), string(to))
	}
	switch to {
	case entity.RequestPending:
		// reapertura: la visita anterior deja de ocupar el día del vendedor
		r.Assessment.ScheduledAt = nil
		r.Assessment.AssignedRepID = ""
	case entity.RequestConverted:
		if !r.HasConversionPointer() {
			return fmt.Errorf("%w: la solicitud no apunta a ninguna cotización ni trabajo", domain.ErrInvalidInput)
		}
	case entity.RequestAssessmentScheduled:
		r.Assessment.Required = true
	case entity.RequestAssessmentCompleted:
		if r.Assessment.CompletedAt == nil {
			t := now
			r.Assessment.CompletedAt = &t
		}
	}
	r.Status = to
	r.StatusChangedAt = now
	return nil
}

// ApplyQuoteTransition valida tabla y compuerta de aprobación y aplica el cambio.
func ApplyQuoteTransition(q *entity.Quote, to entity.QuoteStatus, policy ApprovalPolicy, now time.Time) error {
	if !CanTransition(entity.EntityQuote, string(q.Status), string(to)) {
		return illegal(entity.EntityQuote, string(q.Status), string(to))
	}
	switch to {
	case entity.QuoteSent:
		if err := policy.CheckSend(q); err != nil {
			return err
		}
		t := now
		q.Communication.SentAt = &t
	case entity.QuotePendingApproval:
		if q.Approval.RequiresApproval && q.Approval.Status != entity.ApprovalApproved {
			q.Approval.Status = entity.ApprovalPending
		}
	case entity.QuoteApproved:
		if q.ClientResponse.ApprovedAt == nil {
			t := now
			q.ClientResponse.ApprovedAt = &t
		}
	case entity.QuoteConverted:
		if q.ConvertedToJobID == "" {
			return fmt.Errorf("%w: la cotización no apunta a ningún trabajo", domain.ErrInvalidInput)
		}
	}
	q.Status = to
	q.StatusChangedAt = now
	return nil
}

// ApplyInvoiceTransition valida la tabla y el saldo antes de marcar como pagada.
func ApplyInvoiceTransition(inv *entity.Invoice, to entity.InvoiceStatus, now time.Time) error {
	if !CanTransition(entity.EntityInvoice, string(inv.Status), string(to)) {
		return illegal(entity.EntityInvoice, string(inv.Status), string(to))
	}
	if to == entity.InvoicePaid && !inv.BalanceDue.IsZero() {
		return fmt.Errorf("%w: saldo pendiente %s", domain.ErrConflict, inv.BalanceDue.StringFixed(2))
	}
	inv.Status = to
	inv.StatusChangedAt = now
	return nil
}
