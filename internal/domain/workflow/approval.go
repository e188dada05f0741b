package workflow

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// Umbrales que pueden disparar la compuerta de aprobación.
const (
	ReasonQuoteTotal = "QUOTE_TOTAL"
	ReasonMargin     = "MARGIN"
	ReasonDiscount   = "DISCOUNT"
)

// ApprovalPolicy umbrales configurables de la compuerta.
type ApprovalPolicy struct {
	QuoteTotalThreshold decimal.Decimal
	MarginMinimum       decimal.Decimal
	DiscountMaximum     decimal.Decimal
}

// DefaultApprovalPolicy valores por defecto: total 25000, margen 15%, descuento 10%.
func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		QuoteTotalThreshold: decimal.NewFromInt(25000),
		MarginMinimum:       decimal.NewFromInt(15),
		DiscountMaximum:     decimal.NewFromInt(10),
	}
}

// ApprovalEvaluation resultado de evaluar una cotización.
type ApprovalEvaluation struct {
	Required bool
	Reasons  []string
}

// Evaluate aplica los tres predicados en orden fijo; cualquiera basta para exigir aprobación.
func (p ApprovalPolicy) Evaluate(pricing entity.QuotePricing) ApprovalEvaluation {
	reasons := make([]string, 0, 3)
	if pricing.Total.GreaterThan(p.QuoteTotalThreshold) {
		reasons = append(reasons, ReasonQuoteTotal)
	}
	if pricing.MarginPercent.LessThan(p.MarginMinimum) {
		reasons = append(reasons, ReasonMargin)
	}
	if pricing.DiscountPercent.GreaterThan(p.DiscountMaximum) {
		reasons = append(reasons, ReasonDiscount)
	}
	return ApprovalEvaluation{Required: len(reasons) > 0, Reasons: reasons}
}

// gatedSources estados desde los cuales el paso a sent pasa por la compuerta.
// follow_up -> sent es un reenvío de algo ya enviado y no se vuelve a evaluar.
var gatedSources = map[entity.QuoteStatus]bool{
	entity.QuoteDraft:            true,
	entity.QuotePendingApproval:  true,
	entity.QuoteChangesRequested: true,
}

// CheckSend valida la compuerta antes de mover la cotización a sent.
func (p ApprovalPolicy) CheckSend(q *entity.Quote) error {
	if !gatedSources[q.Status] {
		return nil
	}
	eval := p.Evaluate(q.Pricing)
	if !eval.Required || q.Approval.Status == entity.ApprovalApproved {
		return nil
	}
	return &domain.ApprovalRequiredError{Reasons: eval.Reasons}
}

// Reprice recalcula RequiresApproval tras crear o cambiar precios. Una aprobación previa
// vuelve a pending si el precio nuevo sigue exigiéndola, o a none si ya no.
func (p ApprovalPolicy) Reprice(q *entity.Quote) ApprovalEvaluation {
	eval := p.Evaluate(q.Pricing)
	q.Approval.RequiresApproval = eval.Required
	switch {
	case !eval.Required:
		q.Approval.Status = entity.ApprovalNone
		q.Approval.ApprovedBy = ""
		q.Approval.ApprovedAt = nil
	case q.Approval.Status == entity.ApprovalApproved || q.Approval.Status == entity.ApprovalRejected:
		q.Approval.Status = entity.ApprovalPending
		q.Approval.ApprovedBy = ""
		q.Approval.ApprovedAt = nil
	case q.Approval.Status == "":
		q.Approval.Status = entity.ApprovalNone
	}
	return eval
}

// MarginPercent (total - costo) / total * 100, redondeado a dos decimales. Total cero da cero.
func MarginPercent(total, cost decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return total.Sub(cost).Div(total).Mul(decimal.NewFromInt(100)).Round(2)
}

// DiscountPercent descuento / subtotal * 100, redondeado a dos decimales.
func DiscountPercent(discount, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return discount.Div(subtotal).Mul(decimal.NewFromInt(100)).Round(2)
}
