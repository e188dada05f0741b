package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

var quoteColumns = []string{
	"id", "request_id", "client_id", "territory_id", "product_type", "linear_feet", "scope_summary",
	"subtotal", "tax_amount", "discount_amount", "total", "cost", "margin_percent", "discount_percent",
	"valid_until", "payment_terms", "deposit_percent",
	"requires_approval", "approval_status", "approved_by", "approved_at", "approval_reason",
	"sent_at", "sent_method", "viewed_at",
	"client_approved_at", "client_signature", "po_number", "lost_reason",
	"converted_to_job_id", "status",
	"version", "status_changed_at", "updated_at", "created_at",
}

var (
	insertQuoteSQL = insertSQL("quotes", quoteColumns)
	selectQuoteSQL = selectSQL("quotes", quoteColumns, "id = $1")
	updateQuoteSQL = versionedUpdateSQL("quotes", quoteColumns)
)

func quoteArgs(q *entity.Quote) []any {
	return []any{
		q.ID, q.RequestID, q.ClientID, q.TerritoryID, q.ProductType, q.LinearFeet, q.ScopeSummary,
		q.Pricing.Subtotal, q.Pricing.TaxAmount, q.Pricing.DiscountAmount, q.Pricing.Total,
		q.Pricing.Cost, q.Pricing.MarginPercent, q.Pricing.DiscountPercent,
		q.Terms.ValidUntil, q.Terms.PaymentTerms, q.Terms.DepositPercent,
		q.Approval.RequiresApproval, string(q.Approval.Status), q.Approval.ApprovedBy, q.Approval.ApprovedAt, q.Approval.Reason,
		q.Communication.SentAt, q.Communication.SentMethod, q.Communication.ViewedAt,
		q.ClientResponse.ApprovedAt, q.ClientResponse.Signature, q.ClientResponse.PONumber, q.ClientResponse.LostReason,
		q.ConvertedToJobID, string(q.Status),
		q.Version, q.StatusChangedAt, q.UpdatedAt, q.CreatedAt,
	}
}

// Create inserta la cotización.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	if _, err := r.q.Exec(ctx, insertQuoteSQL, quoteArgs(q)...); err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID obtiene la cotización; (nil, nil) si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	var q entity.Quote
	var approvalStatus, status string
	err := r.q.QueryRow(ctx, selectQuoteSQL, id).Scan(
		&q.ID, &q.RequestID, &q.ClientID, &q.TerritoryID, &q.ProductType, &q.LinearFeet, &q.ScopeSummary,
		&q.Pricing.Subtotal, &q.Pricing.TaxAmount, &q.Pricing.DiscountAmount, &q.Pricing.Total,
		&q.Pricing.Cost, &q.Pricing.MarginPercent, &q.Pricing.DiscountPercent,
		&q.Terms.ValidUntil, &q.Terms.PaymentTerms, &q.Terms.DepositPercent,
		&q.Approval.RequiresApproval, &approvalStatus, &q.Approval.ApprovedBy, &q.Approval.ApprovedAt, &q.Approval.Reason,
		&q.Communication.SentAt, &q.Communication.SentMethod, &q.Communication.ViewedAt,
		&q.ClientResponse.ApprovedAt, &q.ClientResponse.Signature, &q.ClientResponse.PONumber, &q.ClientResponse.LostReason,
		&q.ConvertedToJobID, &status,
		&q.Version, &q.StatusChangedAt, &q.UpdatedAt, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	q.Approval.Status = entity.ApprovalStatus(approvalStatus)
	q.Status = entity.QuoteStatus(status)
	q.Terms.ValidUntil = utcPtr(q.Terms.ValidUntil)
	q.Approval.ApprovedAt = utcPtr(q.Approval.ApprovedAt)
	q.Communication.SentAt = utcPtr(q.Communication.SentAt)
	q.Communication.ViewedAt = utcPtr(q.Communication.ViewedAt)
	q.ClientResponse.ApprovedAt = utcPtr(q.ClientResponse.ApprovedAt)
	q.StatusChangedAt = q.StatusChangedAt.UTC()
	q.UpdatedAt = q.UpdatedAt.UTC()
	q.CreatedAt = q.CreatedAt.UTC()
	return &q, nil
}

// Update reescribe la cotización si la versión almacenada sigue siendo expectedVersion.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote, expectedVersion int64) error {
	next := *q
	next.Version = expectedVersion + 1
	if err := execVersioned(ctx, r.q, updateQuoteSQL, quoteArgs(&next), expectedVersion); err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	q.Version = next.Version
	return nil
}
