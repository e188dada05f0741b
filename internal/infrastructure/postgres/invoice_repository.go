package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

var invoiceColumns = []string{
	"id", "job_id", "client_id", "invoice_number",
	"subtotal", "tax_amount", "discount_amount", "total", "amount_paid", "balance_due",
	"invoice_date", "due_date", "sync_status", "synced_at", "sync_error", "status",
	"version", "status_changed_at", "updated_at", "created_at",
}

var (
	insertInvoiceSQL      = insertSQL("invoices", invoiceColumns)
	selectInvoiceSQL      = selectSQL("invoices", invoiceColumns, "id = $1")
	selectInvoiceByJobSQL = selectSQL("invoices", invoiceColumns, "job_id = $1")
	updateInvoiceSQL      = versionedUpdateSQL("invoices", invoiceColumns)
)

func invoiceArgs(inv *entity.Invoice) []any {
	return []any{
		inv.ID, inv.JobID, inv.ClientID, inv.InvoiceNumber,
		inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.Total, inv.AmountPaid, inv.BalanceDue,
		inv.InvoiceDate, inv.DueDate, inv.Sync.Status, inv.Sync.SyncedAt, inv.Sync.Error, string(inv.Status),
		inv.Version, inv.StatusChangedAt, inv.UpdatedAt, inv.CreatedAt,
	}
}

// Create persiste la factura. Número o trabajo repetido se reporta como conflicto.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if _, err := r.q.Exec(ctx, insertInvoiceSQL, invoiceArgs(inv)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el trabajo ya tiene factura o el número existe", domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) get(ctx context.Context, query, arg string) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&inv.ID, &inv.JobID, &inv.ClientID, &inv.InvoiceNumber,
		&inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.Total, &inv.AmountPaid, &inv.BalanceDue,
		&inv.InvoiceDate, &inv.DueDate, &inv.Sync.Status, &inv.Sync.SyncedAt, &inv.Sync.Error, &status,
		&inv.Version, &inv.StatusChangedAt, &inv.UpdatedAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Status = entity.InvoiceStatus(status)
	inv.InvoiceDate = inv.InvoiceDate.UTC()
	inv.DueDate = inv.DueDate.UTC()
	inv.Sync.SyncedAt = utcPtr(inv.Sync.SyncedAt)
	inv.StatusChangedAt = inv.StatusChangedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	inv.CreatedAt = inv.CreatedAt.UTC()
	return &inv, nil
}

// GetByID obtiene una factura por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, selectInvoiceSQL, id)
}

// GetByJobID obtiene la factura del trabajo; (nil, nil) si aún no se generó.
func (r *InvoiceRepo) GetByJobID(ctx context.Context, jobID string) (*entity.Invoice, error) {
	return r.get(ctx, selectInvoiceByJobSQL, jobID)
}

// Update reescribe la factura si la versión almacenada sigue siendo expectedVersion.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice, expectedVersion int64) error {
	next := *inv
	next.Version = expectedVersion + 1
	if err := execVersioned(ctx, r.q, updateInvoiceSQL, invoiceArgs(&next), expectedVersion); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	inv.Version = next.Version
	return nil
}

// PaymentRepo abonos; solo inserción y lectura.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta el abono.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount, method, reference, received_at, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.InvoiceID, p.Amount, p.Method, p.Reference, p.ReceivedAt, p.RecordedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByInvoice abonos de la factura en orden de recepción.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, method, reference, received_at, recorded_by, created_at
		FROM payments WHERE invoice_id = $1
		ORDER BY received_at, created_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Reference, &p.ReceivedAt, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.ReceivedAt = p.ReceivedAt.UTC()
		p.CreatedAt = p.CreatedAt.UTC()
		out = append(out, &p)
	}
	return out, rows.Err()
}
