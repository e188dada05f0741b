package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de cobro de la factura.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePastDue InvoiceStatus = "past_due"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceBadDebt InvoiceStatus = "bad_debt"
)

// Estados de sincronización con el sistema contable externo.
const (
	SyncNotSynced = "not_synced"
	SyncPending   = "pending"
	SyncSynced    = "synced"
	SyncFailed    = "failed"
)

// InvoiceSync sub-registro de sincronización externa.
type InvoiceSync struct {
	Status   string
	SyncedAt *time.Time
	Error    string
}

// Invoice registro de cobro generado desde un trabajo completado.
type Invoice struct {
	ID            string
	JobID         string
	ClientID      string
	InvoiceNumber string

	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	BalanceDue     decimal.Decimal // siempre Total - AmountPaid

	InvoiceDate time.Time
	DueDate     time.Time

	Sync   InvoiceSync
	Status InvoiceStatus

	Version         int64
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecalculateBalance mantiene BalanceDue = Total - AmountPaid.
func (i *Invoice) RecalculateBalance() {
	i.BalanceDue = i.Total.Sub(i.AmountPaid)
}

// Payment abono registrado contra una factura. Nunca se modifica.
type Payment struct {
	ID         string
	InvoiceID  string
	Amount     decimal.Decimal
	Method     string
	Reference  string
	ReceivedAt time.Time
	RecordedBy string
	CreatedAt  time.Time
}
