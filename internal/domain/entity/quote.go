package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus estado de una cotización.
type QuoteStatus string

const (
	QuoteDraft            QuoteStatus = "draft"
	QuotePendingApproval  QuoteStatus = "pending_approval"
	QuoteSent             QuoteStatus = "sent"
	QuoteFollowUp         QuoteStatus = "follow_up"
	QuoteChangesRequested QuoteStatus = "changes_requested"
	QuoteApproved         QuoteStatus = "approved"
	QuoteConverted        QuoteStatus = "converted"
	QuoteLost             QuoteStatus = "lost"
)

// ApprovalStatus estado de la aprobación interna (gerencia), independiente del estado de la cotización.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = "none"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// QuotePricing desglose de precios, costo y margen.
type QuotePricing struct {
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	Cost            decimal.Decimal
	MarginPercent   decimal.Decimal
	DiscountPercent decimal.Decimal
}

// QuoteTerms validez y condiciones de pago.
type QuoteTerms struct {
	ValidUntil     *time.Time
	PaymentTerms   string
	DepositPercent decimal.Decimal
}

// QuoteApproval sub-registro de aprobación gerencial.
type QuoteApproval struct {
	RequiresApproval bool
	Status           ApprovalStatus
	ApprovedBy       string
	ApprovedAt       *time.Time
	Reason           string
}

// QuoteCommunication envío y lectura por parte del cliente.
type QuoteCommunication struct {
	SentAt     *time.Time
	SentMethod string
	ViewedAt   *time.Time
}

// QuoteClientResponse respuesta del cliente.
type QuoteClientResponse struct {
	ApprovedAt *time.Time
	Signature  string
	PONumber   string
	LostReason string
}

// Quote propuesta con precio derivada de una solicitud.
type Quote struct {
	ID           string
	RequestID    string
	ClientID     string
	TerritoryID  string
	ProductType  string
	LinearFeet   decimal.Decimal
	ScopeSummary string

	Pricing        QuotePricing
	Terms          QuoteTerms
	Approval       QuoteApproval
	Communication  QuoteCommunication
	ClientResponse QuoteClientResponse

	ConvertedToJobID string
	Status           QuoteStatus

	Version         int64
	StatusChangedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
