package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransitionCommand body para POST /api/v1/transitions.
// ExpectedVersion es opcional (If-Match); OccurredAt lo envían los escáneres de patio.
type TransitionCommand struct {
	EntityType      string     `json:"entity_type"`
	EntityID        string     `json:"entity_id"`
	ToStatus        string     `json:"to_status"`
	Note            string     `json:"note,omitempty"`
	ExpectedVersion *int64     `json:"expected_version,omitempty"`
	OccurredAt      *time.Time `json:"occurred_at,omitempty"`
}

// TransitionResult resultado de una transición aceptada.
type TransitionResult struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Version    int64     `json:"version"`
	ChangedAt  time.Time `json:"changed_at"`
	HistoryID  string    `json:"history_id"`
	Sequence   int64     `json:"sequence"`
}

// StatusOption acción disponible desde el estado actual (botones de la UI).
type StatusOption struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Reopen bool   `json:"reopen,omitempty"`
}

// StatusHistoryResponse entrada del libro de historial.
type StatusHistoryResponse struct {
	ID         string    `json:"id"`
	Sequence   int64     `json:"sequence"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	ActorID    string    `json:"actor_id"`
	Note       string    `json:"note,omitempty"`
}

// ApprovalEvaluationResponse respuesta de GET /quotes/:id/approval.
type ApprovalEvaluationResponse struct {
	QuoteID        string   `json:"quote_id"`
	Required       bool     `json:"required"`
	Reasons        []string `json:"reasons"`
	ApprovalStatus string   `json:"approval_status"`
}

// ApprovalDecisionRequest body para aprobar o rechazar una cotización.
type ApprovalDecisionRequest struct {
	Reason          string `json:"reason,omitempty"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// FeasibilityResponse resultado de una verificación de factibilidad.
type FeasibilityResponse struct {
	TargetType   string `json:"target_type"`
	TargetID     string `json:"target_id"`
	AssigneeID   string `json:"assignee_id"`
	AssigneeKind string `json:"assignee_kind"`
	OK           bool   `json:"ok"`
	Reason       string `json:"reason,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

// AssignRequest body para POST /jobs/:id/crew y /jobs/:id/rep.
type AssignRequest struct {
	AssigneeID      string `json:"assignee_id"`
	Override        bool   `json:"override,omitempty"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// AssignmentResponse asignación aplicada con su verificación registrada.
type AssignmentResponse struct {
	Check      FeasibilityResponse `json:"check"`
	Overridden bool                `json:"overridden"`
	Version    int64               `json:"version"`
}

// ContactDTO contacto de la solicitud.
type ContactDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// AddressDTO dirección de la solicitud.
type AddressDTO struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// CreateRequestRequest body para POST /requests.
type CreateRequestRequest struct {
	ProjectID          string          `json:"project_id,omitempty"`
	ClientID           string          `json:"client_id"`
	CommunityID        string          `json:"community_id,omitempty"`
	PropertyID         string          `json:"property_id,omitempty"`
	Contact            ContactDTO      `json:"contact"`
	Address            AddressDTO      `json:"address"`
	Source             string          `json:"source,omitempty"`
	RequestType        string          `json:"request_type,omitempty"`
	ProductType        string          `json:"product_type"`
	LinearFeetEstimate decimal.Decimal `json:"linear_feet_estimate"`
	TerritoryID        string          `json:"territory_id"`
	Priority           string          `json:"priority,omitempty"`
	AssessmentRequired bool            `json:"assessment_required,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// RequestResponse solicitud en respuestas.
type RequestResponse struct {
	ID                 string          `json:"id"`
	ProjectID          string          `json:"project_id,omitempty"`
	ClientID           string          `json:"client_id"`
	CommunityID        string          `json:"community_id,omitempty"`
	PropertyID         string          `json:"property_id,omitempty"`
	Contact            ContactDTO      `json:"contact"`
	Address            AddressDTO      `json:"address"`
	Source             string          `json:"source,omitempty"`
	RequestType        string          `json:"request_type,omitempty"`
	ProductType        string          `json:"product_type"`
	LinearFeetEstimate decimal.Decimal `json:"linear_feet_estimate"`
	TerritoryID        string          `json:"territory_id"`
	Priority           string          `json:"priority"`
	AssessmentRequired bool            `json:"assessment_required"`
	AssessmentAt       *time.Time      `json:"assessment_scheduled_at,omitempty"`
	AssessmentDoneAt   *time.Time      `json:"assessment_completed_at,omitempty"`
	AssessmentRepID    string          `json:"assessment_rep_id,omitempty"`
	AssessmentNotes    string          `json:"assessment_notes,omitempty"`
	Status             string          `json:"status"`
	ConvertedToQuoteID string          `json:"converted_to_quote_id,omitempty"`
	ConvertedToJobID   string          `json:"converted_to_job_id,omitempty"`
	Version            int64           `json:"version"`
	StatusChangedAt    time.Time       `json:"status_changed_at"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ScheduleAssessmentRequest body para POST /requests/:id/assessment.
type ScheduleAssessmentRequest struct {
	RepID           string    `json:"rep_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	Override        bool      `json:"override,omitempty"`
	ExpectedVersion *int64    `json:"expected_version,omitempty"`
}

// ScheduleAssessmentResponse evaluación programada con su verificación de capacidad.
type ScheduleAssessmentResponse struct {
	Request    RequestResponse     `json:"request"`
	Check      FeasibilityResponse `json:"check"`
	Overridden bool                `json:"overridden"`
}

// PricingInput precios de entrada; margen y porcentaje de descuento se calculan.
type PricingInput struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Cost           decimal.Decimal `json:"cost"`
}

// CreateQuoteRequest body para POST /quotes.
type CreateQuoteRequest struct {
	RequestID      string          `json:"request_id,omitempty"`
	ClientID       string          `json:"client_id"`
	TerritoryID    string          `json:"territory_id"`
	ProductType    string          `json:"product_type"`
	LinearFeet     decimal.Decimal `json:"linear_feet"`
	ScopeSummary   string          `json:"scope_summary,omitempty"`
	Pricing        PricingInput    `json:"pricing"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	PaymentTerms   string          `json:"payment_terms,omitempty"`
	DepositPercent decimal.Decimal `json:"deposit_percent"`
}

// UpdateQuotePricingRequest body para PUT /quotes/:id/pricing.
type UpdateQuotePricingRequest struct {
	Pricing         PricingInput `json:"pricing"`
	ExpectedVersion *int64       `json:"expected_version,omitempty"`
}

// ConvertRequestToQuoteRequest body para POST /requests/:id/convert-to-quote.
// Cliente, territorio, producto y pies lineales se copian de la solicitud.
type ConvertRequestToQuoteRequest struct {
	ScopeSummary    string          `json:"scope_summary,omitempty"`
	LinearFeet      decimal.Decimal `json:"linear_feet"`
	Pricing         PricingInput    `json:"pricing"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
	PaymentTerms    string          `json:"payment_terms,omitempty"`
	DepositPercent  decimal.Decimal `json:"deposit_percent"`
	ExpectedVersion *int64          `json:"expected_version,omitempty"`
}

// ConvertToJobRequest body para convertir a trabajo (garantía desde solicitud o venta desde cotización).
type ConvertToJobRequest struct {
	ContractTotal   decimal.Decimal `json:"contract_total"`
	Signature       string          `json:"signature,omitempty"`
	PONumber        string          `json:"po_number,omitempty"`
	ExpectedVersion *int64          `json:"expected_version,omitempty"`
}

// ConversionResponse resultado de una conversión: origen actualizado y destino creado.
type ConversionResponse struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

// QuoteResponse cotización en respuestas.
type QuoteResponse struct {
	ID               string          `json:"id"`
	RequestID        string          `json:"request_id,omitempty"`
	ClientID         string          `json:"client_id"`
	TerritoryID      string          `json:"territory_id"`
	ProductType      string          `json:"product_type"`
	LinearFeet       decimal.Decimal `json:"linear_feet"`
	ScopeSummary     string          `json:"scope_summary,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	Total            decimal.Decimal `json:"total"`
	Cost             decimal.Decimal `json:"cost"`
	MarginPercent    decimal.Decimal `json:"margin_percent"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	ValidUntil       *time.Time      `json:"valid_until,omitempty"`
	PaymentTerms     string          `json:"payment_terms,omitempty"`
	DepositPercent   decimal.Decimal `json:"deposit_percent"`
	RequiresApproval bool            `json:"requires_approval"`
	ApprovalStatus   string          `json:"approval_status"`
	ApprovedBy       string          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	ApprovalReason   string          `json:"approval_reason,omitempty"`
	SentAt           *time.Time      `json:"sent_at,omitempty"`
	ClientApprovedAt *time.Time      `json:"client_approved_at,omitempty"`
	ConvertedToJobID string          `json:"converted_to_job_id,omitempty"`
	Status           string          `json:"status"`
	Version          int64           `json:"version"`
	StatusChangedAt  time.Time       `json:"status_changed_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ScheduleJobRequest body para PUT /jobs/:id/schedule. ScheduledDate se trunca al día.
// Override (solo admin o manager) permite mover el trabajo aunque la cuadrilla o el vendedor
// asignados no pasen la verificación del nuevo día.
type ScheduleJobRequest struct {
	ScheduledDate   time.Time       `json:"scheduled_date"`
	TimeWindow      string          `json:"time_window,omitempty"`
	EstimatedHours  decimal.Decimal `json:"estimated_hours"`
	ExpectedVersion *int64          `json:"expected_version,omitempty"`
	Override        bool            `json:"override,omitempty"`
}

// JobPhasesResponse marcas de la sub-secuencia de patio y cuadrilla.
type JobPhasesResponse struct {
	ReadyForYardAt     *time.Time `json:"ready_for_yard_at,omitempty"`
	PickingStartedAt   *time.Time `json:"picking_started_at,omitempty"`
	PickingCompletedAt *time.Time `json:"picking_completed_at,omitempty"`
	StagingCompletedAt *time.Time `json:"staging_completed_at,omitempty"`
	LoadedAt           *time.Time `json:"loaded_at,omitempty"`
	WorkStartedAt      *time.Time `json:"work_started_at,omitempty"`
	WorkCompletedAt    *time.Time `json:"work_completed_at,omitempty"`
}

// JobResponse trabajo en respuestas.
type JobResponse struct {
	ID              string            `json:"id"`
	QuoteID         string            `json:"quote_id,omitempty"`
	RequestID       string            `json:"request_id,omitempty"`
	ClientID        string            `json:"client_id"`
	Kind            string            `json:"kind"`
	ScheduledDate   *time.Time        `json:"scheduled_date,omitempty"`
	TimeWindow      string            `json:"time_window,omitempty"`
	EstimatedHours  decimal.Decimal   `json:"estimated_hours"`
	CrewID          string            `json:"crew_id,omitempty"`
	RepID           string            `json:"rep_id,omitempty"`
	TerritoryID     string            `json:"territory_id"`
	ProductType     string            `json:"product_type"`
	LinearFeet      decimal.Decimal   `json:"linear_feet"`
	ContractTotal   decimal.Decimal   `json:"contract_total"`
	Phases          JobPhasesResponse `json:"phases"`
	InvoiceID       string            `json:"invoice_id,omitempty"`
	Status          string            `json:"status"`
	Version         int64             `json:"version"`
	StatusChangedAt time.Time         `json:"status_changed_at"`
	CreatedAt       time.Time         `json:"created_at"`
}

// YardStatusResponse vista de patio: fecha, fase actual y ventana de preparación.
type YardStatusResponse struct {
	JobID           string            `json:"job_id"`
	Status          string            `json:"status"`
	ScheduledDate   *time.Time        `json:"scheduled_date,omitempty"`
	YardWindowStart *time.Time        `json:"yard_window_start,omitempty"`
	Phases          JobPhasesResponse `json:"phases"`
}

// GenerateInvoiceRequest body para POST /jobs/:id/invoice. Subtotal por defecto = total del contrato.
type GenerateInvoiceRequest struct {
	Subtotal       *decimal.Decimal `json:"subtotal,omitempty"`
	TaxAmount      decimal.Decimal  `json:"tax_amount"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	DueDays        int              `json:"due_days,omitempty"`
}

// RecordPaymentRequest body para POST /invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	Reference       string          `json:"reference,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	ExpectedVersion *int64          `json:"expected_version,omitempty"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	RecordedBy string          `json:"recorded_by"`
}

// InvoiceSyncRequest body para PUT /invoices/:id/sync.
type InvoiceSyncRequest struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// InvoiceResponse factura con sus abonos.
type InvoiceResponse struct {
	ID              string            `json:"id"`
	JobID           string            `json:"job_id"`
	ClientID        string            `json:"client_id"`
	InvoiceNumber   string            `json:"invoice_number"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	TaxAmount       decimal.Decimal   `json:"tax_amount"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
	Total           decimal.Decimal   `json:"total"`
	AmountPaid      decimal.Decimal   `json:"amount_paid"`
	BalanceDue      decimal.Decimal   `json:"balance_due"`
	InvoiceDate     time.Time         `json:"invoice_date"`
	DueDate         time.Time         `json:"due_date"`
	SyncStatus      string            `json:"sync_status"`
	SyncedAt        *time.Time        `json:"synced_at,omitempty"`
	SyncError       string            `json:"sync_error,omitempty"`
	Status          string            `json:"status"`
	Version         int64             `json:"version"`
	StatusChangedAt time.Time         `json:"status_changed_at"`
	Payments        []PaymentResponse `json:"payments,omitempty"`
}
