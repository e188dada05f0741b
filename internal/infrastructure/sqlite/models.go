package sqlite

import (
	"github.com/shopspring/decimal"
)

// Las fechas se guardan como texto RFC3339Nano en UTC y las fechas de calendario como
// "2006-01-02", así las consultas por día son igualdades de texto.

type requestRow struct {
	ID                 string          `gorm:"column:id;type:text;primaryKey"`
	ProjectID          string          `gorm:"column:project_id;type:text;not null;default:''"`
	ClientID           string          `gorm:"column:client_id;type:text;not null"`
	CommunityID        string          `gorm:"column:community_id;type:text;not null;default:''"`
	PropertyID         string          `gorm:"column:property_id;type:text;not null;default:''"`
	ContactName        string          `gorm:"column:contact_name;type:text;not null;default:''"`
	ContactPhone       string          `gorm:"column:contact_phone;type:text;not null;default:''"`
	ContactEmail       string          `gorm:"column:contact_email;type:text;not null;default:''"`
	Street             string          `gorm:"column:street;type:text;not null;default:''"`
	City               string          `gorm:"column:city;type:text;not null;default:''"`
	State              string          `gorm:"column:state;type:text;not null;default:''"`
	Zip                string          `gorm:"column:zip;type:text;not null;default:''"`
	Source             string          `gorm:"column:source;type:text;not null;default:''"`
	RequestType        string          `gorm:"column:request_type;type:text;not null;default:''"`
	ProductType        string          `gorm:"column:product_type;type:text;not null"`
	LinearFeetEstimate decimal.Decimal `gorm:"column:linear_feet_estimate;type:text;not null"`
	TerritoryID        string          `gorm:"column:territory_id;type:text;not null;index"`
	AssessmentRequired bool            `gorm:"column:assessment_required;not null;default:0"`
	AssessmentAt       *string         `gorm:"column:assessment_scheduled_at;type:text"`
	AssessmentDate     *string         `gorm:"column:assessment_date;type:text;index:idx_requests_rep_day"`
	AssessmentDoneAt   *string         `gorm:"column:assessment_completed_at;type:text"`
	AssessmentRepID    string          `gorm:"column:assessment_rep_id;type:text;not null;default:'';index:idx_requests_rep_day"`
	AssessmentNotes    string          `gorm:"column:assessment_notes;type:text;not null;default:''"`
	Status             string          `gorm:"column:status;type:text;not null;index"`
	Priority           string          `gorm:"column:priority;type:text;not null"`
	ConvertedToQuoteID string          `gorm:"column:converted_to_quote_id;type:text;not null;default:''"`
	ConvertedToJobID   string          `gorm:"column:converted_to_job_id;type:text;not null;default:''"`
	Version            int64           `gorm:"column:version;not null"`
	StatusChangedAt    string          `gorm:"column:status_changed_at;type:text;not null"`
	CreatedAt          string          `gorm:"column:created_at;type:text;not null"`
	UpdatedAt          string          `gorm:"column:updated_at;type:text;not null"`
}

func (requestRow) TableName() string { return "service_requests" }

type quoteRow struct {
	ID               string          `gorm:"column:id;type:text;primaryKey"`
	RequestID        string          `gorm:"column:request_id;type:text;not null;default:'';index"`
	ClientID         string          `gorm:"column:client_id;type:text;not null"`
	TerritoryID      string          `gorm:"column:territory_id;type:text;not null"`
	ProductType      string          `gorm:"column:product_type;type:text;not null"`
	LinearFeet       decimal.Decimal `gorm:"column:linear_feet;type:text;not null"`
	ScopeSummary     string          `gorm:"column:scope_summary;type:text;not null;default:''"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:text;not null"`
	TaxAmount        decimal.Decimal `gorm:"column:tax_amount;type:text;not null"`
	DiscountAmount   decimal.Decimal `gorm:"column:discount_amount;type:text;not null"`
	Total            decimal.Decimal `gorm:"column:total;type:text;not null"`
	Cost             decimal.Decimal `gorm:"column:cost;type:text;not null"`
	MarginPercent    decimal.Decimal `gorm:"column:margin_percent;type:text;not null"`
	DiscountPercent  decimal.Decimal `gorm:"column:discount_percent;type:text;not null"`
	ValidUntil       *string         `gorm:"column:valid_until;type:text"`
	PaymentTerms     string          `gorm:"column:payment_terms;type:text;not null;default:''"`
	DepositPercent   decimal.Decimal `gorm:"column:deposit_percent;type:text;not null"`
	RequiresApproval bool            `gorm:"column:requires_approval;not null;default:0"`
	ApprovalStatus   string          `gorm:"column:approval_status;type:text;not null"`
	ApprovedBy       string          `gorm:"column:approved_by;type:text;not null;default:''"`
	ApprovedAt       *string         `gorm:"column:approved_at;type:text"`
	ApprovalReason   string          `gorm:"column:approval_reason;type:text;not null;default:''"`
	SentAt           *string         `gorm:"column:sent_at;type:text"`
	SentMethod       string          `gorm:"column:sent_method;type:text;not null;default:''"`
	ViewedAt         *string         `gorm:"column:viewed_at;type:text"`
	ClientApprovedAt *string         `gorm:"column:client_approved_at;type:text"`
	ClientSignature  string          `gorm:"column:client_signature;type:text;not null;default:''"`
	PONumber         string          `gorm:"column:po_number;type:text;not null;default:''"`
	LostReason       string          `gorm:"column:lost_reason;type:text;not null;default:''"`
	ConvertedToJobID string          `gorm:"column:converted_to_job_id;type:text;not null;default:''"`
	Status           string          `gorm:"column:status;type:text;not null;index"`
	Version          int64           `gorm:"column:version;not null"`
	StatusChangedAt  string          `gorm:"column:status_changed_at;type:text;not null"`
	CreatedAt        string          `gorm:"column:created_at;type:text;not null"`
	UpdatedAt        string          `gorm:"column:updated_at;type:text;not null"`
}

func (quoteRow) TableName() string { return "quotes" }

type jobRow struct {
	ID                 string          `gorm:"column:id;type:text;primaryKey"`
	QuoteID            string          `gorm:"column:quote_id;type:text;not null;default:''"`
	RequestID          string          `gorm:"column:request_id;type:text;not null;default:''"`
	ClientID           string          `gorm:"column:client_id;type:text;not null"`
	Kind               string          `gorm:"column:kind;type:text;not null"`
	ScheduledDate      *string         `gorm:"column:scheduled_date;type:text;index:idx_jobs_crew_day"`
	TimeWindow         string          `gorm:"column:time_window;type:text;not null;default:''"`
	EstimatedHours     decimal.Decimal `gorm:"column:estimated_hours;type:text;not null"`
	CrewID             string          `gorm:"column:crew_id;type:text;not null;default:'';index:idx_jobs_crew_day"`
	RepID              string          `gorm:"column:rep_id;type:text;not null;default:''"`
	TerritoryID        string          `gorm:"column:territory_id;type:text;not null"`
	ProductType        string          `gorm:"column:product_type;type:text;not null"`
	LinearFeet         decimal.Decimal `gorm:"column:linear_feet;type:text;not null"`
	ContractTotal      decimal.Decimal `gorm:"column:contract_total;type:text;not null"`
	ReadyForYardAt     *string         `gorm:"column:ready_for_yard_at;type:text"`
	PickingStartedAt   *string         `gorm:"column:picking_started_at;type:text"`
	PickingCompletedAt *string         `gorm:"column:picking_completed_at;type:text"`
	StagingCompletedAt *string         `gorm:"column:staging_completed_at;type:text"`
	LoadedAt           *string         `gorm:"column:loaded_at;type:text"`
	WorkStartedAt      *string         `gorm:"column:work_started_at;type:text"`
	WorkCompletedAt    *string         `gorm:"column:work_completed_at;type:text"`
	PhotoCount         int             `gorm:"column:completion_photo_count;not null;default:0"`
	Signature          string          `gorm:"column:customer_signature;type:text;not null;default:''"`
	CompletionNotes    string          `gorm:"column:completion_notes;type:text;not null;default:''"`
	InvoiceID          string          `gorm:"column:invoice_id;type:text;not null;default:''"`
	Status             string          `gorm:"column:status;type:text;not null;index"`
	Version            int64           `gorm:"column:version;not null"`
	StatusChangedAt    string          `gorm:"column:status_changed_at;type:text;not null"`
	CreatedAt          string          `gorm:"column:created_at;type:text;not null"`
	UpdatedAt          string          `gorm:"column:updated_at;type:text;not null"`
}

func (jobRow) TableName() string { return "jobs" }

type invoiceRow struct {
	ID              string          `gorm:"column:id;type:text;primaryKey"`
	JobID           string          `gorm:"column:job_id;type:text;not null;uniqueIndex"`
	ClientID        string          `gorm:"column:client_id;type:text;not null"`
	InvoiceNumber   string          `gorm:"column:invoice_number;type:text;not null;uniqueIndex"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:text;not null"`
	TaxAmount       decimal.Decimal `gorm:"column:tax_amount;type:text;not null"`
	DiscountAmount  decimal.Decimal `gorm:"column:discount_amount;type:text;not null"`
	Total           decimal.Decimal `gorm:"column:total;type:text;not null"`
	AmountPaid      decimal.Decimal `gorm:"column:amount_paid;type:text;not null"`
	BalanceDue      decimal.Decimal `gorm:"column:balance_due;type:text;not null"`
	InvoiceDate     string          `gorm:"column:invoice_date;type:text;not null"`
	DueDate         string          `gorm:"column:due_date;type:text;not null"`
	SyncStatus      string          `gorm:"column:sync_status;type:text;not null"`
	SyncedAt        *string         `gorm:"column:synced_at;type:text"`
	SyncError       string          `gorm:"column:sync_error;type:text;not null;default:''"`
	Status          string          `gorm:"column:status;type:text;not null;index"`
	Version         int64           `gorm:"column:version;not null"`
	StatusChangedAt string          `gorm:"column:status_changed_at;type:text;not null"`
	CreatedAt       string          `gorm:"column:created_at;type:text;not null"`
	UpdatedAt       string          `gorm:"column:updated_at;type:text;not null"`
}

func (invoiceRow) TableName() string { return "invoices" }

type paymentRow struct {
	ID         string          `gorm:"column:id;type:text;primaryKey"`
	InvoiceID  string          `gorm:"column:invoice_id;type:text;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:text;not null"`
	Method     string          `gorm:"column:method;type:text;not null"`
	Reference  string          `gorm:"column:reference;type:text;not null;default:''"`
	ReceivedAt string          `gorm:"column:received_at;type:text;not null"`
	RecordedBy string          `gorm:"column:recorded_by;type:text;not null"`
	CreatedAt  string          `gorm:"column:created_at;type:text;not null"`
}

func (paymentRow) TableName() string { return "payments" }

type historyRow struct {
	Sequence   int64   `gorm:"column:sequence;primaryKey;autoIncrement"`
	ID         string  `gorm:"column:id;type:text;not null;uniqueIndex"`
	EntityType string  `gorm:"column:entity_type;type:text;not null;index:idx_history_entity"`
	EntityID   string  `gorm:"column:entity_id;type:text;not null;index:idx_history_entity"`
	FromStatus *string `gorm:"column:from_status;type:text"`
	ToStatus   string  `gorm:"column:to_status;type:text;not null"`
	ChangedAt  string  `gorm:"column:changed_at;type:text;not null"`
	ActorID    string  `gorm:"column:actor_id;type:text;not null"`
	Note       string  `gorm:"column:note;type:text;not null;default:''"`
}

func (historyRow) TableName() string { return "status_history" }

type assignmentCheckRow struct {
	ID           string `gorm:"column:id;type:text;primaryKey"`
	TargetType   string `gorm:"column:target_type;type:text;not null;index:idx_checks_target"`
	TargetID     string `gorm:"column:target_id;type:text;not null;index:idx_checks_target"`
	AssigneeID   string `gorm:"column:assignee_id;type:text;not null"`
	AssigneeKind string `gorm:"column:assignee_kind;type:text;not null"`
	OK           bool   `gorm:"column:ok;not null"`
	FailureKind  string `gorm:"column:failure_kind;type:text;not null;default:''"`
	Detail       string `gorm:"column:detail;type:text;not null;default:''"`
	Overridden   bool   `gorm:"column:overridden;not null;default:0"`
	ActorID      string `gorm:"column:actor_id;type:text;not null"`
	CheckedAt    string `gorm:"column:checked_at;type:text;not null"`
}

func (assignmentCheckRow) TableName() string { return "assignment_checks" }

type territoryRow struct {
	ID     string `gorm:"column:id;type:text;primaryKey"`
	Code   string `gorm:"column:code;type:text;not null;uniqueIndex"`
	Name   string `gorm:"column:name;type:text;not null"`
	Active bool   `gorm:"column:active;not null"`
}

func (territoryRow) TableName() string { return "territories" }

type crewRow struct {
	ID            string          `gorm:"column:id;type:text;primaryKey"`
	Name          string          `gorm:"column:name;type:text;not null"`
	LeadProfileID string          `gorm:"column:lead_profile_id;type:text;not null;default:''"`
	MaxDailyLF    decimal.Decimal `gorm:"column:max_daily_lf;type:text;not null"`
	Active        bool            `gorm:"column:active;not null"`
}

func (crewRow) TableName() string { return "crews" }

type profileRow struct {
	ID                  string `gorm:"column:id;type:text;primaryKey"`
	Name                string `gorm:"column:name;type:text;not null"`
	Email               string `gorm:"column:email;type:text;not null;default:''"`
	Role                string `gorm:"column:role;type:text;not null"`
	MaxDailyAssessments int    `gorm:"column:max_daily_assessments;not null;default:0"`
	Active              bool   `gorm:"column:active;not null"`
}

func (profileRow) TableName() string { return "team_profiles" }

type projectTypeRow struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	Name        string `gorm:"column:name;type:text;not null"`
	ProductType string `gorm:"column:product_type;type:text;not null;uniqueIndex"`
}

func (projectTypeRow) TableName() string { return "project_types" }

type skillRow struct {
	ID            string `gorm:"column:id;type:text;primaryKey"`
	AssigneeKind  string `gorm:"column:assignee_kind;type:text;not null;uniqueIndex:ux_skills_assignee_pt"`
	AssigneeID    string `gorm:"column:assignee_id;type:text;not null;uniqueIndex:ux_skills_assignee_pt"`
	ProjectTypeID string `gorm:"column:project_type_id;type:text;not null;uniqueIndex:ux_skills_assignee_pt"`
	Proficiency   string `gorm:"column:proficiency;type:text;not null"`
}

func (skillRow) TableName() string { return "skills" }

type coverageRow struct {
	ID           string  `gorm:"column:id;type:text;primaryKey"`
	AssigneeKind string  `gorm:"column:assignee_kind;type:text;not null;uniqueIndex:ux_coverage_assignee_territory"`
	AssigneeID   string  `gorm:"column:assignee_id;type:text;not null;uniqueIndex:ux_coverage_assignee_territory"`
	TerritoryID  string  `gorm:"column:territory_id;type:text;not null;uniqueIndex:ux_coverage_assignee_territory"`
	Days         *string `gorm:"column:days;type:text"` // "1,2,3" (time.Weekday); NULL = todos los días
}

func (coverageRow) TableName() string { return "territory_coverage" }

// allModels tablas del almacén embebido, en orden de creación.
func allModels() []any {
	return []any{
		&requestRow{}, &quoteRow{}, &jobRow{}, &invoiceRow{}, &paymentRow{},
		&historyRow{}, &assignmentCheckRow{},
		&territoryRow{}, &crewRow{}, &profileRow{}, &projectTypeRow{}, &skillRow{}, &coverageRow{},
	}
}
