package sqlite

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// rowTimes decodifica las columnas de fecha de una fila y conserva el primer error.
type rowTimes struct{ err error }

func (p *rowTimes) fail(raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("sqlite: fecha inválida %q: %w", raw, err)
	}
}

func (p *rowTimes) at(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		p.fail(s, err)
		return time.Time{}
	}
	return t.UTC()
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}

func (p *rowTimes) atPtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := p.at(*s)
	return &t
}

func fmtDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtDate(*t)
	return &s
}

func (p *rowTimes) date(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		p.fail(*s, err)
		return nil
	}
	return &t
}

func formatDays(days []time.Weekday) *string {
	if days == nil {
		return nil
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	s := strings.Join(parts, ",")
	return &s
}

func parseDays(s *string) []time.Weekday {
	if s == nil {
		return nil
	}
	days := []time.Weekday{}
	for _, p := range strings.Split(*s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

// --- Solicitudes ---

func toRequestRow(r *entity.ServiceRequest) *requestRow {
	return &requestRow{
		ID:                 r.ID,
		ProjectID:          r.ProjectID,
		ClientID:           r.ClientID,
		CommunityID:        r.CommunityID,
		PropertyID:         r.PropertyID,
		ContactName:        r.Contact.Name,
		ContactPhone:       r.Contact.Phone,
		ContactEmail:       r.Contact.Email,
		Street:             r.Address.Street,
		City:               r.Address.City,
		State:              r.Address.State,
		Zip:                r.Address.Zip,
		Source:             r.Source,
		RequestType:        r.RequestType,
		ProductType:        r.ProductType,
		LinearFeetEstimate: r.LinearFeetEstimate,
		TerritoryID:        r.TerritoryID,
		AssessmentRequired: r.Assessment.Required,
		AssessmentAt:       fmtTimePtr(r.Assessment.ScheduledAt),
		AssessmentDate:     fmtDatePtr(r.Assessment.ScheduledAt),
		AssessmentDoneAt:   fmtTimePtr(r.Assessment.CompletedAt),
		AssessmentRepID:    r.Assessment.AssignedRepID,
		AssessmentNotes:    r.Assessment.Notes,
		Status:             string(r.Status),
		Priority:           r.Priority,
		ConvertedToQuoteID: r.ConvertedToQuoteID,
		ConvertedToJobID:   r.ConvertedToJobID,
		Version:            r.Version,
		StatusChangedAt:    fmtTime(r.StatusChangedAt),
		CreatedAt:          fmtTime(r.CreatedAt),
		UpdatedAt:          fmtTime(r.UpdatedAt),
	}
}

func (m *requestRow) toEntity() (*entity.ServiceRequest, error) {
	var p rowTimes
	e := &entity.ServiceRequest{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		ClientID:    m.ClientID,
		CommunityID: m.CommunityID,
		PropertyID:  m.PropertyID,
		Contact:     entity.ContactSnapshot{Name: m.ContactName, Phone: m.ContactPhone, Email: m.ContactEmail},
		Address:     entity.AddressSnapshot{Street: m.Street, City: m.City, State: m.State, Zip: m.Zip},

		Source:             m.Source,
		RequestType:        m.RequestType,
		ProductType:        m.ProductType,
		LinearFeetEstimate: m.LinearFeetEstimate,
		TerritoryID:        m.TerritoryID,
		Assessment: entity.Assessment{
			Required:      m.AssessmentRequired,
			ScheduledAt:   p.atPtr(m.AssessmentAt),
			CompletedAt:   p.atPtr(m.AssessmentDoneAt),
			AssignedRepID: m.AssessmentRepID,
			Notes:         m.AssessmentNotes,
		},
		Status:             entity.RequestStatus(m.Status),
		Priority:           m.Priority,
		ConvertedToQuoteID: m.ConvertedToQuoteID,
		ConvertedToJobID:   m.ConvertedToJobID,
		Version:            m.Version,
		StatusChangedAt:    p.at(m.StatusChangedAt),
		CreatedAt:          p.at(m.CreatedAt),
		UpdatedAt:          p.at(m.UpdatedAt),
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// --- Cotizaciones ---

func toQuoteRow(q *entity.Quote) *quoteRow {
	return &quoteRow{
		ID:               q.ID,
		RequestID:        q.RequestID,
		ClientID:         q.ClientID,
		TerritoryID:      q.TerritoryID,
		ProductType:      q.ProductType,
		LinearFeet:       q.LinearFeet,
		ScopeSummary:     q.ScopeSummary,
		Subtotal:         q.Pricing.Subtotal,
		TaxAmount:        q.Pricing.TaxAmount,
		DiscountAmount:   q.Pricing.DiscountAmount,
		Total:            q.Pricing.Total,
		Cost:             q.Pricing.Cost,
		MarginPercent:    q.Pricing.MarginPercent,
		DiscountPercent:  q.Pricing.DiscountPercent,
		ValidUntil:       fmtTimePtr(q.Terms.ValidUntil),
		PaymentTerms:     q.Terms.PaymentTerms,
		DepositPercent:   q.Terms.DepositPercent,
		RequiresApproval: q.Approval.RequiresApproval,
		ApprovalStatus:   string(q.Approval.Status),
		ApprovedBy:       q.Approval.ApprovedBy,
		ApprovedAt:       fmtTimePtr(q.Approval.ApprovedAt),
		ApprovalReason:   q.Approval.Reason,
		SentAt:           fmtTimePtr(q.Communication.SentAt),
		SentMethod:       q.Communication.SentMethod,
		ViewedAt:         fmtTimePtr(q.Communication.ViewedAt),
		ClientApprovedAt: fmtTimePtr(q.ClientResponse.ApprovedAt),
		ClientSignature:  q.ClientResponse.Signature,
		PONumber:         q.ClientResponse.PONumber,
		LostReason:       q.ClientResponse.LostReason,
		ConvertedToJobID: q.ConvertedToJobID,
		Status:           string(q.Status),
		Version:          q.Version,
		StatusChangedAt:  fmtTime(q.StatusChangedAt),
		CreatedAt:        fmtTime(q.CreatedAt),
		UpdatedAt:        fmtTime(q.UpdatedAt),
	}
}

func (m *quoteRow) toEntity() (*entity.Quote, error) {
	var p rowTimes
	e := &entity.Quote{
		ID:           m.ID,
		RequestID:    m.RequestID,
		ClientID:     m.ClientID,
		TerritoryID:  m.TerritoryID,
		ProductType:  m.ProductType,
		LinearFeet:   m.LinearFeet,
		ScopeSummary: m.ScopeSummary,
		Pricing: entity.QuotePricing{
			Subtotal:        m.Subtotal,
			TaxAmount:       m.TaxAmount,
			DiscountAmount:  m.DiscountAmount,
			Total:           m.Total,
			Cost:            m.Cost,
			MarginPercent:   m.MarginPercent,
			DiscountPercent: m.DiscountPercent,
		},
		Terms: entity.QuoteTerms{
			ValidUntil:     p.atPtr(m.ValidUntil),
			PaymentTerms:   m.PaymentTerms,
			DepositPercent: m.DepositPercent,
		},
		Approval: entity.QuoteApproval{
			RequiresApproval: m.RequiresApproval,
			Status:           entity.ApprovalStatus(m.ApprovalStatus),
			ApprovedBy:       m.ApprovedBy,
			ApprovedAt:       p.atPtr(m.ApprovedAt),
			Reason:           m.ApprovalReason,
		},
		Communication: entity.QuoteCommunication{
			SentAt:     p.atPtr(m.SentAt),
			SentMethod: m.SentMethod,
			ViewedAt:   p.atPtr(m.ViewedAt),
		},
		ClientResponse: entity.QuoteClientResponse{
			ApprovedAt: p.atPtr(m.ClientApprovedAt),
			Signature:  m.ClientSignature,
			PONumber:   m.PONumber,
			LostReason: m.LostReason,
		},
		ConvertedToJobID: m.ConvertedToJobID,
		Status:           entity.QuoteStatus(m.Status),
		Version:          m.Version,
		StatusChangedAt:  p.at(m.StatusChangedAt),
		CreatedAt:        p.at(m.CreatedAt),
		UpdatedAt:        p.at(m.UpdatedAt),
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// --- Trabajos ---

func toJobRow(j *entity.Job) *jobRow {
	return &jobRow{
		ID:                 j.ID,
		QuoteID:            j.QuoteID,
		RequestID:          j.RequestID,
		ClientID:           j.ClientID,
		Kind:               j.Kind,
		ScheduledDate:      fmtDatePtr(j.ScheduledDate),
		TimeWindow:         j.TimeWindow,
		EstimatedHours:     j.EstimatedHours,
		CrewID:             j.CrewID,
		RepID:              j.RepID,
		TerritoryID:        j.TerritoryID,
		ProductType:        j.ProductType,
		LinearFeet:         j.LinearFeet,
		ContractTotal:      j.ContractTotal,
		ReadyForYardAt:     fmtTimePtr(j.Phases.ReadyForYardAt),
		PickingStartedAt:   fmtTimePtr(j.Phases.PickingStartedAt),
		PickingCompletedAt: fmtTimePtr(j.Phases.PickingCompletedAt),
		StagingCompletedAt: fmtTimePtr(j.Phases.StagingCompletedAt),
		LoadedAt:           fmtTimePtr(j.Phases.LoadedAt),
		WorkStartedAt:      fmtTimePtr(j.Phases.WorkStartedAt),
		WorkCompletedAt:    fmtTimePtr(j.Phases.WorkCompletedAt),
		PhotoCount:         j.Completion.PhotoCount,
		Signature:          j.Completion.Signature,
		CompletionNotes:    j.Completion.Notes,
		InvoiceID:          j.InvoiceID,
		Status:             string(j.Status),
		Version:            j.Version,
		StatusChangedAt:    fmtTime(j.StatusChangedAt),
		CreatedAt:          fmtTime(j.CreatedAt),
		UpdatedAt:          fmtTime(j.UpdatedAt),
	}
}

func (m *jobRow) toEntity() (*entity.Job, error) {
	var p rowTimes
	e := &entity.Job{
		ID:             m.ID,
		QuoteID:        m.QuoteID,
		RequestID:      m.RequestID,
		ClientID:       m.ClientID,
		Kind:           m.Kind,
		ScheduledDate:  p.date(m.ScheduledDate),
		TimeWindow:     m.TimeWindow,
		EstimatedHours: m.EstimatedHours,
		CrewID:         m.CrewID,
		RepID:          m.RepID,
		TerritoryID:    m.TerritoryID,
		ProductType:    m.ProductType,
		LinearFeet:     m.LinearFeet,
		ContractTotal:  m.ContractTotal,
		Phases: entity.JobPhases{
			ReadyForYardAt:     p.atPtr(m.ReadyForYardAt),
			PickingStartedAt:   p.atPtr(m.PickingStartedAt),
			PickingCompletedAt: p.atPtr(m.PickingCompletedAt),
			StagingCompletedAt: p.atPtr(m.StagingCompletedAt),
			LoadedAt:           p.atPtr(m.LoadedAt),
			WorkStartedAt:      p.atPtr(m.WorkStartedAt),
			WorkCompletedAt:    p.atPtr(m.WorkCompletedAt),
		},
		Completion: entity.JobCompletion{
			PhotoCount: m.PhotoCount,
			Signature:  m.Signature,
			Notes:      m.CompletionNotes,
		},
		InvoiceID:       m.InvoiceID,
		Status:          entity.JobStatus(m.Status),
		Version:         m.Version,
		StatusChangedAt: p.at(m.StatusChangedAt),
		CreatedAt:       p.at(m.CreatedAt),
		UpdatedAt:       p.at(m.UpdatedAt),
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// --- Facturas y abonos ---

func toInvoiceRow(inv *entity.Invoice) *invoiceRow {
	return &invoiceRow{
		ID:              inv.ID,
		JobID:           inv.JobID,
		ClientID:        inv.ClientID,
		InvoiceNumber:   inv.InvoiceNumber,
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		Total:           inv.Total,
		AmountPaid:      inv.AmountPaid,
		BalanceDue:      inv.BalanceDue,
		InvoiceDate:     fmtTime(inv.InvoiceDate),
		DueDate:         fmtTime(inv.DueDate),
		SyncStatus:      inv.Sync.Status,
		SyncedAt:        fmtTimePtr(inv.Sync.SyncedAt),
		SyncError:       inv.Sync.Error,
		Status:          string(inv.Status),
		Version:         inv.Version,
		StatusChangedAt: fmtTime(inv.StatusChangedAt),
		CreatedAt:       fmtTime(inv.CreatedAt),
		UpdatedAt:       fmtTime(inv.UpdatedAt),
	}
}

func (m *invoiceRow) toEntity() (*entity.Invoice, error) {
	var p rowTimes
	e := &entity.Invoice{
		ID:             m.ID,
		JobID:          m.JobID,
		ClientID:       m.ClientID,
		InvoiceNumber:  m.InvoiceNumber,
		Subtotal:       m.Subtotal,
		TaxAmount:      m.TaxAmount,
		DiscountAmount: m.DiscountAmount,
		Total:          m.Total,
		AmountPaid:     m.AmountPaid,
		BalanceDue:     m.BalanceDue,
		InvoiceDate:    p.at(m.InvoiceDate),
		DueDate:        p.at(m.DueDate),
		Sync: entity.InvoiceSync{
			Status:   m.SyncStatus,
			SyncedAt: p.atPtr(m.SyncedAt),
			Error:    m.SyncError,
		},
		Status:          entity.InvoiceStatus(m.Status),
		Version:         m.Version,
		StatusChangedAt: p.at(m.StatusChangedAt),
		CreatedAt:       p.at(m.CreatedAt),
		UpdatedAt:       p.at(m.UpdatedAt),
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

func toPaymentRow(p *entity.Payment) *paymentRow {
	return &paymentRow{
		ID:         p.ID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount,
		Method:     p.Method,
		Reference:  p.Reference,
		ReceivedAt: fmtTime(p.ReceivedAt),
		RecordedBy: p.RecordedBy,
		CreatedAt:  fmtTime(p.CreatedAt),
	}
}

func (m *paymentRow) toEntity() (*entity.Payment, error) {
	var p rowTimes
	e := &entity.Payment{
		ID:         m.ID,
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
		Method:     m.Method,
		Reference:  m.Reference,
		ReceivedAt: p.at(m.ReceivedAt),
		RecordedBy: m.RecordedBy,
		CreatedAt:  p.at(m.CreatedAt),
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

// --- Historial y verificaciones ---

func (m *historyRow) toEntity() (*entity.StatusHistoryEntry, error) {
	var p rowTimes
	e := &entity.StatusHistoryEntry{
		ID:         m.ID,
		Sequence:   m.Sequence,
		EntityType: entity.EntityType(m.EntityType),
		EntityID:   m.EntityID,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		ChangedAt:  p.at(m.ChangedAt),
		ActorID:    m.ActorID,
		Note:       m.Note,
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

func (m *assignmentCheckRow) toEntity() (*entity.AssignmentCheck, error) {
	var p rowTimes
	e := &entity.AssignmentCheck{
		ID:           m.ID,
		TargetType:   entity.EntityType(m.TargetType),
		TargetID:     m.TargetID,
		AssigneeID:   m.AssigneeID,
		AssigneeKind: m.AssigneeKind,
		OK:           m.OK,
		FailureKind:  m.FailureKind,
		Detail:       m.Detail,
		Overridden:   m.Overridden,
		ActorID:      m.ActorID,
		CheckedAt:    p.at(m.CheckedAt),
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}
