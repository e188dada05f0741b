package workflow

import (
	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
)

func toRequestResponse(r *entity.ServiceRequest) *dto.RequestResponse {
	return &dto.RequestResponse{
		ID:                 r.ID,
		ProjectID:          r.ProjectID,
		ClientID:           r.ClientID,
		CommunityID:        r.CommunityID,
		PropertyID:         r.PropertyID,
		Contact:            dto.ContactDTO{Name: r.Contact.Name, Phone: r.Contact.Phone, Email: r.Contact.Email},
		Address:            dto.AddressDTO{Street: r.Address.Street, City: r.Address.City, State: r.Address.State, Zip: r.Address.Zip},
		Source:             r.Source,
		RequestType:        r.RequestType,
		ProductType:        r.ProductType,
		LinearFeetEstimate: r.LinearFeetEstimate,
		TerritoryID:        r.TerritoryID,
		Priority:           r.Priority,
		AssessmentRequired: r.Assessment.Required,
		AssessmentAt:       r.Assessment.ScheduledAt,
		AssessmentDoneAt:   r.Assessment.CompletedAt,
		AssessmentRepID:    r.Assessment.AssignedRepID,
		AssessmentNotes:    r.Assessment.Notes,
		Status:             string(r.Status),
		ConvertedToQuoteID: r.ConvertedToQuoteID,
		ConvertedToJobID:   r.ConvertedToJobID,
		Version:            r.Version,
		StatusChangedAt:    r.StatusChangedAt,
		CreatedAt:          r.CreatedAt,
	}
}

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	return &dto.QuoteResponse{
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
		ValidUntil:       q.Terms.ValidUntil,
		PaymentTerms:     q.Terms.PaymentTerms,
		DepositPercent:   q.Terms.DepositPercent,
		RequiresApproval: q.Approval.RequiresApproval,
		ApprovalStatus:   string(q.Approval.Status),
		ApprovedBy:       q.Approval.ApprovedBy,
		ApprovedAt:       q.Approval.ApprovedAt,
		ApprovalReason:   q.Approval.Reason,
		SentAt:           q.Communication.SentAt,
		ClientApprovedAt: q.ClientResponse.ApprovedAt,
		ConvertedToJobID: q.ConvertedToJobID,
		Status:           string(q.Status),
		Version:          q.Version,
		StatusChangedAt:  q.StatusChangedAt,
		CreatedAt:        q.CreatedAt,
	}
}

func toPhasesResponse(p entity.JobPhases) dto.JobPhasesResponse {
	return dto.JobPhasesResponse{
		ReadyForYardAt:     p.ReadyForYardAt,
		PickingStartedAt:   p.PickingStartedAt,
		PickingCompletedAt: p.PickingCompletedAt,
		StagingCompletedAt: p.StagingCompletedAt,
		LoadedAt:           p.LoadedAt,
		WorkStartedAt:      p.WorkStartedAt,
		WorkCompletedAt:    p.WorkCompletedAt,
	}
}

func toJobResponse(j *entity.Job) *dto.JobResponse {
	return &dto.JobResponse{
		ID:              j.ID,
		QuoteID:         j.QuoteID,
		RequestID:       j.RequestID,
		ClientID:        j.ClientID,
		Kind:            j.Kind,
		ScheduledDate:   j.ScheduledDate,
		TimeWindow:      j.TimeWindow,
		EstimatedHours:  j.EstimatedHours,
		CrewID:          j.CrewID,
		RepID:           j.RepID,
		TerritoryID:     j.TerritoryID,
		ProductType:     j.ProductType,
		LinearFeet:      j.LinearFeet,
		ContractTotal:   j.ContractTotal,
		Phases:          toPhasesResponse(j.Phases),
		InvoiceID:       j.InvoiceID,
		Status:          string(j.Status),
		Version:         j.Version,
		StatusChangedAt: j.StatusChangedAt,
		CreatedAt:       j.CreatedAt,
	}
}

func toInvoiceResponse(inv *entity.Invoice, payments []*entity.Payment) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
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
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		SyncStatus:      inv.Sync.Status,
		SyncedAt:        inv.Sync.SyncedAt,
		SyncError:       inv.Sync.Error,
		Status:          string(inv.Status),
		Version:         inv.Version,
		StatusChangedAt: inv.StatusChangedAt,
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     p.Method,
			Reference:  p.Reference,
			ReceivedAt: p.ReceivedAt,
			RecordedBy: p.RecordedBy,
		})
	}
	return out
}

func toHistoryResponse(e *entity.StatusHistoryEntry) dto.StatusHistoryResponse {
	return dto.StatusHistoryResponse{
		ID:         e.ID,
		Sequence:   e.Sequence,
		EntityType: string(e.EntityType),
		EntityID:   e.EntityID,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ChangedAt:  e.ChangedAt,
		ActorID:    e.ActorID,
		Note:       e.Note,
	}
}

func toFeasibilityResponse(targetType entity.EntityType, targetID, assigneeID, kind string, res rules.FeasibilityResult) *dto.FeasibilityResponse {
	return &dto.FeasibilityResponse{
		TargetType:   string(targetType),
		TargetID:     targetID,
		AssigneeID:   assigneeID,
		AssigneeKind: kind,
		OK:           res.OK,
		Reason:       res.Reason,
		Detail:       res.Detail,
	}
}
