package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

var fixtureNow = time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC)

func newRequestFixture() *entity.ServiceRequest {
	return &entity.ServiceRequest{
		ID:                 uuid.New().String(),
		ClientID:           "cli-1",
		ProductType:        "vinyl_privacy",
		LinearFeetEstimate: decimal.NewFromInt(120),
		TerritoryID:        "ter-n",
		Status:             entity.RequestPending,
		Priority:           entity.PriorityNormal,
		Version:            1,
		StatusChangedAt:    fixtureNow,
		CreatedAt:          fixtureNow,
		UpdatedAt:          fixtureNow,
	}
}

func newQuoteFixture() *entity.Quote {
	return &entity.Quote{
		ID:          uuid.New().String(),
		ClientID:    "cli-1",
		TerritoryID: "ter-n",
		ProductType: "vinyl_privacy",
		LinearFeet:  decimal.NewFromInt(120),
		Pricing: entity.QuotePricing{
			Subtotal: decimal.NewFromInt(8000),
			Total:    decimal.NewFromInt(8000),
			Cost:     decimal.NewFromInt(5000),
		},
		Approval:        entity.QuoteApproval{Status: entity.ApprovalNone},
		Status:          entity.QuoteDraft,
		Version:         1,
		StatusChangedAt: fixtureNow,
		CreatedAt:       fixtureNow,
		UpdatedAt:       fixtureNow,
	}
}

func newJobFixture() *entity.Job {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	return &entity.Job{
		ID:              uuid.New().String(),
		ClientID:        "cli-1",
		Kind:            entity.JobKindWarranty,
		ScheduledDate:   &day,
		CrewID:          "crew-1",
		TerritoryID:     "ter-n",
		ProductType:     "vinyl_privacy",
		LinearFeet:      decimal.NewFromInt(120),
		ContractTotal:   decimal.NewFromInt(9000),
		Status:          entity.JobScheduled,
		Version:         1,
		StatusChangedAt: fixtureNow,
		CreatedAt:       fixtureNow,
		UpdatedAt:       fixtureNow,
	}
}

func newInvoiceFixture() *entity.Invoice {
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		JobID:           uuid.New().String(),
		ClientID:        "cli-1",
		InvoiceNumber:   "INV-20250609-" + uuid.New().String()[:6],
		Subtotal:        decimal.NewFromInt(9000),
		Total:           decimal.NewFromInt(9000),
		InvoiceDate:     fixtureNow,
		DueDate:         fixtureNow.AddDate(0, 0, 30),
		Sync:            entity.InvoiceSync{Status: entity.SyncNotSynced},
		Status:          entity.InvoiceDraft,
		Version:         1,
		StatusChangedAt: fixtureNow,
		CreatedAt:       fixtureNow,
		UpdatedAt:       fixtureNow,
	}
	inv.RecalculateBalance()
	return inv
}
