package workflow_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/application/workflow"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/sqlite"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	now    = time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC)
	jobDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC) // martes

	admin  = entity.Actor{ID: "u-admin", Name: "Ana", Role: entity.RoleAdmin}
	office = entity.Actor{ID: "u-office", Name: "Luis", Role: entity.RoleOffice}
)

const productVinyl = "vinyl_privacy"

type harness struct {
	db    *gorm.DB
	repos ports.Repositories
	tx    ports.TxRunner
	uc    *workflow.WorkflowUseCase
}

// newHarness abre un almacén SQLite en un directorio temporal con datos de referencia:
// territorio ter-n, cuadrilla crew-1 (500 LF/día) y vendedor rep-1 (2 evaluaciones/día).
func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "fence.db"), true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	h := &harness{db: db, repos: sqlite.NewRepositories(db), tx: sqlite.NewTxRunner(db)}
	h.seedReference(t)
	h.uc = workflow.NewWorkflowUseCase(h.repos, h.tx, fixedClock{now}, nil, workflow.DefaultConfig(), nil)
	return h
}

func (h *harness) seedReference(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	ref := h.repos.Reference
	require.NoError(t, ref.UpsertTerritory(ctx, &entity.Territory{ID: "ter-n", Code: "N", Name: "Norte", Active: true}))
	require.NoError(t, ref.UpsertTerritory(ctx, &entity.Territory{ID: "ter-s", Code: "S", Name: "Sur", Active: true}))
	require.NoError(t, ref.UpsertProjectType(ctx, &entity.ProjectType{ID: "pt-vinyl", Name: "Vinyl Privacy", ProductType: productVinyl}))

	require.NoError(t, ref.UpsertCrew(ctx, &entity.Crew{ID: "crew-1", Name: "Norte A", MaxDailyLF: decimal.NewFromInt(500), Active: true}))
	require.NoError(t, ref.UpsertCoverage(ctx, &entity.TerritoryCoverage{AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", TerritoryID: "ter-n"}))
	require.NoError(t, ref.UpsertSkill(ctx, &entity.Skill{AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", ProjectTypeID: "pt-vinyl", Proficiency: entity.ProficiencyAdvanced}))

	require.NoError(t, ref.UpsertProfile(ctx, &entity.TeamProfile{ID: "rep-1", Name: "Sofía", Role: entity.RoleSalesRep, MaxDailyAssessments: 2, Active: true}))
	require.NoError(t, ref.UpsertCoverage(ctx, &entity.TerritoryCoverage{AssigneeKind: entity.AssigneeProfile, AssigneeID: "rep-1", TerritoryID: "ter-n"}))
	require.NoError(t, ref.UpsertSkill(ctx, &entity.Skill{AssigneeKind: entity.AssigneeProfile, AssigneeID: "rep-1", ProjectTypeID: "pt-vinyl", Proficiency: entity.ProficiencyBasic}))
}

func (h *harness) withUseCase(publisher ports.TransitionPublisher) *workflow.WorkflowUseCase {
	return workflow.NewWorkflowUseCase(h.repos, h.tx, fixedClock{now}, publisher, workflow.DefaultConfig(), nil)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (h *harness) createRequest(t *testing.T) *dto.RequestResponse {
	t.Helper()
	r, err := h.uc.CreateRequest(context.Background(), office, dto.CreateRequestRequest{
		ClientID:           "cli-1",
		Contact:            dto.ContactDTO{Name: "Marta Gómez", Phone: "555-0101"},
		Address:            dto.AddressDTO{Street: "12 Oak St", City: "Austin", State: "TX", Zip: "78701"},
		ProductType:        productVinyl,
		LinearFeetEstimate: dec(50),
		TerritoryID:        "ter-n",
	})
	require.NoError(t, err)
	return r
}

// createSmallQuote cotización que no dispara la compuerta.
func (h *harness) createSmallQuote(t *testing.T) *dto.QuoteResponse {
	t.Helper()
	q, err := h.uc.CreateQuote(context.Background(), office, dto.CreateQuoteRequest{
		ClientID:    "cli-1",
		TerritoryID: "ter-n",
		ProductType: productVinyl,
		LinearFeet:  dec(50),
		Pricing:     dto.PricingInput{Subtotal: dec(8000), TaxAmount: dec(640), Cost: dec(5000)},
	})
	require.NoError(t, err)
	require.False(t, q.RequiresApproval)
	return q
}

// createScheduledJob trabajo de garantía programado en jobDay.
func (h *harness) createScheduledJob(t *testing.T, contract int64) *dto.JobResponse {
	t.Helper()
	ctx := context.Background()
	r := h.createRequest(t)
	conv, err := h.uc.ConvertRequestToJob(ctx, office, r.ID, dto.ConvertToJobRequest{ContractTotal: dec(contract)})
	require.NoError(t, err)
	j, err := h.uc.ScheduleJob(ctx, office, conv.TargetID, dto.ScheduleJobRequest{ScheduledDate: jobDay, TimeWindow: "AM", EstimatedHours: dec(6)})
	require.NoError(t, err)
	return j
}

func (h *harness) transition(t *testing.T, et entity.EntityType, id, to string) *dto.TransitionResult {
	t.Helper()
	res, err := h.uc.ApplyTransition(context.Background(), office, dto.TransitionCommand{EntityType: string(et), EntityID: id, ToStatus: to})
	require.NoError(t, err, "%s %s -> %s", et, id, to)
	return res
}
