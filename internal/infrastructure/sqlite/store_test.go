package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "data", "fence.db"), true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return db
}

var base = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

func newRequest(id string) *entity.ServiceRequest {
	return &entity.ServiceRequest{
		ID:                 id,
		ClientID:           "cli-1",
		ProductType:        "vinyl_privacy",
		LinearFeetEstimate: decimal.NewFromInt(120),
		TerritoryID:        "ter-n",
		Status:             entity.RequestPending,
		Priority:           entity.PriorityNormal,
		Version:            1,
		StatusChangedAt:    base,
		CreatedAt:          base,
		UpdatedAt:          base,
	}
}

func newJob(id, crewID string, lf int64, day *time.Time) *entity.Job {
	return &entity.Job{
		ID:              id,
		ClientID:        "cli-1",
		Kind:            entity.JobKindNewSale,
		ScheduledDate:   day,
		CrewID:          crewID,
		TerritoryID:     "ter-n",
		ProductType:     "vinyl_privacy",
		LinearFeet:      decimal.NewFromInt(lf),
		ContractTotal:   decimal.NewFromInt(9000),
		Status:          entity.JobScheduled,
		Version:         1,
		StatusChangedAt: base,
		CreatedAt:       base,
		UpdatedAt:       base,
	}
}

// ─── Solicitudes ────────────────────────────────────────────────────────────────

func TestRequestRepo_GetByID_NoExiste(t *testing.T) {
	repos := sqlite.NewRepositories(openTestDB(t))

	got, err := repos.Requests.GetByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got, "un id inexistente debe devolver nil, nil")
}

func TestRequestRepo_UpdateCondicional(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))
	r := newRequest("req-1")
	require.NoError(t, repos.Requests.Create(ctx, r))

	at := base.Add(24 * time.Hour)
	r.Assessment.ScheduledAt = &at
	r.Assessment.AssignedRepID = "rep-1"
	r.Status = entity.RequestAssessmentScheduled
	require.NoError(t, repos.Requests.Update(ctx, r, 1))
	assert.Equal(t, int64(2), r.Version, "la versión debe incrementarse")

	got, err := repos.Requests.GetByID(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RequestAssessmentScheduled, got.Status)
	assert.Equal(t, int64(2), got.Version)
	require.NotNil(t, got.Assessment.ScheduledAt)
	assert.True(t, at.Equal(*got.Assessment.ScheduledAt))
	assert.True(t, got.LinearFeetEstimate.Equal(decimal.NewFromInt(120)))

	// Versión obsoleta: ninguna fila coincide
	stale := newRequest("req-1")
	stale.Status = entity.RequestArchived
	err = repos.Requests.Update(ctx, stale, 1)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	got, err = repos.Requests.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAssessmentScheduled, got.Status, "la escritura perdedora no debe aplicarse")
}

func TestRequestRepo_CountAssessmentsForRep(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))

	day := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	other := day.Add(24 * time.Hour)
	for i, tc := range []struct {
		rep    string
		at     time.Time
		status entity.RequestStatus
	}{
		{"rep-1", day, entity.RequestAssessmentScheduled},
		{"rep-1", day.Add(3 * time.Hour), entity.RequestAssessmentScheduled},
		{"rep-1", other, entity.RequestAssessmentScheduled},
		{"rep-2", day, entity.RequestAssessmentScheduled},
		{"rep-1", day, entity.RequestArchived},
		{"rep-1", day, entity.RequestPending},
	} {
		r := newRequest(string(rune('a' + i)))
		at := tc.at
		r.Assessment.ScheduledAt = &at
		r.Assessment.AssignedRepID = tc.rep
		r.Status = tc.status
		require.NoError(t, repos.Requests.Create(ctx, r))
	}

	n, err := repos.Requests.CountAssessmentsForRep(ctx, "rep-1", day, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "solo cuentan las del mismo día, sin archivadas ni pendientes")

	n, err = repos.Requests.CountAssessmentsForRep(ctx, "rep-1", day, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "la solicitud excluida no cuenta")
}

// ─── Trabajos ───────────────────────────────────────────────────────────────────

func TestJobRepo_FasesYFecha(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	j := newJob("job-1", "crew-1", 100, &day)
	ready := base.Add(time.Hour)
	j.Phases.ReadyForYardAt = &ready
	j.Status = entity.JobReadyForYard
	require.NoError(t, repos.Jobs.Create(ctx, j))

	got, err := repos.Jobs.GetByID(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, got.ScheduledDate)
	assert.True(t, day.Equal(*got.ScheduledDate))
	require.NotNil(t, got.Phases.ReadyForYardAt)
	assert.True(t, ready.Equal(*got.Phases.ReadyForYardAt))
	assert.Nil(t, got.Phases.PickingStartedAt)
}

func TestJobRepo_FechaCorruptaDevuelveError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repos := sqlite.NewRepositories(db)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Jobs.Create(ctx, newJob("job-1", "crew-1", 100, &day)))
	require.NoError(t, db.Exec("UPDATE jobs SET ready_for_yard_at = ? WHERE id = ?", "ayer por la tarde", "job-1").Error)

	got, err := repos.Jobs.GetByID(ctx, "job-1")
	require.Error(t, err, "una marca ilegible no puede leerse como fase sin registrar")
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "ayer por la tarde")

	require.NoError(t, db.Exec("UPDATE jobs SET ready_for_yard_at = NULL, scheduled_date = ? WHERE id = ?", "10/06/2025", "job-1").Error)
	_, err = repos.Jobs.GetByID(ctx, "job-1")
	assert.Error(t, err, "una fecha programada ilegible tampoco se descarta")
}

func TestJobRepo_SumLinearFeetForCrew(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	require.NoError(t, repos.Jobs.Create(ctx, newJob("j1", "crew-1", 300, &day)))
	require.NoError(t, repos.Jobs.Create(ctx, newJob("j2", "crew-1", 180, &day)))
	require.NoError(t, repos.Jobs.Create(ctx, newJob("j3", "crew-1", 90, &next)))
	require.NoError(t, repos.Jobs.Create(ctx, newJob("j4", "crew-2", 50, &day)))
	require.NoError(t, repos.Jobs.Create(ctx, newJob("j5", "crew-1", 70, nil)))

	sum, err := repos.Jobs.SumLinearFeetForCrew(ctx, "crew-1", day, "")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(480)), "esperado 480, obtenido %s", sum)

	sum, err = repos.Jobs.SumLinearFeetForCrew(ctx, "crew-1", day, "j1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(180)))
}

// ─── Historial ──────────────────────────────────────────────────────────────────

func TestHistoryRepo_SecuenciaYOrden(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))

	draft := "draft"
	entries := []*entity.StatusHistoryEntry{
		{ID: "h1", EntityType: entity.EntityQuote, EntityID: "q1", ToStatus: "draft", ChangedAt: base, ActorID: "u1"},
		{ID: "h2", EntityType: entity.EntityQuote, EntityID: "q2", ToStatus: "draft", ChangedAt: base, ActorID: "u1"},
		{ID: "h3", EntityType: entity.EntityQuote, EntityID: "q1", FromStatus: &draft, ToStatus: "sent", ChangedAt: base, ActorID: "u2", Note: "por correo"},
	}
	for _, e := range entries {
		require.NoError(t, repos.History.Append(ctx, e))
	}
	assert.Less(t, entries[0].Sequence, entries[1].Sequence)
	assert.Less(t, entries[1].Sequence, entries[2].Sequence)

	list, err := repos.History.ListByEntity(ctx, entity.EntityQuote, "q1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].FromStatus, "la creación no tiene estado origen")
	assert.Equal(t, "draft", list[0].ToStatus)
	require.NotNil(t, list[1].FromStatus)
	assert.Equal(t, "draft", *list[1].FromStatus)
	assert.Equal(t, "sent", list[1].ToStatus)
	assert.Equal(t, "por correo", list[1].Note)
}

// ─── Transacciones ──────────────────────────────────────────────────────────────

func TestTxRunner_RollbackSiFalla(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repos := sqlite.NewRepositories(db)
	tx := sqlite.NewTxRunner(db)

	require.NoError(t, repos.Requests.Create(ctx, newRequest("req-1")))
	boom := errors.New("fallo del historial")

	err := tx.RunInTx(ctx, func(r ports.Repositories) error {
		req, err := r.Requests.GetByID(ctx, "req-1")
		if err != nil {
			return err
		}
		req.Status = entity.RequestArchived
		if err := r.Requests.Update(ctx, req, 1); err != nil {
			return err
		}
		if err := r.History.Append(ctx, &entity.StatusHistoryEntry{
			ID: "h1", EntityType: entity.EntityRequest, EntityID: "req-1", ToStatus: "archived", ChangedAt: base, ActorID: "u1",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repos.Requests.GetByID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, got.Status, "el estado no debe cambiar tras rollback")
	assert.Equal(t, int64(1), got.Version)

	list, err := repos.History.ListByEntity(ctx, entity.EntityRequest, "req-1")
	require.NoError(t, err)
	assert.Empty(t, list, "el historial no debe conservar la entrada")
}

// ─── Referencia ─────────────────────────────────────────────────────────────────

func TestReferenceRepo_CoberturaYHabilidades(t *testing.T) {
	ctx := context.Background()
	repos := sqlite.NewRepositories(openTestDB(t))
	ref := repos.Reference

	require.NoError(t, ref.UpsertCoverage(ctx, &entity.TerritoryCoverage{
		AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", TerritoryID: "ter-n",
		Days: []time.Weekday{time.Monday, time.Tuesday},
	}))
	require.NoError(t, ref.UpsertCoverage(ctx, &entity.TerritoryCoverage{
		AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", TerritoryID: "ter-s",
	}))

	cov, err := ref.ListCoverage(ctx, entity.AssigneeCrew, "crew-1")
	require.NoError(t, err)
	require.Len(t, cov, 2)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday}, cov[0].Days)
	assert.Nil(t, cov[1].Days, "NULL significa todos los días")
	assert.True(t, cov[1].Covers(time.Sunday))

	skill := &entity.Skill{AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", ProjectTypeID: "pt-1", Proficiency: entity.ProficiencyTrainee}
	require.NoError(t, ref.UpsertSkill(ctx, skill))
	skill.Proficiency = entity.ProficiencyAdvanced
	require.NoError(t, ref.UpsertSkill(ctx, skill))

	skills, err := ref.ListSkills(ctx, entity.AssigneeCrew, "crew-1")
	require.NoError(t, err)
	require.Len(t, skills, 1, "el upsert no debe duplicar")
	assert.Equal(t, entity.ProficiencyAdvanced, skills[0].Proficiency)

	require.NoError(t, ref.UpsertCrew(ctx, &entity.Crew{ID: "crew-1", Name: "Norte", MaxDailyLF: decimal.NewFromInt(500), Active: false}))
	crew, err := ref.GetCrew(ctx, "crew-1")
	require.NoError(t, err)
	require.NotNil(t, crew)
	assert.False(t, crew.Active)
	assert.True(t, crew.MaxDailyLF.Equal(decimal.NewFromInt(500)))
}
