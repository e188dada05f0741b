package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/workflow"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/fencepro-workflow/internal/interfaces/http"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// apiClient app Fiber completa sobre un almacén SQLite temporal con territorio ter-n,
// cuadrilla crew-1 (500 LF/día) y tipo de proyecto vinyl_privacy.
type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "api.db"), true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	repos := sqlite.NewRepositories(db)
	ref := repos.Reference
	require.NoError(t, ref.UpsertTerritory(ctx, &entity.Territory{ID: "ter-n", Code: "N", Name: "Norte", Active: true}))
	require.NoError(t, ref.UpsertProjectType(ctx, &entity.ProjectType{ID: "pt-vinyl", Name: "Vinyl Privacy", ProductType: "vinyl_privacy"}))
	require.NoError(t, ref.UpsertCrew(ctx, &entity.Crew{ID: "crew-1", Name: "Norte A", MaxDailyLF: decimal.NewFromInt(500), Active: true}))
	require.NoError(t, ref.UpsertCoverage(ctx, &entity.TerritoryCoverage{AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", TerritoryID: "ter-n"}))
	require.NoError(t, ref.UpsertSkill(ctx, &entity.Skill{AssigneeKind: entity.AssigneeCrew, AssigneeID: "crew-1", ProjectTypeID: "pt-vinyl", Proficiency: entity.ProficiencyAdvanced}))

	clock := fixedClock{time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC)}
	uc := workflow.NewWorkflowUseCase(repos, sqlite.NewTxRunner(db), clock, nil, workflow.DefaultConfig(), nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Workflow: uc, JWTSecret: testJWTSecret, Log: logger.Nop()})
	return &apiClient{t: t, app: app}
}

// do envía method path con el rol indicado; headers opcionales en pares clave, valor.
func (a *apiClient) do(method, path, role string, body interface{}, headers ...string) (*http.Response, []byte) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(a.t, role))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, out
}

func (a *apiClient) createQuote(subtotal, cost int64) dto.QuoteResponse {
	a.t.Helper()
	resp, body := a.do(http.MethodPost, "/api/v1/quotes", "office", dto.CreateQuoteRequest{
		ClientID:    "cli-1",
		TerritoryID: "ter-n",
		ProductType: "vinyl_privacy",
		LinearFeet:  decimal.NewFromInt(120),
		Pricing:     dto.PricingInput{Subtotal: decimal.NewFromInt(subtotal), Cost: decimal.NewFromInt(cost)},
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode, string(body))
	var q dto.QuoteResponse
	require.NoError(a.t, json.Unmarshal(body, &q))
	return q
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e
}

func TestAPI_CrearCotizacion_DevuelveETag(t *testing.T) {
	api := newAPI(t)
	resp, body := api.do(http.MethodPost, "/api/v1/quotes", "office", dto.CreateQuoteRequest{
		ClientID: "cli-1", TerritoryID: "ter-n", ProductType: "vinyl_privacy",
		LinearFeet: decimal.NewFromInt(80),
		Pricing:    dto.PricingInput{Subtotal: decimal.NewFromInt(8000), Cost: decimal.NewFromInt(5000)},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, `"1"`, resp.Header.Get(fiber.HeaderETag))

	var q dto.QuoteResponse
	require.NoError(t, json.Unmarshal(body, &q))
	assert.Equal(t, "draft", q.Status)
	assert.False(t, q.RequiresApproval)

	resp, _ = api.do(http.MethodGet, "/api/v1/quotes/"+q.ID, "office", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"1"`, resp.Header.Get(fiber.HeaderETag))
}

func TestAPI_EnviarCotizacionGrande_422ConMotivos(t *testing.T) {
	api := newAPI(t)
	q := api.createQuote(30000, 24000) // total sobre el umbral, margen 20 %

	resp, body := api.do(http.MethodPost, "/api/v1/transitions", "office", dto.TransitionCommand{
		EntityType: "quote", EntityID: q.ID, ToStatus: "sent",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))
	e := decodeError(t, body)
	assert.Equal(t, "APPROVAL_REQUIRED", e.Code)
	assert.Equal(t, []string{"QUOTE_TOTAL"}, e.Reasons)

	// La oficina no aprueba
	resp, body = api.do(http.MethodPost, "/api/v1/quotes/"+q.ID+"/approve", "office", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodPost, "/api/v1/quotes/"+q.ID+"/approve", "manager", dto.ApprovalDecisionRequest{Reason: "cliente recurrente"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodPost, "/api/v1/transitions", "office", dto.TransitionCommand{
		EntityType: "quote", EntityID: q.ID, ToStatus: "sent",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestAPI_IfMatchObsoleto_409(t *testing.T) {
	api := newAPI(t)
	q := api.createQuote(8000, 5000)

	resp, body := api.do(http.MethodPost, "/api/v1/transitions", "office",
		dto.TransitionCommand{EntityType: "quote", EntityID: q.ID, ToStatus: "sent"},
		fiber.HeaderIfMatch, `"1"`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, `"2"`, resp.Header.Get(fiber.HeaderETag))

	resp, body = api.do(http.MethodPost, "/api/v1/transitions", "office",
		dto.TransitionCommand{EntityType: "quote", EntityID: q.ID, ToStatus: "approved"},
		fiber.HeaderIfMatch, `"1"`)
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))
	assert.Equal(t, "CONCURRENT_MODIFICATION", decodeError(t, body).Code)

	resp, body = api.do(http.MethodPost, "/api/v1/transitions", "office",
		dto.TransitionCommand{EntityType: "quote", EntityID: q.ID, ToStatus: "approved"},
		fiber.HeaderIfMatch, "abc")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Equal(t, "VALIDATION", decodeError(t, body).Code)
}

func TestAPI_TransicionIlegalYNoEncontrado(t *testing.T) {
	api := newAPI(t)
	q := api.createQuote(8000, 5000)

	resp, body := api.do(http.MethodPost, "/api/v1/transitions", "office", dto.TransitionCommand{
		EntityType: "quote", EntityID: q.ID, ToStatus: "converted",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))
	assert.Equal(t, "ILLEGAL_TRANSITION", decodeError(t, body).Code)

	resp, body = api.do(http.MethodGet, "/api/v1/quotes/no-existe", "office", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, string(body))
	assert.Equal(t, "NOT_FOUND", decodeError(t, body).Code)

	resp, _ = api.do(http.MethodPost, "/api/v1/transitions", "office", dto.TransitionCommand{
		EntityType: "widget", EntityID: q.ID, ToStatus: "sent",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_EstadosSiguientesEHistorial(t *testing.T) {
	api := newAPI(t)
	q := api.createQuote(8000, 5000)

	resp, body := api.do(http.MethodGet, "/api/v1/workflow/quote/next?status=draft", "office", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var opts []dto.StatusOption
	require.NoError(t, json.Unmarshal(body, &opts))
	require.NotEmpty(t, opts)

	resp, body = api.do(http.MethodGet, "/api/v1/history/quote/"+q.ID, "office", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var history []dto.StatusHistoryResponse
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, "draft", history[0].ToStatus)
}

func TestAPI_AsignarCuadrillaSinCapacidad_422(t *testing.T) {
	api := newAPI(t)

	resp, body := api.do(http.MethodPost, "/api/v1/requests", "office", dto.CreateRequestRequest{
		ClientID:           "cli-1",
		ProductType:        "vinyl_privacy",
		LinearFeetEstimate: decimal.NewFromInt(600),
		TerritoryID:        "ter-n",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var r dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &r))

	resp, body = api.do(http.MethodPost, "/api/v1/requests/"+r.ID+"/convert-to-job", "office", dto.ConvertToJobRequest{ContractTotal: decimal.NewFromInt(1000)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var conv dto.ConversionResponse
	require.NoError(t, json.Unmarshal(body, &conv))

	resp, body = api.do(http.MethodPut, "/api/v1/jobs/"+conv.TargetID+"/schedule", "office", dto.ScheduleJobRequest{
		ScheduledDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), TimeWindow: "AM",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(http.MethodGet, "/api/v1/jobs/"+conv.TargetID+"/feasibility/crew-1", "office", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var feas dto.FeasibilityResponse
	require.NoError(t, json.Unmarshal(body, &feas))
	assert.False(t, feas.OK)
	assert.Equal(t, "CAPACITY_EXCEEDED", feas.Reason)

	resp, body = api.do(http.MethodPost, "/api/v1/jobs/"+conv.TargetID+"/crew", "office", dto.AssignRequest{AssigneeID: "crew-1"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))
	assert.Equal(t, "CAPACITY_EXCEEDED", decodeError(t, body).Code)

	resp, body = api.do(http.MethodPost, "/api/v1/jobs/"+conv.TargetID+"/crew", "admin", dto.AssignRequest{AssigneeID: "crew-1", Override: true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.AssignmentResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Overridden)
}
