package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/workflow"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workflow  *workflow.WorkflowUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API. Todo /api/v1 requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewWorkflowHandler(deps.Workflow, deps.Log)
	api := app.Group("/api/v1", AuthMiddleware(deps.JWTSecret))

	// Motor de estados
	api.Post("/transitions", h.ApplyTransition)
	api.Get("/workflow/:entity/next", h.LegalNextStates)
	api.Get("/history/:entity/:id", h.History)

	// Solicitudes
	requests := api.Group("/requests")
	requests.Post("/", h.CreateRequest)
	requests.Get("/:id", h.GetRequest)
	requests.Post("/:id/assessment", h.ScheduleAssessment)
	requests.Get("/:id/feasibility/:rep", h.AssessmentFeasibility)
	requests.Post("/:id/convert-to-quote", h.ConvertRequestToQuote)
	requests.Post("/:id/convert-to-job", h.ConvertRequestToJob)

	// Cotizaciones
	quotes := api.Group("/quotes")
	quotes.Post("/", h.CreateQuote)
	quotes.Get("/:id", h.GetQuote)
	quotes.Put("/:id/pricing", h.UpdateQuotePricing)
	quotes.Get("/:id/approval", h.ApprovalEvaluation)
	approvers := RequireRole(entity.RoleAdmin, entity.RoleManager)
	quotes.Post("/:id/approve", approvers, h.ApproveQuote)
	quotes.Post("/:id/reject", approvers, h.RejectQuote)
	quotes.Post("/:id/convert", h.ConvertQuoteToJob)

	// Trabajos
	jobs := api.Group("/jobs")
	jobs.Get("/:id", h.GetJob)
	jobs.Put("/:id/schedule", h.ScheduleJob)
	jobs.Get("/:id/yard", h.YardStatus)
	jobs.Get("/:id/feasibility/:assignee", h.Feasibility)
	jobs.Post("/:id/crew", h.AssignCrew)
	jobs.Post("/:id/rep", h.AssignRep)
	jobs.Post("/:id/invoice", h.GenerateInvoice)

	// Facturas
	invoices := api.Group("/invoices")
	invoices.Get("/:id", h.GetInvoice)
	invoices.Post("/:id/payments", h.RecordPayment)
	invoices.Put("/:id/sync", h.MarkInvoiceSync)
}
