package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
)

// CreateRequest registra una solicitud de servicio.
// @Summary      Crear solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Solicitud"
// @Success      201  {object}  dto.RequestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/requests [post]
func (h *WorkflowHandler) CreateRequest(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRequest(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetRequest GET /api/v1/requests/:id
func (h *WorkflowHandler) GetRequest(c *fiber.Ctx) error {
	out, err := h.uc.GetRequest(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// AssessmentFeasibility verifica el cupo y cobertura del vendedor sin registrar nada.
// @Summary      Factibilidad de evaluación
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID de la solicitud"
// @Param        rep   path   string  true   "ID del vendedor"
// @Param        date  query  string  false  "Fecha RFC3339 (por defecto la programada)"
// @Success      200  {object}  dto.FeasibilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id}/feasibility/{rep} [get]
func (h *WorkflowHandler) AssessmentFeasibility(c *fiber.Ctx) error {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if d, err = time.Parse("2006-01-02", raw); err != nil {
				return h.errs.write(c, domain.ErrInvalidInput)
			}
		}
		date = &d
	}
	out, err := h.uc.CanAssignAssessment(c.UserContext(), c.Params("rep"), c.Params("id"), date)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ScheduleAssessment programa la visita de evaluación con un vendedor.
// @Summary      Programar evaluación
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la solicitud"
// @Param        body  body  dto.ScheduleAssessmentRequest  true  "Vendedor y fecha"
// @Success      200  {object}  dto.ScheduleAssessmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id}/assessment [post]
func (h *WorkflowHandler) ScheduleAssessment(c *fiber.Ctx) error {
	var in dto.ScheduleAssessmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.ScheduleAssessment(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Request.Version)
	return c.JSON(out)
}

// ConvertRequestToQuote crea la cotización desde la solicitud.
// @Summary      Convertir solicitud en cotización
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la solicitud"
// @Param        body  body  dto.ConvertRequestToQuoteRequest  true  "Precios"
// @Success      201  {object}  dto.ConversionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id}/convert-to-quote [post]
func (h *WorkflowHandler) ConvertRequestToQuote(c *fiber.Ctx) error {
	var in dto.ConvertRequestToQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.ConvertRequestToQuote(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ConvertRequestToJob crea un trabajo de garantía directo desde la solicitud.
// @Summary      Convertir solicitud en trabajo
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la solicitud"
// @Param        body  body  dto.ConvertToJobRequest  true  "Monto del contrato"
// @Success      201  {object}  dto.ConversionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/requests/{id}/convert-to-job [post]
func (h *WorkflowHandler) ConvertRequestToJob(c *fiber.Ctx) error {
	var in dto.ConvertToJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.ConvertRequestToJob(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
