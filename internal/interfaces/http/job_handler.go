package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
)

// GetJob GET /api/v1/jobs/:id
func (h *WorkflowHandler) GetJob(c *fiber.Ctx) error {
	out, err := h.uc.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// ScheduleJob fija fecha y ventana del trabajo.
// @Summary      Programar trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del trabajo"
// @Param        body  body  dto.ScheduleJobRequest  true  "Fecha y ventana"
// @Success      200  {object}  dto.JobResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/jobs/{id}/schedule [put]
func (h *WorkflowHandler) ScheduleJob(c *fiber.Ctx) error {
	var in dto.ScheduleJobRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.ScheduleJob(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// YardStatus vista de patio del trabajo.
// @Summary      Estado de patio
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.YardStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/jobs/{id}/yard [get]
func (h *WorkflowHandler) YardStatus(c *fiber.Ctx) error {
	out, err := h.uc.YardStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Feasibility verifica si un asignado puede tomar el trabajo, sin registrar nada.
// @Summary      Factibilidad de asignación
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "ID del trabajo"
// @Param        assignee  path  string  true  "ID de cuadrilla o perfil"
// @Success      200  {object}  dto.FeasibilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/jobs/{id}/feasibility/{assignee} [get]
func (h *WorkflowHandler) Feasibility(c *fiber.Ctx) error {
	out, err := h.uc.CanAssign(c.UserContext(), c.Params("assignee"), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// AssignCrew asigna la cuadrilla tras verificar territorio, habilidad y capacidad.
// @Summary      Asignar cuadrilla
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del trabajo"
// @Param        body  body  dto.AssignRequest  true  "Cuadrilla"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/jobs/{id}/crew [post]
func (h *WorkflowHandler) AssignCrew(c *fiber.Ctx) error {
	return h.assign(c, true)
}

// AssignRep asigna el vendedor del trabajo.
// @Summary      Asignar vendedor
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del trabajo"
// @Param        body  body  dto.AssignRequest  true  "Vendedor"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/jobs/{id}/rep [post]
func (h *WorkflowHandler) AssignRep(c *fiber.Ctx) error {
	return h.assign(c, false)
}

func (h *WorkflowHandler) assign(c *fiber.Ctx, crew bool) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	var (
		out *dto.AssignmentResponse
		err error
	)
	if crew {
		out, err = h.uc.AssignCrew(c.UserContext(), GetActor(c), c.Params("id"), in)
	} else {
		out, err = h.uc.AssignRep(c.UserContext(), GetActor(c), c.Params("id"), in)
	}
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// GenerateInvoice factura un trabajo completado.
// @Summary      Generar factura
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del trabajo"
// @Param        body  body  dto.GenerateInvoiceRequest  false  "Impuestos y descuentos"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/jobs/{id}/invoice [post]
func (h *WorkflowHandler) GenerateInvoice(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.GenerateInvoice(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.Status(fiber.StatusCreated).JSON(out)
}
