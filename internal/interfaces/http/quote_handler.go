package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
)

// CreateQuote crea una cotización en borrador.
// @Summary      Crear cotización
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "Cotización"
// @Success      201  {object}  dto.QuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes [post]
func (h *WorkflowHandler) CreateQuote(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateQuote(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetQuote GET /api/v1/quotes/:id
func (h *WorkflowHandler) GetQuote(c *fiber.Ctx) error {
	out, err := h.uc.GetQuote(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// UpdateQuotePricing recalcula precios, margen y la compuerta de aprobación.
// @Summary      Actualizar precios
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la cotización"
// @Param        body  body  dto.UpdateQuotePricingRequest  true  "Precios"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/{id}/pricing [put]
func (h *WorkflowHandler) UpdateQuotePricing(c *fiber.Ctx) error {
	var in dto.UpdateQuotePricingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.UpdateQuotePricing(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// ApprovalEvaluation evalúa la compuerta de aprobación con los precios actuales.
// @Summary      Evaluar aprobación
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.ApprovalEvaluationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/{id}/approval [get]
func (h *WorkflowHandler) ApprovalEvaluation(c *fiber.Ctx) error {
	out, err := h.uc.RequiresApproval(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ApproveQuote aprobación gerencial (admin o manager).
// @Summary      Aprobar cotización
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID de la cotización"
// @Param        body  body  dto.ApprovalDecisionRequest  false  "Motivo"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/{id}/approve [post]
func (h *WorkflowHandler) ApproveQuote(c *fiber.Ctx) error {
	return h.decideApproval(c, true)
}

// RejectQuote rechazo gerencial (admin o manager).
// @Summary      Rechazar cotización
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true   "ID de la cotización"
// @Param        body  body  dto.ApprovalDecisionRequest  false  "Motivo"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/{id}/reject [post]
func (h *WorkflowHandler) RejectQuote(c *fiber.Ctx) error {
	return h.decideApproval(c, false)
}

func (h *WorkflowHandler) decideApproval(c *fiber.Ctx, approve bool) error {
	var in dto.ApprovalDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	var (
		out *dto.QuoteResponse
		err error
	)
	if approve {
		out, err = h.uc.ApproveQuote(c.UserContext(), GetActor(c), c.Params("id"), in)
	} else {
		out, err = h.uc.RejectQuote(c.UserContext(), GetActor(c), c.Params("id"), in)
	}
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// ConvertQuoteToJob convierte una cotización aprobada por el cliente en trabajo.
// @Summary      Convertir cotización en trabajo
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la cotización"
// @Param        body  body  dto.ConvertToJobRequest  true  "Firma y orden de compra"
// @Success      201  {object}  dto.ConversionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/quotes/{id}/convert [post]
func (h *WorkflowHandler) ConvertQuoteToJob(c *fiber.Ctx) error {
	var in dto.ConvertToJobRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.ConvertQuoteToJob(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
