package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/application/workflow"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// WorkflowHandler expone el motor de flujo (protegido).
type WorkflowHandler struct {
	uc   *workflow.WorkflowUseCase
	errs errorMapper
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(uc *workflow.WorkflowUseCase, log *logger.Logger) *WorkflowHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowHandler{uc: uc, errs: errorMapper{log: log.Component("http")}}
}

// ApplyTransition mueve una entidad a un nuevo estado.
// @Summary      Aplicar transición
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        If-Match  header  string                 false  "Versión esperada"
// @Param        body      body    dto.TransitionCommand  true   "Transición"
// @Success      200  {object}  dto.TransitionResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/transitions [post]
func (h *WorkflowHandler) ApplyTransition(c *fiber.Ctx) error {
	var in dto.TransitionCommand
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.ApplyTransition(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// LegalNextStates estados alcanzables desde status.
// @Summary      Estados siguientes
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        entity  path   string  true  "request | quote | job | invoice"
// @Param        status  query  string  true  "Estado actual"
// @Success      200  {array}   dto.StatusOption
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/workflow/{entity}/next [get]
func (h *WorkflowHandler) LegalNextStates(c *fiber.Ctx) error {
	out, err := h.uc.LegalNextStates(c.Params("entity"), c.Query("status"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// History historial de estados de una entidad.
// @Summary      Historial de estados
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        entity  path  string  true  "request | quote | job | invoice"
// @Param        id      path  string  true  "ID de la entidad"
// @Success      200  {array}   dto.StatusHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/history/{entity}/{id} [get]
func (h *WorkflowHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.HistoryFor(c.UserContext(), c.Params("entity"), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
