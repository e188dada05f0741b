package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
	"github.com/jhoicas/fencepro-workflow/internal/domain"
	rules "github.com/jhoicas/fencepro-workflow/internal/domain/workflow"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

// errorMapper traduce errores de dominio a respuestas HTTP; lo demás es 500 y se registra.
type errorMapper struct {
	log *logger.Logger
}

func (m errorMapper) write(c *fiber.Ctx, err error) error {
	var approval *domain.ApprovalRequiredError
	if errors.As(err, &approval) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "APPROVAL_REQUIRED",
			Message: domain.ErrApprovalRequired.Error(),
			Reasons: approval.Reasons,
		})
	}
	var feasibility *domain.FeasibilityError
	if errors.As(err, &feasibility) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    rules.FailureCode(err),
			Message: err.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrApprovalRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "APPROVAL_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrIllegalTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ILLEGAL_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: domain.ErrConcurrentModification.Error()})
	case errors.Is(err, domain.ErrPhaseAlreadyRecorded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PHASE_ALREADY_RECORDED", Message: err.Error()})
	case errors.Is(err, domain.ErrPhaseOutOfOrder):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PHASE_OUT_OF_ORDER", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrTerritoryMismatch), errors.Is(err, domain.ErrSkillGap), errors.Is(err, domain.ErrCapacityExceeded):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: rules.FailureCode(err), Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}

	m.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ifMatch aplica la cabecera If-Match (versión esperada) cuando el cuerpo no la trae.
// Acepta 3, "3" y W/"3".
func ifMatch(c *fiber.Ctx, expected **int64) error {
	if *expected != nil {
		return nil
	}
	raw := strings.TrimSpace(c.Get(fiber.HeaderIfMatch))
	if raw == "" {
		return nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: If-Match debe ser la versión numérica", domain.ErrInvalidInput)
	}
	*expected = &v
	return nil
}

// setETag expone la versión resultante para el siguiente If-Match.
func setETag(c *fiber.Ctx, version int64) {
	c.Set(fiber.HeaderETag, `"`+strconv.FormatInt(version, 10)+`"`)
}
