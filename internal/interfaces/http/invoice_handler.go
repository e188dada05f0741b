package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fencepro-workflow/internal/application/dto"
)

// GetInvoice obtiene la factura con sus abonos.
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/invoices/{id} [get]
func (h *WorkflowHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}

// RecordPayment registra un abono; con saldo cero la factura pasa a paid.
// @Summary      Registrar abono
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.RecordPaymentRequest  true  "Abono"
// @Success      201  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/invoices/{id}/payments [post]
func (h *WorkflowHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := ifMatch(c, &in.ExpectedVersion); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.RecordPayment(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MarkInvoiceSync estado de sincronización con el sistema contable.
// @Summary      Marcar sincronización
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la factura"
// @Param        body  body  dto.InvoiceSyncRequest  true  "Estado"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/invoices/{id}/sync [put]
func (h *WorkflowHandler) MarkInvoiceSync(c *fiber.Ctx) error {
	var in dto.InvoiceSyncRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.MarkInvoiceSync(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	setETag(c, out.Version)
	return c.JSON(out)
}
