package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/application/simulation"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

// DianSimulatorHandler procesos de validación y envío consultables por trackId.
type DianSimulatorHandler struct {
	uc *simulation.UseCase
}

// NewDianSimulatorHandler construye el handler.
func NewDianSimulatorHandler(uc *simulation.UseCase) *DianSimulatorHandler {
	return &DianSimulatorHandler{uc: uc}
}

// ValidateXML godoc
// @Summary      Validar un XML contra el simulador DIAN (asíncrono)
// @Tags         dian-simulator
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateXMLRequest  true  "xmlContent y opcionalmente companyId o certificateId"
// @Success      202   {object}  dto.Envelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/dian-simulator/validate-xml [post]
func (h *DianSimulatorHandler) ValidateXML(c *fiber.Ctx) error {
	var in dto.ValidateXMLRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CompanyID != "" && !canAccessCompany(c, in.CompanyID) {
		return forbidden(c)
	}
	trackID, err := h.uc.ValidateXML(c.UserContext(), scopeCompany(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return accepted(c, trackID)
}

// SendInvoice godoc
// @Summary      Enviar una factura guardada (asíncrono)
// @Tags         dian-simulator
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendInvoiceRequest  true  "invoiceId"
// @Success      202   {object}  dto.Envelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/dian-simulator/send-invoice [post]
func (h *DianSimulatorHandler) SendInvoice(c *fiber.Ctx) error {
	var in dto.SendInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	trackID, err := h.uc.SendInvoice(c.UserContext(), scopeCompany(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return accepted(c, trackID)
}

// Logs godoc
// @Summary      Líneas acumuladas del proceso
// @Tags         dian-simulator
// @Security     Bearer
// @Produce      json
// @Param        trackId  path  string  true  "trackId devuelto al lanzar el proceso"
// @Success      200      {object}  dto.Envelope
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/dian-simulator/logs/{trackId} [get]
func (h *DianSimulatorHandler) Logs(c *fiber.Ctx) error {
	out, err := h.uc.Logs(c.Params("trackId"), scopeCompany(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Status godoc
// @Summary      Estado del proceso y su resultado al terminar
// @Tags         dian-simulator
// @Security     Bearer
// @Produce      json
// @Param        trackId  path  string  true  "trackId devuelto al lanzar el proceso"
// @Success      200      {object}  dto.Envelope
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/dian-simulator/status/{trackId} [get]
func (h *DianSimulatorHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.Params("trackId"), scopeCompany(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func accepted(c *fiber.Ctx, trackID string) error {
	return c.Status(fiber.StatusAccepted).JSON(dto.Envelope{
		Success: true,
		Message: "proceso iniciado",
		Data:    dto.ProcessAccepted{TrackID: trackID, Status: string(simulator.ProcessProcessing)},
	})
}
