package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/application/habilitacion"
)

// HabilitacionHandler fases de habilitación de una empresa (solo admin).
// Un rechazo de la DIAN simulada responde 200 con success=false y los errores en data.
type HabilitacionHandler struct {
	uc *habilitacion.UseCase
}

// NewHabilitacionHandler construye el handler.
func NewHabilitacionHandler(uc *habilitacion.UseCase) *HabilitacionHandler {
	return &HabilitacionHandler{uc: uc}
}

// Registro godoc
// @Summary      Registrar la empresa como facturador electrónico
// @Tags         habilitacion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.RegistroRequest  false  "Datos opcionales del registro"
// @Success      200        {object}  dto.Envelope
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/habilitacion/empresa/{companyId}/registro [post]
func (h *HabilitacionHandler) Registro(c *fiber.Ctx) error {
	var in dto.RegistroRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.uc.Registro(c.UserContext(), c.Params("companyId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return phase(c, res.Success, "Empresa registrada como facturador electrónico", "Registro rechazado por la DIAN", res)
}

// Resolucion godoc
// @Summary      Solicitar resolución de numeración
// @Tags         habilitacion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.ResolucionRequest  true  "Prefijo y rango"
// @Success      200        {object}  dto.Envelope
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/habilitacion/empresa/{companyId}/resolucion [post]
func (h *HabilitacionHandler) Resolucion(c *fiber.Ctx) error {
	var in dto.ResolucionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Resolucion(c.UserContext(), c.Params("companyId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return phase(c, res.Success, "Resolución de facturación asignada", "Solicitud de resolución rechazada", res)
}

// Certificado godoc
// @Summary      Generar certificado digital simulado
// @Tags         habilitacion
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      201        {object}  dto.Envelope
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/habilitacion/empresa/{companyId}/certificado [post]
func (h *HabilitacionHandler) Certificado(c *fiber.Ctx) error {
	out, err := h.uc.Certificado(c.UserContext(), c.Params("companyId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Message: "Certificado digital generado", Data: out})
}

// Test godoc
// @Summary      Ejecutar el set de pruebas de habilitación
// @Tags         habilitacion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        body       body  dto.HabilitacionTestRequest  false  "certificateId y XML de prueba opcionales"
// @Success      200        {object}  dto.Envelope
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/habilitacion/empresa/{companyId}/test [post]
func (h *HabilitacionHandler) Test(c *fiber.Ctx) error {
	var in dto.HabilitacionTestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.uc.Test(c.UserContext(), c.Params("companyId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return phase(c, res.Success, "Set de pruebas aprobado, empresa habilitada", "Set de pruebas fallido", res)
}

// Estado godoc
// @Summary      Estado de habilitación de la empresa
// @Tags         habilitacion
// @Security     Bearer
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200        {object}  dto.Envelope
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/habilitacion/empresa/{companyId}/estado [get]
func (h *HabilitacionHandler) Estado(c *fiber.Ctx) error {
	out, err := h.uc.Estado(c.UserContext(), c.Params("companyId"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

func phase(c *fiber.Ctx, success bool, okMsg, failMsg string, data any) error {
	msg := okMsg
	if !success {
		msg = failMsg
	}
	return c.JSON(dto.Envelope{Success: success, Message: msg, Data: data})
}
