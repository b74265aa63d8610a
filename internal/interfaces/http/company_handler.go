package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/application/usecase"
	"github.com/jhoicas/dian-simulador/pkg/jwt"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Company.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !canAccessCompany(c, id) {
		return forbidden(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.Envelope
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Certificates godoc
// @Summary      Certificados de la empresa (sin llaves privadas)
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/certificates [get]
func (h *CompanyHandler) Certificates(c *fiber.Ctx) error {
	id := c.Params("id")
	if !canAccessCompany(c, id) {
		return forbidden(c)
	}
	out, err := h.uc.Certificates(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// canAccessCompany el admin ve cualquier empresa; el resto solo la de su token.
func canAccessCompany(c *fiber.Ctx, companyID string) bool {
	return GetRole(c) == jwt.RoleAdmin || GetCompanyID(c) == companyID
}

// scopeCompany empresa con la que se filtran los recursos; vacío para el admin.
func scopeCompany(c *fiber.Ctx) string {
	if GetRole(c) == jwt.RoleAdmin {
		return ""
	}
	return GetCompanyID(c)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
}
