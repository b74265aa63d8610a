package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/dian-simulador/internal/application/billing"
	"github.com/jhoicas/dian-simulador/internal/application/habilitacion"
	"github.com/jhoicas/dian-simulador/internal/application/simulation"
	"github.com/jhoicas/dian-simulador/internal/application/usecase"
	"github.com/jhoicas/dian-simulador/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC      *usecase.CompanyUseCase
	InvoiceUC      *billing.InvoiceUseCase
	SubmissionUC   *billing.SubmissionUseCase
	HabilitacionUC *habilitacion.UseCase
	SimulationUC   *simulation.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todo /api requiere Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Companies
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", RequireRole(jwt.RoleAdmin), companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Get("/:id/certificates", companyHandler.Certificates)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.SubmissionUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)

	// Simulador DIAN (procesos en segundo plano)
	sim := api.Group("/dian-simulator")
	simHandler := NewDianSimulatorHandler(deps.SimulationUC)
	sim.Post("/validate-xml", simHandler.ValidateXML)
	sim.Post("/send-invoice", simHandler.SendInvoice)
	sim.Get("/logs/:trackId", simHandler.Logs)
	sim.Get("/status/:trackId", simHandler.Status)

	// Habilitación (solo admin)
	hab := api.Group("/habilitacion/empresa/:companyId")
	admin := RequireRole(jwt.RoleAdmin)
	habHandler := NewHabilitacionHandler(deps.HabilitacionUC)
	hab.Post("/registro", admin, habHandler.Registro)
	hab.Post("/resolucion", admin, habHandler.Resolucion)
	hab.Post("/certificado", admin, habHandler.Certificado)
	hab.Post("/test", admin, habHandler.Test)
	hab.Get("/estado", admin, habHandler.Estado)
}
