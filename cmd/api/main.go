package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/dian-simulador/internal/application/billing"
	"github.com/jhoicas/dian-simulador/internal/application/habilitacion"
	"github.com/jhoicas/dian-simulador/internal/application/simulation"
	"github.com/jhoicas/dian-simulador/internal/application/usecase"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
	infradian "github.com/jhoicas/dian-simulador/internal/infrastructure/dian"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/postgres"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/dian-simulador/internal/interfaces/http"
	"github.com/jhoicas/dian-simulador/pkg/config"
	pkgdian "github.com/jhoicas/dian-simulador/pkg/dian"
	"github.com/jhoicas/dian-simulador/pkg/logger"
)

// repositories puertos de persistencia del driver elegido.
type repositories struct {
	companies repository.CompanyRepository
	certs     repository.CertificateRepository
	invoices  repository.InvoiceRepository
	tx        repository.TxRunner
	close     func()
}

func openRepositories(ctx context.Context, cfg config.DBConfig) (*repositories, error) {
	if cfg.Driver == "postgres" {
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &repositories{
			companies: postgres.NewCompanyRepository(pool),
			certs:     postgres.NewCertificateRepository(pool),
			invoices:  postgres.NewInvoiceRepository(pool),
			tx:        postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil
	}
	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &repositories{
		companies: sqlite.NewCompanyRepository(db),
		certs:     sqlite.NewCertificateRepository(db),
		invoices:  sqlite.NewInvoiceRepository(db),
		tx:        sqlite.NewTxRunner(db),
		close:     func() { _ = sqlite.Close(db) },
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db", cfg.DB.Driver).
		Float64("errorRate", cfg.Simulation.ErrorRate).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, err := openRepositories(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer repos.close()

	simCfg := simulator.Config{
		DelayMin:     cfg.Simulation.DelayMin,
		DelayMax:     cfg.Simulation.DelayMax,
		ErrorRate:    cfg.Simulation.ErrorRate,
		StepDelayMin: cfg.Simulation.StepDelayMin,
		StepDelayMax: cfg.Simulation.StepDelayMax,
	}
	var signer pkgdian.XMLSigner = simulator.RawSigner()
	if cfg.Simulation.SignatureMode == "c14n" {
		signer = simulator.CanonicalSigner()
	}
	ca := simulator.NewCertificateSimulator(signer, nil)
	dianSim := simulator.NewDianSimulator(simCfg)
	habSim := simulator.NewHabilitacionSimulator(simCfg)

	processes := simulator.NewProcessStore(cfg.Process.TTL, cfg.Process.MaxEntries, nil)
	go processes.RunJanitor(ctx, time.Minute)

	zl := log.Zerolog()
	xmlBuilder := infradian.NewXMLBuilderService()
	submissionUC := billing.NewSubmissionUseCase(
		repos.invoices, repos.companies, repos.certs,
		xmlBuilder, ca, dianSim, processes, zl,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "DIAN Simulador API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("sin especificación swagger, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:      usecase.NewCompanyUseCase(repos.companies, repos.certs),
		InvoiceUC:      billing.NewInvoiceUseCase(repos.invoices, repos.companies),
		SubmissionUC:   submissionUC,
		HabilitacionUC: habilitacion.NewUseCase(repos.companies, repos.certs, repos.tx, habSim, ca, xmlBuilder, zl),
		SimulationUC:   simulation.NewUseCase(dianSim, repos.certs, submissionUC, processes, zl),
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
