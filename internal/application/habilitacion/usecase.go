// Package habilitacion orquesta las fases de habilitación como facturador electrónico:
// registro, resolución de numeración, certificado digital y set de pruebas.
package habilitacion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
	infradian "github.com/jhoicas/dian-simulador/internal/infrastructure/dian"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

// Simulator fases de la DIAN simulada.
type Simulator interface {
	RegisterCompany(ctx context.Context, company *entity.Company) (*simulator.RegistrationResult, error)
	RequestResolution(ctx context.Context, company *entity.Company, req simulator.ResolutionRequest) (*simulator.ResolutionResult, error)
	RunTests(ctx context.Context, company *entity.Company, req simulator.TestRequest) (*simulator.TestResult, error)
}

// CertificateAuthority emite certificados y firma documentos.
type CertificateAuthority interface {
	GenerateCertificate(companyName, nit string) (*entity.Certificate, error)
	SignXML(xmlContent, privateKeyPEM string) (string, error)
}

var (
	_ Simulator            = (*simulator.HabilitacionSimulator)(nil)
	_ CertificateAuthority = (*simulator.CertificateSimulator)(nil)
)

// UseCase aplica el orden de las fases antes de llamar al simulador y persiste cada avance.
type UseCase struct {
	companies  repository.CompanyRepository
	certs      repository.CertificateRepository
	tx         repository.TxRunner
	sim        Simulator
	ca         CertificateAuthority
	xmlBuilder *infradian.XMLBuilderService
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	companies repository.CompanyRepository,
	certs repository.CertificateRepository,
	tx repository.TxRunner,
	sim Simulator,
	ca CertificateAuthority,
	xmlBuilder *infradian.XMLBuilderService,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		companies:  companies,
		certs:      certs,
		tx:         tx,
		sim:        sim,
		ca:         ca,
		xmlBuilder: xmlBuilder,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *UseCase) company(ctx context.Context, companyID string) (*entity.Company, error) {
	c, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}
	return c, nil
}

// Registro registra la empresa como facturador electrónico.
func (uc *UseCase) Registro(ctx context.Context, companyID string, in dto.RegistroRequest) (*simulator.RegistrationResult, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if st := company.Habilitacion(); st != entity.HabilitacionUnregistered {
		return nil, fmt.Errorf("%w: la empresa ya está registrada (estado %s)", domain.ErrInvalidTransition, st)
	}
	if v := strings.TrimSpace(in.EconomicActivity); v != "" {
		company.EconomicActivity = v
	}
	if v := strings.TrimSpace(in.TaxRegime); v != "" {
		company.TaxRegime = v
	}

	res, err := uc.sim.RegisterCompany(ctx, company)
	if err != nil {
		return nil, err
	}
	log := uc.log.With().Str("companyId", companyID).Str("trackId", res.TrackID).Logger()
	if !res.Success {
		log.Warn().Int("errors", len(res.Errors)).Msg("registro rechazado")
		return res, nil
	}
	if err := company.MarkRegistered(res.Registration.RegistrationID, res.Registration.Timestamp); err != nil {
		return nil, err
	}
	if err := uc.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	log.Info().Str("registrationId", company.RegistrationID).Msg("empresa registrada")
	return res, nil
}

// Resolucion solicita la resolución de numeración. Exige registro previo.
func (uc *UseCase) Resolucion(ctx context.Context, companyID string, in dto.ResolucionRequest) (*simulator.ResolutionResult, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	switch company.Habilitacion() {
	case entity.HabilitacionRegistered:
	case entity.HabilitacionUnregistered:
		return nil, fmt.Errorf("%w: la empresa debe registrarse como facturador electrónico antes de solicitar resolución", domain.ErrPreconditionFailed)
	default:
		return nil, fmt.Errorf("%w: la empresa ya tiene una resolución de facturación (%s)", domain.ErrInvalidTransition, company.AuthorizationNumber)
	}

	res, err := uc.sim.RequestResolution(ctx, company, simulator.ResolutionRequest{
		Prefix:    strings.TrimSpace(in.Prefix),
		RangeFrom: in.RangeFrom,
		RangeTo:   in.RangeTo,
	})
	if err != nil {
		return nil, err
	}
	log := uc.log.With().Str("companyId", companyID).Str("trackId", res.TrackID).Logger()
	if !res.Success {
		log.Warn().Int("errors", len(res.Errors)).Msg("resolución rechazada")
		return res, nil
	}
	grant := res.Resolution
	err = company.AssignResolution(entity.Resolution{
		Number:     grant.ResolutionNumber,
		Prefix:     grant.Prefix,
		RangeFrom:  grant.RangeFrom,
		RangeTo:    grant.RangeTo,
		IssuedAt:   grant.IssuedAt,
		ValidUntil: grant.ValidUntil,
	}, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	log.Info().Str("resolution", grant.ResolutionNumber).Msg("resolución asignada")
	return res, nil
}

// Certificado emite un certificado nuevo y lo deja como único predeterminado de la empresa.
func (uc *UseCase) Certificado(ctx context.Context, companyID string) (*dto.CertificateResponse, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	cert, err := uc.ca.GenerateCertificate(company.Name, company.NIT)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	cert.ID = uuid.New().String()
	cert.CompanyID = company.ID
	cert.CreatedAt = now
	cert.UpdatedAt = now

	err = uc.tx.Run(ctx, func(_ repository.CompanyRepository, certs repository.CertificateRepository) error {
		if err := certs.Create(ctx, cert); err != nil {
			return err
		}
		return certs.ClearDefault(ctx, company.ID, cert.ID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("companyId", companyID).Str("serial", cert.SerialNumber).Msg("certificado emitido")
	out := dto.CertificateFromEntity(cert)
	return &out, nil
}

// Test ejecuta el set de pruebas. Exige resolución y un certificado vigente de la empresa.
func (uc *UseCase) Test(ctx context.Context, companyID string, in dto.HabilitacionTestRequest) (*simulator.TestResult, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	switch company.Habilitacion() {
	case entity.HabilitacionHasResolution:
	case entity.HabilitacionHabilitado:
		return nil, fmt.Errorf("%w: la empresa ya está habilitada", domain.ErrInvalidTransition)
	default:
		return nil, fmt.Errorf("%w: la empresa debe tener una resolución de facturación antes del test de habilitación", domain.ErrPreconditionFailed)
	}

	cert, err := uc.testCertificate(ctx, company, in.CertificateID)
	if err != nil {
		return nil, err
	}
	testXML := in.TestInvoiceXML
	if strings.TrimSpace(testXML) == "" {
		if testXML, err = uc.sampleInvoiceXML(company, cert); err != nil {
			return nil, err
		}
	}

	res, err := uc.sim.RunTests(ctx, company, simulator.TestRequest{CertificateID: cert.ID, TestInvoiceXML: testXML})
	if err != nil {
		return nil, err
	}
	log := uc.log.With().Str("companyId", companyID).Str("trackId", res.TrackID).Logger()
	if !res.Success {
		log.Warn().Int("errors", len(res.Errors)).Msg("set de pruebas fallido")
		return res, nil
	}

	err = uc.tx.Run(ctx, func(companies repository.CompanyRepository, _ repository.CertificateRepository) error {
		if err := company.MarkAuthorized(cert, uc.now()); err != nil {
			return err
		}
		return companies.Update(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Msg("empresa habilitada")
	return res, nil
}

func (uc *UseCase) testCertificate(ctx context.Context, company *entity.Company, certificateID string) (*entity.Certificate, error) {
	var (
		cert *entity.Certificate
		err  error
	)
	if certificateID != "" {
		cert, err = uc.certs.GetByID(ctx, certificateID)
	} else {
		cert, err = uc.certs.GetDefaultByCompany(ctx, company.ID)
	}
	if err != nil {
		return nil, err
	}
	if cert == nil || cert.CompanyID != company.ID || !cert.Usable(uc.now()) {
		return nil, fmt.Errorf("%w: se requiere un certificado digital activo de la empresa", domain.ErrPreconditionFailed)
	}
	return cert, nil
}

// sampleInvoiceXML documento de prueba firmado con el primer número de la resolución.
func (uc *UseCase) sampleInvoiceXML(company *entity.Company, cert *entity.Certificate) (string, error) {
	net := decimal.NewFromInt(100000)
	tax := net.Mul(decimal.NewFromFloat(0.19))
	unsigned, err := uc.xmlBuilder.Build(&infradian.BuildContext{
		Company: company,
		Invoice: &entity.Invoice{
			Prefix:       company.AuthorizationPrefix,
			Number:       fmt.Sprintf("%d", company.AuthorizationRangeFrom),
			IssueDate:    uc.now(),
			CustomerName: "Adquiriente de pruebas",
			CustomerNIT:  "222222222222",
			NetTotal:     net,
			TaxTotal:     tax,
			GrandTotal:   net.Add(tax),
		},
	})
	if err != nil {
		return "", err
	}
	return uc.ca.SignXML(unsigned, cert.PrivateKey)
}

// Estado etapa actual y siguiente paso.
func (uc *UseCase) Estado(ctx context.Context, companyID string) (*dto.EstadoResponse, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.EstadoResponse{
		CompanyID: company.ID,
		State:     string(company.Habilitacion()),
		Company:   dto.CompanyFromEntity(company),
	}
	cert, err := uc.certs.GetDefaultByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		c := dto.CertificateFromEntity(cert)
		out.DefaultCertificate = &c
	}
	switch company.Habilitacion() {
	case entity.HabilitacionUnregistered:
		out.NextStep = "registro"
	case entity.HabilitacionRegistered:
		out.NextStep = "resolucion"
	case entity.HabilitacionHasResolution:
		if cert == nil || !cert.Usable(uc.now()) {
			out.NextStep = "certificado"
		} else {
			out.NextStep = "test"
		}
	}
	return out, nil
}
