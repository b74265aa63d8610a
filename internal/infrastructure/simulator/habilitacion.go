package simulator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	pkgdian "github.com/jhoicas/dian-simulador/pkg/dian"
)

// Multiplicadores del retardo base por fase: el test de habilitación es la fase más lenta.
const (
	registrationDelayFactor = 1
	resolutionDelayFactor   = 2
	testDelayFactor         = 3
)

// ResolutionValidity vigencia de una resolución de facturación otorgada.
const ResolutionValidity = 2 * 365 * 24 * time.Hour

// Test results status.
const (
	TestStatusApproved = "APPROVED"
	TestStatusFailed   = "FAILED"
)

// PhaseResult campos comunes a las tres fases de habilitación.
type PhaseResult struct {
	Success   bool         `json:"success"`
	TrackID   string       `json:"trackId"`
	Timestamp time.Time    `json:"timestamp"`
	Logs      []string     `json:"logs"`
	Errors    []ErrorEntry `json:"errors,omitempty"`
}

// Registration datos otorgados al registrar la empresa como facturador electrónico.
type Registration struct {
	RegistrationID string    `json:"registrationId"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationResult resultado de la fase de registro.
type RegistrationResult struct {
	PhaseResult
	Registration *Registration `json:"registration,omitempty"`
}

// ResolutionRequest datos solicitados para la resolución de numeración.
type ResolutionRequest struct {
	Prefix    string `json:"prefix"`
	RangeFrom int64  `json:"rangeFrom"`
	RangeTo   int64  `json:"rangeTo"`
}

// ResolutionGrant resolución otorgada por la DIAN simulada.
type ResolutionGrant struct {
	ResolutionNumber string    `json:"resolutionNumber"`
	Prefix           string    `json:"prefix"`
	RangeFrom        int64     `json:"rangeFrom"`
	RangeTo          int64     `json:"rangeTo"`
	IssuedAt         time.Time `json:"issuedAt"`
	ValidUntil       time.Time `json:"validUntil"`
}

// ResolutionResult resultado de la fase de resolución.
type ResolutionResult struct {
	PhaseResult
	Resolution *ResolutionGrant `json:"resolution,omitempty"`
}

// TestRequest set de pruebas enviado en la última fase.
type TestRequest struct {
	CertificateID  string `json:"certificateId"`
	TestInvoiceXML string `json:"testInvoiceXml"`
}

// TestResults veredicto del set de pruebas.
type TestResults struct {
	TestID        string    `json:"testId"`
	Status        string    `json:"status"`
	CertificateID string    `json:"certificateId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// TestResult resultado de la fase de pruebas.
type TestResult struct {
	PhaseResult
	TestResults *TestResults `json:"testResults,omitempty"`
}

// HabilitacionSimulator simula el proceso de habilitación como facturador electrónico:
// registro, resolución de numeración y set de pruebas.
type HabilitacionSimulator struct {
	cfg      Config
	catalogs Catalogs
}

// NewHabilitacionSimulator construye el simulador de habilitación.
func NewHabilitacionSimulator(cfg Config) *HabilitacionSimulator {
	return &HabilitacionSimulator{cfg: cfg.withDefaults(), catalogs: DefaultCatalogs()}
}

// WithCatalogs reemplaza los catálogos de rechazo.
func (s *HabilitacionSimulator) WithCatalogs(c Catalogs) *HabilitacionSimulator {
	s.catalogs = c
	return s
}

// RegisterCompany simula el registro de la empresa. Un DV que no corresponde al NIT
// queda como advertencia en el log; no detiene el proceso.
func (s *HabilitacionSimulator) RegisterCompany(ctx context.Context, company *entity.Company) (*RegistrationResult, error) {
	log := newStepLog(s.cfg.Now, nil)
	log.add("Iniciando registro como facturador electrónico")

	var missing string
	err := s.steps(ctx, log,
		func() bool {
			if company == nil || strings.TrimSpace(company.NIT) == "" || strings.TrimSpace(company.DV) == "" {
				missing = "NIT o dígito de verificación no suministrado"
				log.fail("%s", missing)
				return false
			}
			log.ok("NIT %s-%s recibido", company.NIT, company.DV)
			if !pkgdian.MatchesVerificationDigit(company.NIT, company.DV) {
				log.warn("El dígito de verificación %s no corresponde al NIT %s", company.DV, company.NIT)
			}
			return true
		},
		func() bool {
			if strings.TrimSpace(company.EconomicActivity) == "" {
				missing = "actividad económica no suministrada"
				log.fail("Actividad económica no suministrada")
				return false
			}
			log.ok("Actividad económica %s validada", company.EconomicActivity)
			return true
		},
		func() bool {
			if strings.TrimSpace(company.TaxRegime) == "" {
				missing = "régimen tributario no suministrado"
				log.fail("Régimen tributario no suministrado")
				return false
			}
			log.ok("Régimen tributario %s validado", company.TaxRegime)
			if !pkgdian.ValidFiscalResponsibilityCodes[company.TaxRegime] {
				log.warn("El régimen %s no figura en la tabla de responsabilidades fiscales", company.TaxRegime)
			}
			return true
		},
	)
	if err != nil {
		return nil, err
	}

	res := &RegistrationResult{PhaseResult: s.newPhaseResult()}
	if s.decide(log, &res.PhaseResult, missing, s.catalogs.Registration, "Registro") {
		res.Registration = &Registration{
			RegistrationID: "REG-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12],
			Timestamp:      res.Timestamp,
		}
		log.ok("Registro asignado: %s", res.Registration.RegistrationID)
	}
	res.Logs = log.Lines()
	if err := s.phaseDelay(ctx, registrationDelayFactor); err != nil {
		return nil, err
	}
	return res, nil
}

// RequestResolution simula la solicitud de resolución de numeración.
// La verificación de que la empresa esté registrada es responsabilidad del llamador.
func (s *HabilitacionSimulator) RequestResolution(ctx context.Context, company *entity.Company, req ResolutionRequest) (*ResolutionResult, error) {
	log := newStepLog(s.cfg.Now, nil)
	log.add("Iniciando solicitud de resolución de facturación")

	var missing string
	err := s.steps(ctx, log,
		func() bool {
			if company != nil && company.RegistrationID != "" {
				log.ok("Registro %s verificado", company.RegistrationID)
			} else {
				log.ok("Registro como facturador electrónico verificado")
			}
			return true
		},
		func() bool {
			if strings.TrimSpace(req.Prefix) == "" {
				missing = "prefijo de facturación no suministrado"
				log.fail("Prefijo de facturación no suministrado")
				return false
			}
			log.ok("Prefijo %s validado", req.Prefix)
			return true
		},
		func() bool {
			if req.RangeFrom >= req.RangeTo {
				missing = fmt.Sprintf("rango de numeración inválido (%d - %d)", req.RangeFrom, req.RangeTo)
				log.fail("Rango de numeración inválido: desde (%d) debe ser menor que hasta (%d)", req.RangeFrom, req.RangeTo)
				return false
			}
			log.ok("Rango de numeración %d - %d validado", req.RangeFrom, req.RangeTo)
			return true
		},
	)
	if err != nil {
		return nil, err
	}

	res := &ResolutionResult{PhaseResult: s.newPhaseResult()}
	if s.decide(log, &res.PhaseResult, missing, s.catalogs.Resolution, "Resolución") {
		issued := res.Timestamp
		res.Resolution = &ResolutionGrant{
			ResolutionNumber: fmt.Sprintf("18764%08d", s.cfg.Random.IntN(100_000_000)),
			Prefix:           req.Prefix,
			RangeFrom:        req.RangeFrom,
			RangeTo:          req.RangeTo,
			IssuedAt:         issued,
			ValidUntil:       issued.Add(ResolutionValidity),
		}
		log.ok("Resolución otorgada: %s", res.Resolution.ResolutionNumber)
	}
	res.Logs = log.Lines()
	if err := s.phaseDelay(ctx, resolutionDelayFactor); err != nil {
		return nil, err
	}
	return res, nil
}

// RunTests simula el set de pruebas de habilitación.
func (s *HabilitacionSimulator) RunTests(ctx context.Context, company *entity.Company, req TestRequest) (*TestResult, error) {
	log := newStepLog(s.cfg.Now, nil)
	log.add("Iniciando set de pruebas de habilitación")

	var missing string
	err := s.steps(ctx, log,
		func() bool {
			if company == nil || strings.TrimSpace(company.AuthorizationNumber) == "" {
				missing = "la empresa no tiene resolución de facturación"
				log.fail("La empresa no tiene resolución de facturación")
				return false
			}
			log.ok("Resolución de facturación %s verificada", company.AuthorizationNumber)
			return true
		},
		func() bool {
			if strings.TrimSpace(req.CertificateID) == "" {
				missing = "certificado digital no suministrado"
				log.fail("Certificado digital no suministrado")
				return false
			}
			log.ok("Certificado digital %s verificado", req.CertificateID)
			return true
		},
		func() bool {
			if strings.TrimSpace(req.TestInvoiceXML) == "" {
				missing = "documento de prueba no suministrado"
				log.fail("Documento de prueba no suministrado")
				return false
			}
			log.ok("Documento de prueba recibido (%d bytes)", len(req.TestInvoiceXML))
			return true
		},
		func() bool { log.ok("Firma digital del documento de prueba validada"); return true },
		func() bool { log.ok("Estructura UBL 2.1 validada"); return true },
		func() bool { log.ok("CUFE del documento de prueba validado"); return true },
	)
	if err != nil {
		return nil, err
	}

	res := &TestResult{PhaseResult: s.newPhaseResult()}
	ok := s.decide(log, &res.PhaseResult, missing, s.catalogs.Test, "Set de pruebas")
	status := TestStatusFailed
	if ok {
		status = TestStatusApproved
	}
	res.TestResults = &TestResults{
		TestID:        uuid.NewString(),
		Status:        status,
		CertificateID: req.CertificateID,
		Timestamp:     res.Timestamp,
	}
	res.Logs = log.Lines()
	if err := s.phaseDelay(ctx, testDelayFactor); err != nil {
		return nil, err
	}
	return res, nil
}

// steps ejecuta los pasos de validación en orden, esperando un retardo entre cada uno.
// Se detiene en el primer paso que falla.
func (s *HabilitacionSimulator) steps(ctx context.Context, log *stepLog, steps ...func() bool) error {
	for _, step := range steps {
		if err := s.cfg.Sleeper.Sleep(ctx, uniformDuration(s.cfg.Random, s.cfg.StepDelayMin, s.cfg.StepDelayMax)); err != nil {
			return err
		}
		if !step() {
			return nil
		}
	}
	return nil
}

func (s *HabilitacionSimulator) newPhaseResult() PhaseResult {
	return PhaseResult{TrackID: uuid.NewString(), Timestamp: s.cfg.Now().UTC()}
}

// decide fija Success y Errors: un fallo de validación siempre termina en fracaso;
// si no, la moneda de errorRate decide.
func (s *HabilitacionSimulator) decide(log *stepLog, res *PhaseResult, missing string, catalog []ErrorEntry, phase string) bool {
	if log.failed {
		res.Errors = []ErrorEntry{*structuralEntry(s.catalogs.Structural, CodeMissingData, missing)}
		log.add("%s %s rechazado: información incompleta", markFail, phase)
		return false
	}
	if rejected(s.cfg.Random, s.cfg.ErrorRate) {
		res.Errors = pickErrors(s.cfg.Random, catalog)
		log.add("%s %s rechazado por la DIAN", markFail, phase)
		for _, e := range res.Errors {
			log.add("%s [%s] %s", markFail, e.Code, e.Message)
		}
		return false
	}
	res.Success = true
	log.ok("%s aprobado", phase)
	return true
}

func (s *HabilitacionSimulator) phaseDelay(ctx context.Context, factor int) error {
	base := uniformDuration(s.cfg.Random, s.cfg.DelayMin, s.cfg.DelayMax)
	return s.cfg.Sleeper.Sleep(ctx, base*time.Duration(factor))
}
