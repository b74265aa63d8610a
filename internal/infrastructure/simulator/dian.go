package simulator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	domaindian "github.com/jhoicas/dian-simulador/internal/domain/dian"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

// Códigos de los fallos estructurales (catálogo "structural").
const (
	CodeInvalidXML         = "STR-001"
	CodeInvalidCertificate = "STR-002"
	CodeMissingData        = "STR-003"
)

// SubmissionResult respuesta simulada de la DIAN a un envío.
// CUFE solo viene cuando Success es true.
type SubmissionResult struct {
	Success   bool         `json:"success"`
	TrackID   string       `json:"trackId"`
	Timestamp time.Time    `json:"timestamp"`
	Logs      []string     `json:"logs"`
	Errors    []ErrorEntry `json:"errors,omitempty"`
	CUFE      string       `json:"cufe,omitempty"`
}

// DianSimulator simula la recepción y validación de documentos electrónicos por la DIAN.
type DianSimulator struct {
	cfg      Config
	catalogs Catalogs
}

// NewDianSimulator construye el simulador con su configuración (sin estado global).
func NewDianSimulator(cfg Config) *DianSimulator {
	return &DianSimulator{cfg: cfg.withDefaults(), catalogs: DefaultCatalogs()}
}

// WithCatalogs reemplaza los catálogos de rechazo (útil en tests).
func (s *DianSimulator) WithCatalogs(c Catalogs) *DianSimulator {
	s.catalogs = c
	return s
}

// ErrorRate probabilidad configurada de rechazo aleatorio.
func (s *DianSimulator) ErrorRate() float64 { return s.cfg.ErrorRate }

// GenerateCUFE huella determinista del XML (32 hex en mayúsculas).
func (s *DianSimulator) GenerateCUFE(xmlContent string) string {
	return domaindian.GenerateCUFE(xmlContent)
}

// SendInvoice simula el envío de un XML ya firmado. Los rechazos no son errores:
// se informan con Success=false y Errors. Solo devuelve error si ctx termina durante la espera.
func (s *DianSimulator) SendInvoice(ctx context.Context, xmlContent string, cert *entity.Certificate) (*SubmissionResult, error) {
	return s.SendInvoiceWithProgress(ctx, xmlContent, cert, nil)
}

// SendInvoiceWithProgress igual que SendInvoice, entregando cada línea del log a progress.
func (s *DianSimulator) SendInvoiceWithProgress(ctx context.Context, xmlContent string, cert *entity.Certificate, progress ProgressFunc) (*SubmissionResult, error) {
	delay := uniformDuration(s.cfg.Random, s.cfg.DelayMin, s.cfg.DelayMax)

	log := newStepLog(s.cfg.Now, progress)
	cufe, structural := s.simulateValidationProcess(log, xmlContent, cert)

	result := &SubmissionResult{
		TrackID:   uuid.NewString(),
		Timestamp: s.cfg.Now().UTC(),
	}
	switch {
	case structural != nil:
		result.Errors = []ErrorEntry{*structural}
	case rejected(s.cfg.Random, s.cfg.ErrorRate):
		result.Errors = pickErrors(s.cfg.Random, s.catalogs.DIAN)
		log.add("%s Documento rechazado por la DIAN", markFail)
		for _, e := range result.Errors {
			log.add("%s [%s] %s", markFail, e.Code, e.Message)
		}
	default:
		result.Success = true
		result.CUFE = cufe
		log.ok("Documento aceptado por la DIAN")
	}
	result.Logs = log.Lines()

	if err := s.cfg.Sleeper.Sleep(ctx, delay); err != nil {
		return nil, err
	}
	return result, nil
}

// simulateValidationProcess produce el log paso a paso. El primer fallo estructural corta el log
// y se devuelve como ErrorEntry; en ese caso el CUFE es "".
func (s *DianSimulator) simulateValidationProcess(log *stepLog, xmlContent string, cert *entity.Certificate) (string, *ErrorEntry) {
	log.add("Iniciando validación del documento electrónico (%d bytes)", len(xmlContent))

	if err := checkInvoiceStructure(xmlContent); err != nil {
		log.fail("Error en estructura XML: %v", err)
		return "", s.structuralEntry(CodeInvalidXML, err.Error())
	}
	log.ok("Estructura XML válida")

	if cert == nil || strings.TrimSpace(cert.PublicKey) == "" {
		log.fail("Certificado digital no válido o incompleto")
		return "", s.structuralEntry(CodeInvalidCertificate, "el certificado no tiene llave pública")
	}
	if cert.SerialNumber != "" {
		log.ok("Certificado digital válido (serial %s)", cert.SerialNumber)
	} else {
		log.ok("Certificado digital válido")
	}

	log.ok("Firma digital verificada")
	log.ok("Información del emisor validada")
	log.ok("Información del receptor validada")
	log.ok("Cálculos de impuestos verificados")

	cufe := s.GenerateCUFE(xmlContent)
	log.ok("CUFE generado: %s", cufe)
	return cufe, nil
}

func (s *DianSimulator) structuralEntry(code, detail string) *ErrorEntry {
	return structuralEntry(s.catalogs.Structural, code, detail)
}

func structuralEntry(catalog []ErrorEntry, code, detail string) *ErrorEntry {
	entry := ErrorEntry{Code: code, Message: detail}
	for _, e := range catalog {
		if e.Code == code {
			entry.Message = e.Message
			if detail != "" {
				entry.Message += ": " + detail
			}
			break
		}
	}
	return &entry
}

// checkInvoiceStructure exige el marcador <fe:Invoice y un documento bien formado que lo contenga.
func checkInvoiceStructure(xmlContent string) error {
	if !strings.Contains(xmlContent, "<fe:Invoice") {
		return errors.New("no se encontró el elemento fe:Invoice")
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		return fmt.Errorf("XML mal formado: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return errors.New("el documento no tiene elemento raíz")
	}
	if findInvoice(root) == nil {
		return errors.New("no se encontró el elemento fe:Invoice")
	}
	return nil
}

func findInvoice(el *etree.Element) *etree.Element {
	if el.Space == "fe" && el.Tag == "Invoice" {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findInvoice(child); found != nil {
			return found
		}
	}
	return nil
}
