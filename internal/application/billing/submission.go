package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/domain"
	domaindian "github.com/jhoicas/dian-simulador/internal/domain/dian"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
	infradian "github.com/jhoicas/dian-simulador/internal/infrastructure/dian"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

// DefaultSubmissionTimeout tiempo máximo de un envío en segundo plano.
const DefaultSubmissionTimeout = 30 * time.Second

// SubmissionResult factura actualizada junto con la respuesta de la DIAN.
type SubmissionResult struct {
	Invoice dto.InvoiceResponse         `json:"invoice"`
	DIAN    *simulator.SubmissionResult `json:"dianResponse"`
}

// SubmissionUseCase orquesta el envío de una factura:
//
//	guarda de estado → certificado → XML → firma → PENDING → DIAN → APPROVED | REJECTED
//
// SubmitAsync lo ejecuta en una goroutine con su propio context.Background() + timeout,
// desacoplado del ciclo HTTP; el avance queda en el ProcessStore bajo el trackId devuelto.
type SubmissionUseCase struct {
	invoices   repository.InvoiceRepository
	companies  repository.CompanyRepository
	certs      repository.CertificateRepository
	xmlBuilder InvoiceXMLBuilder
	signer     XMLSigner
	dian       DianGateway
	processes  *simulator.ProcessStore
	log        zerolog.Logger
	timeout    time.Duration
	now        func() time.Time
}

// NewSubmissionUseCase construye el orquestador con todas sus dependencias.
func NewSubmissionUseCase(
	invoices repository.InvoiceRepository,
	companies repository.CompanyRepository,
	certs repository.CertificateRepository,
	xmlBuilder InvoiceXMLBuilder,
	signer XMLSigner,
	dian DianGateway,
	processes *simulator.ProcessStore,
	log zerolog.Logger,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		invoices:   invoices,
		companies:  companies,
		certs:      certs,
		xmlBuilder: xmlBuilder,
		signer:     signer,
		dian:       dian,
		processes:  processes,
		log:        log,
		timeout:    DefaultSubmissionTimeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithTimeout cambia el tiempo máximo de los envíos en segundo plano.
func (uc *SubmissionUseCase) WithTimeout(d time.Duration) *SubmissionUseCase {
	uc.timeout = d
	return uc
}

// Submit envía la factura y espera el veredicto. Las facturas APPROVED, PENDING o CANCELLED
// se rechazan con domain.ErrInvalidTransition antes de tocar el simulador.
func (uc *SubmissionUseCase) Submit(ctx context.Context, companyID, invoiceID string) (*SubmissionResult, error) {
	return uc.submit(ctx, companyID, invoiceID, nil)
}

// SubmitAsync valida la factura y lanza el envío en segundo plano. Devuelve el trackId del proceso.
func (uc *SubmissionUseCase) SubmitAsync(ctx context.Context, companyID, invoiceID string) (string, error) {
	inv, err := loadOwnedInvoice(ctx, uc.invoices, companyID, invoiceID)
	if err != nil {
		return "", err
	}
	if !inv.CanSubmit() {
		return "", inv.BeginSubmission(uc.now())
	}

	trackID := uuid.NewString()
	uc.processes.Start(trackID, inv.CompanyID)
	go uc.process(trackID, companyID, invoiceID)
	return trackID, nil
}

func (uc *SubmissionUseCase) process(trackID, companyID, invoiceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.timeout)
	defer cancel()

	log := uc.log.With().Str("trackId", trackID).Str("invoiceId", invoiceID).Logger()
	res, err := uc.submit(ctx, companyID, invoiceID, uc.processes.Progress(trackID))
	if err != nil {
		log.Error().Err(err).Msg("envío a la DIAN fallido")
		uc.processes.Fail(trackID, err)
		return
	}
	uc.processes.Complete(trackID, res)
}

func (uc *SubmissionUseCase) submit(ctx context.Context, companyID, invoiceID string, progress simulator.ProgressFunc) (*SubmissionResult, error) {
	inv, err := loadOwnedInvoice(ctx, uc.invoices, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.CanSubmit() {
		return nil, inv.BeginSubmission(uc.now())
	}
	log := uc.log.With().Str("invoiceId", inv.ID).Str("companyId", inv.CompanyID).Logger()

	company, err := uc.companies.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, inv.CompanyID)
	}
	cert, err := uc.certs.GetDefaultByCompany(ctx, inv.CompanyID)
	if err != nil {
		return nil, err
	}
	if cert == nil || !cert.Usable(uc.now()) {
		return nil, fmt.Errorf("%w: la empresa no tiene un certificado digital vigente", domain.ErrPreconditionFailed)
	}
	if err := domaindian.ValidateInvoice(inv); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	unsigned, err := uc.xmlBuilder.Build(&infradian.BuildContext{Invoice: inv, Company: company})
	if err != nil {
		return nil, fmt.Errorf("generar XML: %w", err)
	}
	signed, err := uc.signer.SignXML(unsigned, cert.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("firmar XML: %w", err)
	}

	read := inv.Status
	if err := inv.BeginSubmission(uc.now()); err != nil {
		return nil, err
	}
	inv.XMLSigned = signed
	// Si otro envío o una anulación cambió el estado leído, este termina con ErrConflict.
	if err := uc.invoices.Update(ctx, inv, read); err != nil {
		return nil, err
	}
	log.Info().Str("number", inv.FullNumber()).Msg("factura enviada a la DIAN")

	result, err := uc.dian.SendInvoiceWithProgress(ctx, signed, cert, progress)
	if err != nil {
		// Sin veredicto: la factura vuelve a quedar reenviable.
		uc.finish(ctx, inv, func(now time.Time) error {
			return inv.Reject(errorResponse(err), "", now)
		})
		return nil, fmt.Errorf("enviar a la DIAN: %w", err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("serializar respuesta DIAN: %w", err)
	}
	if err := uc.finish(ctx, inv, func(now time.Time) error {
		if result.Success {
			return inv.Approve(result.CUFE, string(raw), result.TrackID, now)
		}
		return inv.Reject(string(raw), result.TrackID, now)
	}); err != nil {
		return nil, err
	}

	ev := log.Info()
	if !result.Success {
		ev = log.Warn().Int("errors", len(result.Errors))
	}
	ev.Str("status", string(inv.Status)).Str("dianTrackId", result.TrackID).Msg("veredicto DIAN")

	return &SubmissionResult{Invoice: dto.InvoiceFromEntity(inv), DIAN: result}, nil
}

// finish aplica la transición final y la persiste. Usa un contexto propio si ctx ya expiró,
// para no dejar la factura en PENDING.
func (uc *SubmissionUseCase) finish(ctx context.Context, inv *entity.Invoice, transition func(now time.Time) error) error {
	if err := transition(uc.now()); err != nil {
		return err
	}
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := uc.invoices.Update(ctx, inv, entity.InvoiceStatusPending); err != nil {
		uc.log.Error().Err(err).Str("invoiceId", inv.ID).Msg("no se pudo persistir el veredicto")
		return err
	}
	return nil
}

func errorResponse(err error) string {
	raw, _ := json.Marshal(map[string]any{"success": false, "error": err.Error()})
	return string(raw)
}
