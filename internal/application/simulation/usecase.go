// Package simulation expone el simulador DIAN como procesos en segundo plano consultables por trackId.
package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/dian-simulador/internal/application/billing"
	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

// UseCase validación de XML y envío de facturas con seguimiento por trackId.
type UseCase struct {
	dian       billing.DianGateway
	certs      repository.CertificateRepository
	submission *billing.SubmissionUseCase
	processes  *simulator.ProcessStore
	log        zerolog.Logger
	timeout    time.Duration
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	dian billing.DianGateway,
	certs repository.CertificateRepository,
	submission *billing.SubmissionUseCase,
	processes *simulator.ProcessStore,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		dian:       dian,
		certs:      certs,
		submission: submission,
		processes:  processes,
		log:        log,
		timeout:    billing.DefaultSubmissionTimeout,
	}
}

// ValidateXML lanza la validación del XML contra el simulador. Sin certificado
// el simulador responde con el fallo estructural correspondiente. scopeCompany vacío
// no filtra; con valor, el certificado y la empresa pedidos deben ser de esa empresa.
func (uc *UseCase) ValidateXML(ctx context.Context, scopeCompany string, in dto.ValidateXMLRequest) (string, error) {
	if strings.TrimSpace(in.XMLContent) == "" {
		return "", fmt.Errorf("%w: xmlContent es obligatorio", domain.ErrInvalidInput)
	}
	if scopeCompany != "" && in.CompanyID != "" && in.CompanyID != scopeCompany {
		return "", fmt.Errorf("%w: la empresa no corresponde al token", domain.ErrForbidden)
	}
	cert, err := uc.certificate(ctx, in)
	if err != nil {
		return "", err
	}
	if cert != nil && scopeCompany != "" && cert.CompanyID != scopeCompany {
		return "", fmt.Errorf("%w: el certificado no pertenece a la empresa", domain.ErrForbidden)
	}

	owner := scopeCompany
	switch {
	case cert != nil:
		owner = cert.CompanyID
	case in.CompanyID != "":
		owner = in.CompanyID
	}
	trackID := uuid.NewString()
	uc.processes.Start(trackID, owner)
	go uc.validate(trackID, in.XMLContent, cert)
	return trackID, nil
}

func (uc *UseCase) certificate(ctx context.Context, in dto.ValidateXMLRequest) (*entity.Certificate, error) {
	switch {
	case in.CertificateID != "":
		cert, err := uc.certs.GetByID(ctx, in.CertificateID)
		if err != nil {
			return nil, err
		}
		if cert == nil {
			return nil, fmt.Errorf("%w: certificado %s", domain.ErrNotFound, in.CertificateID)
		}
		if in.CompanyID != "" && cert.CompanyID != in.CompanyID {
			return nil, fmt.Errorf("%w: el certificado no pertenece a la empresa", domain.ErrForbidden)
		}
		return cert, nil
	case in.CompanyID != "":
		return uc.certs.GetDefaultByCompany(ctx, in.CompanyID)
	default:
		return nil, nil
	}
}

func (uc *UseCase) validate(trackID, xmlContent string, cert *entity.Certificate) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.timeout)
	defer cancel()

	res, err := uc.dian.SendInvoiceWithProgress(ctx, xmlContent, cert, uc.processes.Progress(trackID))
	if err != nil {
		uc.log.Error().Err(err).Str("trackId", trackID).Msg("validación XML interrumpida")
		uc.processes.Fail(trackID, err)
		return
	}
	uc.log.Info().Str("trackId", trackID).Bool("success", res.Success).Msg("validación XML terminada")
	uc.processes.Complete(trackID, res)
}

// SendInvoice lanza el envío de una factura guardada.
func (uc *UseCase) SendInvoice(ctx context.Context, companyID string, in dto.SendInvoiceRequest) (string, error) {
	if in.InvoiceID == "" {
		return "", fmt.Errorf("%w: invoiceId es obligatorio", domain.ErrInvalidInput)
	}
	return uc.submission.SubmitAsync(ctx, companyID, in.InvoiceID)
}

// Logs líneas del proceso hasta el momento.
func (uc *UseCase) Logs(trackID, scopeCompany string) (*dto.ProcessLogs, error) {
	p, err := uc.Status(trackID, scopeCompany)
	if err != nil {
		return nil, err
	}
	return &dto.ProcessLogs{TrackID: p.TrackID, Status: string(p.Status), Logs: p.Logs}, nil
}

// Status snapshot completo del proceso, con el resultado cuando termina.
// Los procesos de otra empresa se reportan como inexistentes.
func (uc *UseCase) Status(trackID, scopeCompany string) (*simulator.Process, error) {
	p, ok := uc.processes.Get(trackID)
	if !ok || (scopeCompany != "" && p.CompanyID != scopeCompany) {
		return nil, fmt.Errorf("%w: proceso %s", domain.ErrNotFound, trackID)
	}
	return &p, nil
}
