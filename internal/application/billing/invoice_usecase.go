package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/domain"
	domaindian "github.com/jhoicas/dian-simulador/internal/domain/dian"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

// InvoiceUseCase alta, consulta y anulación de facturas.
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	companies repository.CompanyRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, companies repository.CompanyRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, companies: companies}
}

// Create registra la factura en DRAFT para la empresa del token.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}

	now := time.Now().UTC()
	issue := now
	if in.IssueDate != nil {
		issue = in.IssueDate.UTC()
	}
	grand := in.GrandTotal
	if grand.IsZero() {
		grand = in.NetTotal.Add(in.TaxTotal)
	}
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Prefix:       strings.TrimSpace(in.Prefix),
		Number:       strings.TrimSpace(in.Number),
		IssueDate:    issue,
		CustomerName: strings.TrimSpace(in.CustomerName),
		CustomerNIT:  strings.TrimSpace(in.CustomerNIT),
		NetTotal:     in.NetTotal,
		TaxTotal:     in.TaxTotal,
		GrandTotal:   grand,
		Status:       entity.InvoiceStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := domaindian.ValidateInvoice(inv); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

// Get obtiene la factura verificando que sea de la empresa.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := loadOwnedInvoice(ctx, uc.invoices, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

// Cancel anula una factura en DRAFT o REJECTED.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := loadOwnedInvoice(ctx, uc.invoices, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	read := inv.Status
	if err := inv.Cancel(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.invoices.Update(ctx, inv, read); err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv)
	return &out, nil
}

func loadOwnedInvoice(ctx context.Context, repo repository.InvoiceRepository, companyID, invoiceID string) (*entity.Invoice, error) {
	if invoiceID == "" {
		return nil, fmt.Errorf("%w: id de factura requerido", domain.ErrInvalidInput)
	}
	inv, err := repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	if companyID != "" && inv.CompanyID != companyID {
		return nil, fmt.Errorf("%w: la factura no pertenece a la empresa", domain.ErrForbidden)
	}
	return inv, nil
}
