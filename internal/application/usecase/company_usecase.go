package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/dian-simulador/internal/application/dto"
	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
	"github.com/jhoicas/dian-simulador/pkg/dian"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo  repository.CompanyRepository
	certs repository.CertificateRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, certs repository.CertificateRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, certs: certs}
}

// Create crea una nueva empresa sin registrar. Devuelve domain.ErrDuplicate si el NIT ya existe.
// El DV se calcula cuando no viene; si viene distinto al calculado se respeta (el registro lo advierte).
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	nit := strings.TrimSpace(in.NIT)
	if name == "" || nit == "" {
		return nil, fmt.Errorf("%w: nombre y NIT son obligatorios", domain.ErrInvalidInput)
	}
	dv := strings.TrimSpace(in.DV)
	if dv == "" {
		d, err := dian.ComputeNITVerificationDigit(nit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		dv = string(d)
	}

	existing, err := uc.repo.GetByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe una empresa con NIT %s", domain.ErrDuplicate, nit)
	}

	now := time.Now().UTC()
	company := &entity.Company{
		ID:               uuid.New().String(),
		Name:             name,
		NIT:              nit,
		DV:               dv,
		EconomicActivity: strings.TrimSpace(in.EconomicActivity),
		TaxRegime:        strings.TrimSpace(in.TaxRegime),
		Address:          in.Address,
		Phone:            in.Phone,
		Email:            in.Email,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	out := dto.CompanyFromEntity(company)
	return &out, nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, id)
	}
	out := dto.CompanyFromEntity(company)
	return &out, nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.CompanyFromEntity(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Certificates certificados emitidos a la empresa (sin llaves privadas).
func (uc *CompanyUseCase) Certificates(ctx context.Context, companyID string) ([]dto.CertificateResponse, error) {
	if _, err := uc.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	list, err := uc.certs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CertificateResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CertificateFromEntity(c))
	}
	return out, nil
}
