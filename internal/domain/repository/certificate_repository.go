package repository

import (
	"context"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

// CertificateRepository define el puerto de persistencia para certificados de firma.
type CertificateRepository interface {
	Create(ctx context.Context, cert *entity.Certificate) error
	GetByID(ctx context.Context, id string) (*entity.Certificate, error)
	// GetDefaultByCompany devuelve el certificado marcado como predeterminado (nil, nil si no hay).
	GetDefaultByCompany(ctx context.Context, companyID string) (*entity.Certificate, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Certificate, error)
	// ClearDefault quita is_default a todos los certificados de la empresa excepto exceptID.
	ClearDefault(ctx context.Context, companyID, exceptID string) error
	Update(ctx context.Context, cert *entity.Certificate) error
}
