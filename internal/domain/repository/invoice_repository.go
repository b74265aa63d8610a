package repository

import (
	"context"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update persiste estado, CUFE, respuesta DIAN, XML firmado y marcas de tiempo.
	// Con expected solo escribe si el estado guardado es uno de ellos; si no, domain.ErrConflict.
	Update(ctx context.Context, invoice *entity.Invoice, expected ...entity.InvoiceStatus) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error)
}
