package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas sobre gorm.
type InvoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(invoiceFromEntity(invoice)).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: la factura %s ya existe", domain.ErrDuplicate, invoice.FullNumber())
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update persiste el resultado del envío. Los campos vacíos también se escriben (el CUFE se limpia al rechazar).
// Con expected la escritura es condicional al estado guardado.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice, expected ...entity.InvoiceStatus) error {
	q := r.db.WithContext(ctx).Model(&invoiceModel{}).Where("id = ?", invoice.ID)
	if len(expected) > 0 {
		q = q.Where("status IN ?", statusStrings(expected))
	}
	res := q.Updates(map[string]any{
		"status":           string(invoice.Status),
		"cufe":             invoice.CUFE,
		"dian_response":    invoice.DIANResponse,
		"track_id":         invoice.TrackID,
		"xml_signed":       invoice.XMLSigned,
		"sent_to_dian_at":  invoice.SentToDIANAt,
		"dian_response_at": invoice.DIANResponseAt,
		"updated_at":       invoice.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update invoice: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if len(expected) > 0 {
			return fmt.Errorf("%w: la factura %s ya no está en estado %v", domain.ErrConflict, invoice.ID, expected)
		}
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoice.ID)
	}
	return nil
}

func statusStrings(list []entity.InvoiceStatus) []string {
	out := make([]string, len(list))
	for i, st := range list {
		out[i] = string(st)
	}
	return out
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var m invoiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return m.toEntity(), nil
}

func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	var models []invoiceModel
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	list := make([]*entity.Invoice, 0, len(models))
	for i := range models {
		list = append(list, models[i].toEntity())
	}
	return list, nil
}
