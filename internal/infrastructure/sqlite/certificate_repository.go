package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

// CertificateRepo certificados de firma sobre gorm.
type CertificateRepo struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepo {
	return &CertificateRepo{db: db}
}

func (r *CertificateRepo) Create(ctx context.Context, cert *entity.Certificate) error {
	if err := r.db.WithContext(ctx).Create(certificateFromEntity(cert)).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: serial %s", domain.ErrDuplicate, cert.SerialNumber)
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	var m certificateModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return m.toEntity(), nil
}

// GetDefaultByCompany certificado predeterminado más reciente (nil, nil si no hay).
func (r *CertificateRepo) GetDefaultByCompany(ctx context.Context, companyID string) (*entity.Certificate, error) {
	var m certificateModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_default = ?", companyID, true).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default certificate: %w", err)
	}
	return m.toEntity(), nil
}

func (r *CertificateRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Certificate, error) {
	var models []certificateModel
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	list := make([]*entity.Certificate, 0, len(models))
	for i := range models {
		list = append(list, models[i].toEntity())
	}
	return list, nil
}

func (r *CertificateRepo) ClearDefault(ctx context.Context, companyID, exceptID string) error {
	err := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("company_id = ? AND id <> ? AND is_default = ?", companyID, exceptID, true).
		Updates(map[string]any{"is_default": false, "updated_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("clear default certificate: %w", err)
	}
	return nil
}

func (r *CertificateRepo) Update(ctx context.Context, cert *entity.Certificate) error {
	res := r.db.WithContext(ctx).Model(&certificateModel{}).Where("id = ?", cert.ID).
		Updates(map[string]any{
			"name":        cert.Name,
			"status":      string(cert.Status),
			"is_default":  cert.IsDefault,
			"expiry_date": cert.ExpiryDate,
			"updated_at":  cert.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update certificate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: certificado %s", domain.ErrNotFound, cert.ID)
	}
	return nil
}
