package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo empresas sobre gorm.
type CompanyRepo struct {
	db *gorm.DB
}

// NewCompanyRepository construye el adaptador. db puede ser una transacción.
func NewCompanyRepository(db *gorm.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	if err := r.db.WithContext(ctx).Create(companyFromEntity(company)).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: ya existe una empresa con NIT %s", domain.ErrDuplicate, company.NIT)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CompanyRepo) GetByNIT(ctx context.Context, nit string) (*entity.Company, error) {
	return r.first(ctx, "nit = ?", nit)
}

func (r *CompanyRepo) first(ctx context.Context, cond string, arg any) (*entity.Company, error) {
	var m companyModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return m.toEntity(), nil
}

// Update reescribe todos los campos, incluidos los vacíos.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	res := r.db.WithContext(ctx).Model(&companyModel{}).Where("id = ?", company.ID).
		Select("*").Omit("id", "created_at").Updates(companyFromEntity(company))
	if res.Error != nil {
		return fmt.Errorf("update company: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, company.ID)
	}
	return nil
}

func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	var models []companyModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	list := make([]*entity.Company, 0, len(models))
	for i := range models {
		list = append(list, models[i].toEntity())
	}
	return list, nil
}
