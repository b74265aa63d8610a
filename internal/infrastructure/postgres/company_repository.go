package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `
	id, name, nit, dv, economic_activity, tax_regime, address, email, phone,
	is_registered, registration_id, registration_date,
	authorization_number, authorization_date, authorization_expiry,
	authorization_prefix, authorization_range_from, authorization_range_to,
	is_authorized, authorized_at, created_at, updated_at`

func companyArgs(c *entity.Company) []any {
	return []any{
		c.ID, c.Name, c.NIT, c.DV, c.EconomicActivity, c.TaxRegime, c.Address, c.Email, c.Phone,
		c.IsRegistered, c.RegistrationID, c.RegistrationDate,
		c.AuthorizationNumber, c.AuthorizationDate, c.AuthorizationExpiry,
		c.AuthorizationPrefix, c.AuthorizationRangeFrom, c.AuthorizationRangeTo,
		c.IsAuthorized, c.AuthorizedAt, c.CreatedAt, c.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.NIT, &c.DV, &c.EconomicActivity, &c.TaxRegime, &c.Address, &c.Email, &c.Phone,
		&c.IsRegistered, &c.RegistrationID, &c.RegistrationDate,
		&c.AuthorizationNumber, &c.AuthorizationDate, &c.AuthorizationExpiry,
		&c.AuthorizationPrefix, &c.AuthorizationRangeFrom, &c.AuthorizationRangeTo,
		&c.IsAuthorized, &c.AuthorizedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	if _, err := r.q.Exec(ctx, query, companyArgs(company)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe una empresa con NIT %s", domain.ErrDuplicate, company.NIT)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID. nil, nil si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByNIT obtiene una empresa por NIT.
func (r *CompanyRepo) GetByNIT(ctx context.Context, nit string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE nit = $1`, nit))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by NIT: %w", err)
	}
	return c, nil
}

// Update reescribe todos los campos de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, nit = $3, dv = $4, economic_activity = $5, tax_regime = $6,
			address = $7, email = $8, phone = $9,
			is_registered = $10, registration_id = $11, registration_date = $12,
			authorization_number = $13, authorization_date = $14, authorization_expiry = $15,
			authorization_prefix = $16, authorization_range_from = $17, authorization_range_to = $18,
			is_authorized = $19, authorized_at = $20, updated_at = $21
		WHERE id = $1`
	args := companyArgs(company)
	args = append(args[:20], company.UpdatedAt)
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, company.ID)
	}
	return nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
