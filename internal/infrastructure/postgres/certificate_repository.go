package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

// CertificateRepo certificados de firma sobre PostgreSQL.
type CertificateRepo struct {
	q Querier
}

// NewCertificateRepository construye el adaptador. Pasar pool o tx.
func NewCertificateRepository(q Querier) *CertificateRepo {
	return &CertificateRepo{q: q}
}

const certificateColumns = `
	id, company_id, name, subject, public_key, private_key, issue_date, expiry_date,
	serial_number, issuer, status, is_default, created_at, updated_at`

func scanCertificate(row rowScanner) (*entity.Certificate, error) {
	var c entity.Certificate
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Subject, &c.PublicKey, &c.PrivateKey, &c.IssueDate, &c.ExpiryDate,
		&c.SerialNumber, &c.Issuer, &c.Status, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste el certificado.
func (r *CertificateRepo) Create(ctx context.Context, c *entity.Certificate) error {
	query := `INSERT INTO certificates (` + certificateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Name, c.Subject, c.PublicKey, c.PrivateKey, c.IssueDate, c.ExpiryDate,
		c.SerialNumber, c.Issuer, c.Status, c.IsDefault, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: serial %s", domain.ErrDuplicate, c.SerialNumber)
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	c, err := scanCertificate(r.q.QueryRow(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return c, nil
}

// GetDefaultByCompany certificado predeterminado más reciente de la empresa.
func (r *CertificateRepo) GetDefaultByCompany(ctx context.Context, companyID string) (*entity.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates
		WHERE company_id = $1 AND is_default = TRUE ORDER BY created_at DESC LIMIT 1`
	c, err := scanCertificate(r.q.QueryRow(ctx, query, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default certificate: %w", err)
	}
	return c, nil
}

// ListByCompany certificados de la empresa, más recientes primero.
func (r *CertificateRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Certificate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var list []*entity.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ClearDefault quita is_default a los demás certificados de la empresa.
func (r *CertificateRepo) ClearDefault(ctx context.Context, companyID, exceptID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE certificates SET is_default = FALSE, updated_at = now() WHERE company_id = $1 AND id <> $2 AND is_default`,
		companyID, exceptID)
	if err != nil {
		return fmt.Errorf("clear default certificate: %w", err)
	}
	return nil
}

// Update estado y marca de predeterminado.
func (r *CertificateRepo) Update(ctx context.Context, c *entity.Certificate) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE certificates SET name = $2, status = $3, is_default = $4, expiry_date = $5, updated_at = $6 WHERE id = $1`,
		c.ID, c.Name, c.Status, c.IsDefault, c.ExpiryDate, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: certificado %s", domain.ErrNotFound, c.ID)
	}
	return nil
}
