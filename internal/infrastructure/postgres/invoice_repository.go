package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, company_id, prefix, number, issue_date, customer_name, customer_nit,
	net_total, tax_total, grand_total, status, cufe, dian_response, track_id, xml_signed,
	sent_to_dian_at, dian_response_at, created_at, updated_at`

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Prefix, &inv.Number, &inv.IssueDate, &inv.CustomerName, &inv.CustomerNIT,
		&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.Status, &inv.CUFE, &inv.DIANResponse, &inv.TrackID, &inv.XMLSigned,
		&inv.SentToDIANAt, &inv.DIANResponseAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.Prefix, invoice.Number, invoice.IssueDate, invoice.CustomerName, invoice.CustomerNIT,
		invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal, invoice.Status, invoice.CUFE, invoice.DIANResponse, invoice.TrackID, invoice.XMLSigned,
		invoice.SentToDIANAt, invoice.DIANResponseAt, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la factura %s ya existe", domain.ErrDuplicate, invoice.FullNumber())
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update persiste el resultado del envío: estado, CUFE, respuesta, XML firmado y fechas.
// Con expected el UPDATE solo aplica si el estado guardado es uno de ellos (compare-and-set).
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice, expected ...entity.InvoiceStatus) error {
	query := `
		UPDATE invoices SET status = $2, cufe = $3, dian_response = $4, track_id = $5, xml_signed = $6,
			sent_to_dian_at = $7, dian_response_at = $8, updated_at = $9
		WHERE id = $1`
	args := []any{
		invoice.ID, invoice.Status, invoice.CUFE, invoice.DIANResponse, invoice.TrackID, invoice.XMLSigned,
		invoice.SentToDIANAt, invoice.DIANResponseAt, invoice.UpdatedAt,
	}
	if len(expected) > 0 {
		statuses := make([]string, len(expected))
		for i, st := range expected {
			statuses[i] = string(st)
		}
		query += ` AND status = ANY($10)`
		args = append(args, statuses)
	}
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		if len(expected) > 0 {
			return fmt.Errorf("%w: la factura %s ya no está en estado %v", domain.ErrConflict, invoice.ID, expected)
		}
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoice.ID)
	}
	return nil
}

// GetByID obtiene una factura por ID. nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByCompany facturas de la empresa, más recientes primero.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
