package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/dian-simulador/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción gorm.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run hace commit si fn no devuelve error; rollback en otro caso.
func (r *TxRunner) Run(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	certificates repository.CertificateRepository,
) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCompanyRepository(tx), NewCertificateRepository(tx))
	})
}
