package repository

import "context"

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a ella.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(companies CompanyRepository, certificates CertificateRepository) error) error
}
