package entity

import "time"

// CertificateStatus estado de un certificado de firma.
type CertificateStatus string

const (
	CertificateStatusPending CertificateStatus = "pending"
	CertificateStatusActive  CertificateStatus = "active"
	CertificateStatusExpired CertificateStatus = "expired"
	CertificateStatusRevoked CertificateStatus = "revoked"
)

// Certificate credencial de firma emitida por la CA simulada.
// PrivateKey nunca sale en respuestas HTTP.
type Certificate struct {
	ID           string
	CompanyID    string
	Name         string
	Subject      string
	PublicKey    string // PEM (SPKI)
	PrivateKey   string // PEM (PKCS#8)
	IssueDate    time.Time
	ExpiryDate   time.Time
	SerialNumber string
	Issuer       string
	Status       CertificateStatus
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Usable informa si el certificado puede firmar en el instante dado.
func (c *Certificate) Usable(at time.Time) bool {
	return c.Status == CertificateStatusActive && at.Before(c.ExpiryDate) && c.PrivateKey != ""
}
