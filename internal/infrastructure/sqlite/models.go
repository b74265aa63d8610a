package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

type companyModel struct {
	ID                     string `gorm:"primaryKey"`
	Name                   string `gorm:"not null"`
	NIT                    string `gorm:"column:nit;uniqueIndex;not null"`
	DV                     string `gorm:"column:dv"`
	EconomicActivity       string
	TaxRegime              string
	Address                string
	Email                  string
	Phone                  string
	IsRegistered           bool
	RegistrationID         string
	RegistrationDate       *time.Time
	AuthorizationNumber    string
	AuthorizationDate      *time.Time
	AuthorizationExpiry    *time.Time
	AuthorizationPrefix    string
	AuthorizationRangeFrom int64
	AuthorizationRangeTo   int64
	IsAuthorized           bool
	AuthorizedAt           *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (companyModel) TableName() string { return "companies" }

func companyFromEntity(c *entity.Company) *companyModel {
	return &companyModel{
		ID: c.ID, Name: c.Name, NIT: c.NIT, DV: c.DV,
		EconomicActivity: c.EconomicActivity, TaxRegime: c.TaxRegime,
		Address: c.Address, Email: c.Email, Phone: c.Phone,
		IsRegistered: c.IsRegistered, RegistrationID: c.RegistrationID, RegistrationDate: c.RegistrationDate,
		AuthorizationNumber: c.AuthorizationNumber, AuthorizationDate: c.AuthorizationDate,
		AuthorizationExpiry: c.AuthorizationExpiry, AuthorizationPrefix: c.AuthorizationPrefix,
		AuthorizationRangeFrom: c.AuthorizationRangeFrom, AuthorizationRangeTo: c.AuthorizationRangeTo,
		IsAuthorized: c.IsAuthorized, AuthorizedAt: c.AuthorizedAt,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (m *companyModel) toEntity() *entity.Company {
	return &entity.Company{
		ID: m.ID, Name: m.Name, NIT: m.NIT, DV: m.DV,
		EconomicActivity: m.EconomicActivity, TaxRegime: m.TaxRegime,
		Address: m.Address, Email: m.Email, Phone: m.Phone,
		IsRegistered: m.IsRegistered, RegistrationID: m.RegistrationID, RegistrationDate: m.RegistrationDate,
		AuthorizationNumber: m.AuthorizationNumber, AuthorizationDate: m.AuthorizationDate,
		AuthorizationExpiry: m.AuthorizationExpiry, AuthorizationPrefix: m.AuthorizationPrefix,
		AuthorizationRangeFrom: m.AuthorizationRangeFrom, AuthorizationRangeTo: m.AuthorizationRangeTo,
		IsAuthorized: m.IsAuthorized, AuthorizedAt: m.AuthorizedAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type certificateModel struct {
	ID           string `gorm:"primaryKey"`
	CompanyID    string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Subject      string
	PublicKey    string `gorm:"not null"`
	PrivateKey   string `gorm:"not null"`
	IssueDate    time.Time
	ExpiryDate   time.Time
	SerialNumber string `gorm:"uniqueIndex;not null"`
	Issuer       string
	Status       string `gorm:"not null"`
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (certificateModel) TableName() string { return "certificates" }

func certificateFromEntity(c *entity.Certificate) *certificateModel {
	return &certificateModel{
		ID: c.ID, CompanyID: c.CompanyID, Name: c.Name, Subject: c.Subject,
		PublicKey: c.PublicKey, PrivateKey: c.PrivateKey,
		IssueDate: c.IssueDate, ExpiryDate: c.ExpiryDate,
		SerialNumber: c.SerialNumber, Issuer: c.Issuer, Status: string(c.Status), IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (m *certificateModel) toEntity() *entity.Certificate {
	return &entity.Certificate{
		ID: m.ID, CompanyID: m.CompanyID, Name: m.Name, Subject: m.Subject,
		PublicKey: m.PublicKey, PrivateKey: m.PrivateKey,
		IssueDate: m.IssueDate, ExpiryDate: m.ExpiryDate,
		SerialNumber: m.SerialNumber, Issuer: m.Issuer, Status: entity.CertificateStatus(m.Status), IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

// Los montos se guardan como texto para no perder precisión con la afinidad numérica de SQLite.
type invoiceModel struct {
	ID             string `gorm:"primaryKey"`
	CompanyID      string `gorm:"index;uniqueIndex:idx_invoice_number;not null"`
	Prefix         string `gorm:"uniqueIndex:idx_invoice_number"`
	Number         string `gorm:"uniqueIndex:idx_invoice_number;not null"`
	IssueDate      time.Time
	CustomerName   string
	CustomerNIT    string          `gorm:"column:customer_nit"`
	NetTotal       decimal.Decimal `gorm:"type:text"`
	TaxTotal       decimal.Decimal `gorm:"type:text"`
	GrandTotal     decimal.Decimal `gorm:"type:text"`
	Status         string          `gorm:"index;not null"`
	CUFE           string          `gorm:"column:cufe"`
	DIANResponse   string          `gorm:"column:dian_response"`
	TrackID        string
	XMLSigned      string     `gorm:"column:xml_signed"`
	SentToDIANAt   *time.Time `gorm:"column:sent_to_dian_at"`
	DIANResponseAt *time.Time `gorm:"column:dian_response_at"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (invoiceModel) TableName() string { return "invoices" }

func invoiceFromEntity(inv *entity.Invoice) *invoiceModel {
	return &invoiceModel{
		ID: inv.ID, CompanyID: inv.CompanyID, Prefix: inv.Prefix, Number: inv.Number,
		IssueDate: inv.IssueDate, CustomerName: inv.CustomerName, CustomerNIT: inv.CustomerNIT,
		NetTotal: inv.NetTotal, TaxTotal: inv.TaxTotal, GrandTotal: inv.GrandTotal,
		Status: string(inv.Status), CUFE: inv.CUFE, DIANResponse: inv.DIANResponse,
		TrackID: inv.TrackID, XMLSigned: inv.XMLSigned,
		SentToDIANAt: inv.SentToDIANAt, DIANResponseAt: inv.DIANResponseAt,
		CreatedAt: inv.CreatedAt, UpdatedAt: inv.UpdatedAt,
	}
}

func (m *invoiceModel) toEntity() *entity.Invoice {
	return &entity.Invoice{
		ID: m.ID, CompanyID: m.CompanyID, Prefix: m.Prefix, Number: m.Number,
		IssueDate: m.IssueDate, CustomerName: m.CustomerName, CustomerNIT: m.CustomerNIT,
		NetTotal: m.NetTotal, TaxTotal: m.TaxTotal, GrandTotal: m.GrandTotal,
		Status: entity.InvoiceStatus(m.Status), CUFE: m.CUFE, DIANResponse: m.DIANResponse,
		TrackID: m.TrackID, XMLSigned: m.XMLSigned,
		SentToDIANAt: m.SentToDIANAt, DIANResponseAt: m.DIANResponseAt,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}
