package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa. Si DV va vacío se calcula.
type CreateCompanyRequest struct {
	Name             string `json:"name"`
	NIT              string `json:"nit"`
	DV               string `json:"dv"`
	EconomicActivity string `json:"economicActivity"`
	TaxRegime        string `json:"taxRegime"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}

// CompanyResponse salida de una empresa con su etapa de habilitación.
type CompanyResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	NIT                 string     `json:"nit"`
	DV                  string     `json:"dv"`
	EconomicActivity    string     `json:"economicActivity,omitempty"`
	TaxRegime           string     `json:"taxRegime,omitempty"`
	Address             string     `json:"address,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Email               string     `json:"email,omitempty"`
	Habilitacion        string     `json:"habilitacion"`
	IsRegistered        bool       `json:"isRegistered"`
	RegistrationID      string     `json:"registrationId,omitempty"`
	RegistrationDate    *time.Time `json:"registrationDate,omitempty"`
	AuthorizationNumber string     `json:"authorizationNumber,omitempty"`
	AuthorizationPrefix string     `json:"authorizationPrefix,omitempty"`
	AuthorizationFrom   int64      `json:"authorizationRangeFrom,omitempty"`
	AuthorizationTo     int64      `json:"authorizationRangeTo,omitempty"`
	AuthorizationDate   *time.Time `json:"authorizationDate,omitempty"`
	AuthorizationExpiry *time.Time `json:"authorizationExpiry,omitempty"`
	IsAuthorized        bool       `json:"isAuthorized"`
	AuthorizedAt        *time.Time `json:"authorizedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CertificateResponse certificado sin la llave privada.
type CertificateResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	Name         string    `json:"name"`
	Subject      string    `json:"subject"`
	PublicKey    string    `json:"publicKey"`
	IssueDate    time.Time `json:"issueDate"`
	ExpiryDate   time.Time `json:"expiryDate"`
	SerialNumber string    `json:"serialNumber"`
	Issuer       string    `json:"issuer"`
	Status       string    `json:"status"`
	IsDefault    bool      `json:"isDefault"`
}
