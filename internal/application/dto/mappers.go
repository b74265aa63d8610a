package dto

import "github.com/jhoicas/dian-simulador/internal/domain/entity"

// CompanyFromEntity mapea la empresa a su respuesta.
func CompanyFromEntity(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:                  c.ID,
		Name:                c.Name,
		NIT:                 c.NIT,
		DV:                  c.DV,
		EconomicActivity:    c.EconomicActivity,
		TaxRegime:           c.TaxRegime,
		Address:             c.Address,
		Phone:               c.Phone,
		Email:               c.Email,
		Habilitacion:        string(c.Habilitacion()),
		IsRegistered:        c.IsRegistered,
		RegistrationID:      c.RegistrationID,
		RegistrationDate:    c.RegistrationDate,
		AuthorizationNumber: c.AuthorizationNumber,
		AuthorizationPrefix: c.AuthorizationPrefix,
		AuthorizationFrom:   c.AuthorizationRangeFrom,
		AuthorizationTo:     c.AuthorizationRangeTo,
		AuthorizationDate:   c.AuthorizationDate,
		AuthorizationExpiry: c.AuthorizationExpiry,
		IsAuthorized:        c.IsAuthorized,
		AuthorizedAt:        c.AuthorizedAt,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// CertificateFromEntity omite la llave privada.
func CertificateFromEntity(c *entity.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		Subject:      c.Subject,
		PublicKey:    c.PublicKey,
		IssueDate:    c.IssueDate,
		ExpiryDate:   c.ExpiryDate,
		SerialNumber: c.SerialNumber,
		Issuer:       c.Issuer,
		Status:       string(c.Status),
		IsDefault:    c.IsDefault,
	}
}

// InvoiceFromEntity mapea la factura a su respuesta.
func InvoiceFromEntity(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             inv.ID,
		CompanyID:      inv.CompanyID,
		Prefix:         inv.Prefix,
		Number:         inv.Number,
		IssueDate:      inv.IssueDate,
		CustomerName:   inv.CustomerName,
		CustomerNIT:    inv.CustomerNIT,
		NetTotal:       inv.NetTotal,
		TaxTotal:       inv.TaxTotal,
		GrandTotal:     inv.GrandTotal,
		Status:         string(inv.Status),
		CUFE:           inv.CUFE,
		TrackID:        inv.TrackID,
		DIANResponse:   inv.DIANResponse,
		SentToDIANAt:   inv.SentToDIANAt,
		DIANResponseAt: inv.DIANResponseAt,
	}
}
