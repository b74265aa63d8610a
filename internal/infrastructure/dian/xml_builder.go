// Package dian genera el XML UBL 2.1 de la factura que se firma y se envía al simulador DIAN.
package dian

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/pkg/dian"
)

// Namespaces UBL 2.1 y DIAN (Anexo Técnico 1.9). El documento usa el prefijo fe para Invoice.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	NsSts     = "dian:gov:co:facturaelectronica:v1"
)

const currencyCOP = "COP"

// BuildContext datos para construir el XML: la factura y su emisor.
type BuildContext struct {
	Invoice     *entity.Invoice
	Company     *entity.Company
	Environment string // dian.EnvironmentTesting por defecto; dian.EnvironmentProduction o error
}

// XMLBuilderService construye el XML <fe:Invoice> sin firma.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el documento. El resultado termina en </fe:Invoice>, donde el firmador inserta la firma.
func (s *XMLBuilderService) Build(ctx *BuildContext) (string, error) {
	if ctx == nil || ctx.Invoice == nil || ctx.Company == nil {
		return "", errors.New("dian: faltan invoice o company en el contexto")
	}
	inv := ctx.Invoice

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("fe:Invoice")
	root.CreateAttr("xmlns:fe", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)
	root.CreateAttr("xmlns:ext", NsExt)
	root.CreateAttr("xmlns:sts", NsSts)

	// ext:UBLExtensions primero: datos de la resolución de numeración.
	s.writeUBLExtensions(root, ctx.Company)

	env := ctx.Environment
	switch env {
	case "":
		env = dian.EnvironmentTesting
	case dian.EnvironmentTesting, dian.EnvironmentProduction:
	default:
		return "", fmt.Errorf("dian: ambiente %q desconocido", env)
	}
	issue := inv.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}
	cbc(root, "UBLVersionID", "UBL 2.1")
	cbc(root, "CustomizationID", "10")
	cbc(root, "ProfileID", "DIAN 2.1: Factura Electrónica de Venta")
	cbc(root, "ProfileExecutionID", env)
	cbc(root, "ID", inv.FullNumber())
	cbc(root, "IssueDate", issue.Format("2006-01-02"))
	cbc(root, "IssueTime", issue.Format("15:04:05-07:00"))
	cbc(root, "InvoiceTypeCode", "01")
	cbc(root, "DocumentCurrencyCode", currencyCOP)

	s.writeSupplierParty(root, ctx.Company)
	s.writeCustomerParty(root, inv)
	s.writeTaxTotal(root, inv)
	s.writeLegalMonetaryTotal(root, inv)

	doc.Indent(2)
	return doc.WriteToString()
}

func cbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func cbcAmount(parent *etree.Element, local string, value decimal.Decimal) {
	cbc(parent, local, value.StringFixed(2)).CreateAttr("currencyID", currencyCOP)
}

func sts(parent *etree.Element, local, value string) {
	parent.CreateElement("sts:" + local).SetText(value)
}

func (s *XMLBuilderService) writeUBLExtensions(root *etree.Element, c *entity.Company) {
	content := root.CreateElement("ext:UBLExtensions").
		CreateElement("ext:UBLExtension").
		CreateElement("ext:ExtensionContent")
	if c.AuthorizationNumber == "" {
		return
	}
	control := content.CreateElement("sts:DianExtensions").CreateElement("sts:InvoiceControl")
	sts(control, "InvoiceAuthorization", c.AuthorizationNumber)
	if c.AuthorizationDate != nil && c.AuthorizationExpiry != nil {
		period := control.CreateElement("sts:AuthorizationPeriod")
		sts(period, "StartDate", c.AuthorizationDate.Format("2006-01-02"))
		sts(period, "EndDate", c.AuthorizationExpiry.Format("2006-01-02"))
	}
	authorized := control.CreateElement("sts:AuthorizedInvoices")
	sts(authorized, "Prefix", c.AuthorizationPrefix)
	sts(authorized, "From", strconv.FormatInt(c.AuthorizationRangeFrom, 10))
	sts(authorized, "To", strconv.FormatInt(c.AuthorizationRangeTo, 10))
}

func (s *XMLBuilderService) writeSupplierParty(root *etree.Element, c *entity.Company) {
	party := root.CreateElement("cac:AccountingSupplierParty").CreateElement("cac:Party")
	cbc(party.CreateElement("cac:PartyName"), "Name", c.Name)

	scheme := party.CreateElement("cac:PartyTaxScheme")
	cbc(scheme, "RegistrationName", c.Name)
	id := cbc(scheme, "CompanyID", c.NIT)
	id.CreateAttr("schemeID", c.DV)
	id.CreateAttr("schemeName", dian.IdentificationTypeNIT)
	cbc(scheme, "TaxLevelCode", dian.NormalizeTaxLevel(c.TaxRegime))
	if c.Address != "" {
		cbc(party.CreateElement("cac:PhysicalLocation").CreateElement("cac:Address"), "Line", c.Address)
	}
}

func (s *XMLBuilderService) writeCustomerParty(root *etree.Element, inv *entity.Invoice) {
	party := root.CreateElement("cac:AccountingCustomerParty").CreateElement("cac:Party")
	cbc(party.CreateElement("cac:PartyName"), "Name", inv.CustomerName)

	scheme := party.CreateElement("cac:PartyTaxScheme")
	cbc(scheme, "RegistrationName", inv.CustomerName)
	nit, dv := splitCustomerDocument(inv.CustomerNIT)
	id := cbc(scheme, "CompanyID", nit)
	if dv != "" {
		id.CreateAttr("schemeID", dv)
		id.CreateAttr("schemeName", dian.IdentificationTypeNIT)
	} else {
		id.CreateAttr("schemeName", dian.IdentificationTypeCC)
	}
}

func (s *XMLBuilderService) writeTaxTotal(root *etree.Element, inv *entity.Invoice) {
	total := root.CreateElement("cac:TaxTotal")
	cbcAmount(total, "TaxAmount", inv.TaxTotal)
	sub := total.CreateElement("cac:TaxSubtotal")
	cbcAmount(sub, "TaxableAmount", inv.NetTotal)
	cbcAmount(sub, "TaxAmount", inv.TaxTotal)
	scheme := sub.CreateElement("cac:TaxCategory").CreateElement("cac:TaxScheme")
	cbc(scheme, "ID", dian.TaxCodeIVA)
	cbc(scheme, "Name", "IVA")
}

func (s *XMLBuilderService) writeLegalMonetaryTotal(root *etree.Element, inv *entity.Invoice) {
	total := root.CreateElement("cac:LegalMonetaryTotal")
	cbcAmount(total, "LineExtensionAmount", inv.NetTotal)
	cbcAmount(total, "TaxExclusiveAmount", inv.NetTotal)
	cbcAmount(total, "TaxInclusiveAmount", inv.GrandTotal)
	cbcAmount(total, "PayableAmount", inv.GrandTotal)
}

// splitCustomerDocument separa el DV cuando el documento del cliente es un NIT de 10 dígitos.
func splitCustomerDocument(doc string) (string, string) {
	digits := make([]byte, 0, len(doc))
	for i := 0; i < len(doc); i++ {
		if doc[i] >= '0' && doc[i] <= '9' {
			digits = append(digits, doc[i])
		}
	}
	if len(digits) == 10 && dian.ValidateNITVerificationDigit(string(digits)) == nil {
		return string(digits[:9]), string(digits[9:])
	}
	return doc, ""
}
