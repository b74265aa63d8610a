package dian_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	infradian "github.com/jhoicas/dian-simulador/internal/infrastructure/dian"
	"github.com/jhoicas/dian-simulador/pkg/dian"
)

func buildContext() *infradian.BuildContext {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(2, 0, 0)
	return &infradian.BuildContext{
		Company: &entity.Company{
			Name:                   "Acme S.A.S.",
			NIT:                    "900123456",
			DV:                     "8",
			TaxRegime:              "O-48",
			AuthorizationNumber:    "1876400000042",
			AuthorizationDate:      &from,
			AuthorizationExpiry:    &to,
			AuthorizationPrefix:    "SETP",
			AuthorizationRangeFrom: 990000000,
			AuthorizationRangeTo:   995000000,
		},
		Invoice: &entity.Invoice{
			Prefix:       "SETP",
			Number:       "990000001",
			IssueDate:    time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			CustomerName: "Cliente Uno",
			CustomerNIT:  "8009876544",
			NetTotal:     decimal.NewFromInt(100000),
			TaxTotal:     decimal.NewFromInt(19000),
			GrandTotal:   decimal.NewFromInt(119000),
		},
	}
}

func TestXMLBuilder_Build(t *testing.T) {
	out, err := infradian.NewXMLBuilderService().Build(buildContext())
	require.NoError(t, err)

	assert.Contains(t, out, "<fe:Invoice")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</fe:Invoice>"))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "fe", root.Space)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, "UBLExtensions", root.ChildElements()[0].Tag)

	assert.Equal(t, "SETP990000001", root.FindElement("./cbc:ID").Text())
	assert.Equal(t, "2024-03-15", root.FindElement("./cbc:IssueDate").Text())
	assert.Equal(t, "1876400000042", root.FindElement("//sts:InvoiceAuthorization").Text())
	assert.Equal(t, "119000.00", root.FindElement("./cac:LegalMonetaryTotal/cbc:PayableAmount").Text())
	assert.Equal(t, "19000.00", root.FindElement("./cac:TaxTotal/cbc:TaxAmount").Text())
	assert.Equal(t, dian.EnvironmentTesting, root.FindElement("./cbc:ProfileExecutionID").Text())
	assert.Equal(t, dian.TaxLevelResponsableIVA,
		root.FindElement("./cac:AccountingSupplierParty/cac:Party/cac:PartyTaxScheme/cbc:TaxLevelCode").Text())

	customerID := root.FindElement("./cac:AccountingCustomerParty/cac:Party/cac:PartyTaxScheme/cbc:CompanyID")
	require.NotNil(t, customerID)
	assert.Equal(t, "800987654", customerID.Text())
	assert.Equal(t, "4", customerID.SelectAttrValue("schemeID", ""))
}

func TestXMLBuilder_SinResolucion(t *testing.T) {
	ctx := buildContext()
	ctx.Company.AuthorizationNumber = ""
	out, err := infradian.NewXMLBuilderService().Build(ctx)
	require.NoError(t, err)
	assert.NotContains(t, out, "sts:InvoiceAuthorization")
}

func TestXMLBuilder_Ambiente(t *testing.T) {
	ctx := buildContext()
	ctx.Environment = dian.EnvironmentProduction
	out, err := infradian.NewXMLBuilderService().Build(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "<cbc:ProfileExecutionID>1</cbc:ProfileExecutionID>")

	ctx.Environment = "3"
	_, err = infradian.NewXMLBuilderService().Build(ctx)
	assert.Error(t, err)
}

func TestXMLBuilder_TaxLevelSinPrefijo(t *testing.T) {
	ctx := buildContext()
	ctx.Company.TaxRegime = "49"
	out, err := infradian.NewXMLBuilderService().Build(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "<cbc:TaxLevelCode>O-49</cbc:TaxLevelCode>")
}

func TestXMLBuilder_ContextoIncompleto(t *testing.T) {
	_, err := infradian.NewXMLBuilderService().Build(&infradian.BuildContext{Invoice: &entity.Invoice{}})
	assert.Error(t, err)
}
