package dian_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/domain/dian"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

func validInvoice() *entity.Invoice {
	return &entity.Invoice{
		Prefix:       "SETP",
		Number:       "990000001",
		CustomerName: "Cliente de Prueba S.A.S",
		CustomerNIT:  "800987654-4",
		NetTotal:     decimal.NewFromInt(1_000_000),
		TaxTotal:     decimal.NewFromInt(190_000),
		GrandTotal:   decimal.NewFromInt(1_190_000),
		Status:       entity.InvoiceStatusDraft,
	}
}

func TestValidateInvoice_Valida(t *testing.T) {
	require.NoError(t, dian.ValidateInvoice(validInvoice()))
}

func TestValidateInvoice_CedulaSinDV(t *testing.T) {
	inv := validInvoice()
	inv.CustomerNIT = "10203040"
	assert.NoError(t, dian.ValidateInvoice(inv), "documentos sin DV no se validan con módulo 11")
}

func TestValidateInvoice_Errores(t *testing.T) {
	cases := map[string]func(inv *entity.Invoice){
		"sin numero":     func(inv *entity.Invoice) { inv.Number = "" },
		"sin cliente":    func(inv *entity.Invoice) { inv.CustomerName = " " },
		"sin documento":  func(inv *entity.Invoice) { inv.CustomerNIT = "" },
		"dv incorrecto":  func(inv *entity.Invoice) { inv.CustomerNIT = "800987654-5" },
		"total negativo": func(inv *entity.Invoice) { inv.TaxTotal = decimal.NewFromInt(-1) },
		"grand total":    func(inv *entity.Invoice) { inv.GrandTotal = decimal.NewFromInt(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			inv := validInvoice()
			mutate(inv)
			err := dian.ValidateInvoice(inv)
			require.Error(t, err)
			assert.ErrorIs(t, err, dian.ErrInvalidInvoice)
		})
	}
}

func TestValidateInvoice_Nil(t *testing.T) {
	assert.ErrorIs(t, dian.ValidateInvoice(nil), dian.ErrInvalidInvoice)
}
