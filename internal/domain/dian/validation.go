package dian

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/pkg/dian"
)

// ErrInvalidInvoice agrupa errores de validación de factura.
var ErrInvalidInvoice = errors.New("factura inválida para DIAN")

// ValidateInvoice valida la cabecera antes de generar y firmar el XML.
// Comprueba numeración, adquiriente y que GrandTotal = NetTotal + TaxTotal.
// Si el NIT del adquiriente trae dígito de verificación (10 dígitos) se valida con módulo 11.
func ValidateInvoice(invoice *entity.Invoice) error {
	if invoice == nil {
		return fmt.Errorf("%w: factura nula", ErrInvalidInvoice)
	}
	var errs []error

	if strings.TrimSpace(invoice.Prefix) == "" || strings.TrimSpace(invoice.Number) == "" {
		errs = append(errs, errors.New("prefijo y número son obligatorios"))
	}
	if strings.TrimSpace(invoice.CustomerName) == "" {
		errs = append(errs, errors.New("el nombre del adquiriente es obligatorio"))
	}
	if digits := onlyDigits(invoice.CustomerNIT); len(digits) == 10 {
		if err := dian.ValidateNITVerificationDigit(digits); err != nil {
			errs = append(errs, fmt.Errorf("adquiriente: %w", err))
		}
	} else if digits == "" {
		errs = append(errs, errors.New("el documento del adquiriente es obligatorio"))
	}

	if invoice.NetTotal.IsNegative() || invoice.TaxTotal.IsNegative() {
		errs = append(errs, errors.New("los totales no pueden ser negativos"))
	}
	expectedGrand := invoice.NetTotal.Add(invoice.TaxTotal).Round(2)
	if !invoice.GrandTotal.Round(2).Equal(expectedGrand) {
		errs = append(errs, fmt.Errorf("grand total (%s) no coincide con net + tax (%s)", invoice.GrandTotal.StringFixed(2), expectedGrand.StringFixed(2)))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidInvoice}, errs...)...)
	}
	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
