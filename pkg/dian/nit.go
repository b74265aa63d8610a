package dian

import (
	"fmt"
	"unicode"
)

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican a los 9 primeros dígitos del NIT, de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// ValidateNITVerificationDigit valida que el NIT (con o sin puntos/guiones) tenga
// un dígito de verificación correcto según el algoritmo módulo 11 de la DIAN.
// taxID puede ser "123456789-1", "123.456.789-1" o "1234567891".
func ValidateNITVerificationDigit(taxID string) error {
	digits := extractDigits(taxID)
	if len(digits) != 10 {
		return fmt.Errorf("dian: NIT de persona jurídica debe incluir dígito de verificación (10 dígitos), se recibieron %d", len(digits))
	}
	expected := mod11(digits[:9])
	if digits[9] != expected {
		return fmt.Errorf("dian: dígito de verificación del NIT inválido: esperado %c, recibido %c", expected, digits[9])
	}
	return nil
}

// ComputeNITVerificationDigit calcula el dígito de verificación para los 9 primeros dígitos del NIT.
func ComputeNITVerificationDigit(taxID string) (byte, error) {
	digits := extractDigits(taxID)
	if len(digits) < 9 {
		return 0, fmt.Errorf("dian: se requieren al menos 9 dígitos para calcular el dígito de verificación, se encontraron %d", len(digits))
	}
	return mod11(digits[:9]), nil
}

// MatchesVerificationDigit informa si dv corresponde al NIT base. Errores de formato cuentan como no.
func MatchesVerificationDigit(nit, dv string) bool {
	expected, err := ComputeNITVerificationDigit(nit)
	if err != nil {
		return false
	}
	d := extractDigits(dv)
	return len(d) == 1 && d[0] == expected
}

func mod11(base []byte) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder)
	}
	return byte('0' + (11 - remainder))
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
