// Package dian contiene reglas de dominio del simulador DIAN: huella CUFE simulada y
// validaciones previas al envío de una factura.
package dian

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CUFELength longitud del CUFE simulado (hex).
const CUFELength = 32

// GenerateCUFE calcula el CUFE simulado: SHA-256 del XML, primeros 32 caracteres hex en mayúsculas.
// No sigue la cadena SHA-384 del Anexo Técnico; es una huella determinista del contenido.
func GenerateCUFE(xmlContent string) string {
	sum := sha256.Sum256([]byte(xmlContent))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:CUFELength])
}

// IsCUFE informa si s tiene el formato de un CUFE simulado.
func IsCUFE(s string) bool {
	if len(s) != CUFELength {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}
