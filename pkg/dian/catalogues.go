// Package dian contiene catálogos y validaciones alineados al Anexo Técnico
// de Factura Electrónica de Venta DIAN (Colombia) usados por el simulador.
package dian

import "strings"

// =============================================================================
// Tabla 17 - Tipos de Responsabilidad Fiscal (Anexo 1.9 - 13.2.7.1)
// En el anexo figuran como "0-XX"; en sistemas se usa también "O-XX" (letra O).
// =============================================================================

const (
	TaxLevelGranContribuyente  = "O-13"    // Gran contribuyente
	TaxLevelAutorretenedor     = "O-15"    // Autorretenedor
	TaxLevelAgenteRetencionIVA = "O-23"    // Agente de retención en el impuesto sobre las ventas
	TaxLevelRegimenSimple      = "O-47"    // Régimen Simple de Tributación – SIMPLE
	TaxLevelResponsableIVA     = "O-48"    // Responsable de IVA
	TaxLevelNoResponsableIVA   = "O-49"    // No responsable de IVA
	TaxLevelNoAplicaOtros      = "R-99-PN" // No Aplica - Otros
)

// ValidFiscalResponsibilityCodes contiene los códigos de responsabilidad fiscal válidos (DIAN).
var ValidFiscalResponsibilityCodes = map[string]bool{
	TaxLevelGranContribuyente:  true,
	TaxLevelAutorretenedor:     true,
	TaxLevelAgenteRetencionIVA: true,
	TaxLevelRegimenSimple:      true,
	TaxLevelResponsableIVA:     true,
	TaxLevelNoResponsableIVA:   true,
	TaxLevelNoAplicaOtros:      true,
	// formato con cero
	"0-13": true, "0-15": true, "0-23": true, "0-47": true, "0-48": true, "0-49": true,
}

// NormalizeTaxLevel devuelve el código de responsabilidad fiscal en formato "O-XX".
// Acepta "0-XX" y el número sin prefijo; un código desconocido o vacío se reporta
// como TaxLevelNoAplicaOtros.
func NormalizeTaxLevel(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if strings.HasPrefix(code, "0-") {
		code = "O-" + code[2:]
	}
	if ValidFiscalResponsibilityCodes[code] {
		return code
	}
	if ValidFiscalResponsibilityCodes["O-"+code] {
		return "O-" + code
	}
	return TaxLevelNoAplicaOtros
}

// =============================================================================
// Tabla 11 - Tipos de Impuesto (Anexo 1.9 - 13.2.2)
// =============================================================================

// TaxCodeIVA el simulador solo liquida IVA.
const TaxCodeIVA = "01"

// =============================================================================
// Tabla 3 - Tipos de identificación (Anexo 1.9 - 13.2.1)
// =============================================================================

const (
	IdentificationTypeNIT = "31" // NIT - requiere dígito de verificación
	IdentificationTypeCC  = "13" // Cédula de ciudadanía
)

// Ambientes de envío.
const (
	EnvironmentProduction = "1"
	EnvironmentTesting    = "2" // Habilitación
)
