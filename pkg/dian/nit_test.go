package dian_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/pkg/dian"
)

func TestComputeNITVerificationDigit(t *testing.T) {
	dv, err := dian.ComputeNITVerificationDigit("900123456")
	require.NoError(t, err)
	assert.Equal(t, byte('8'), dv)

	dv, err = dian.ComputeNITVerificationDigit("800.987.654")
	require.NoError(t, err)
	assert.Equal(t, byte('4'), dv)

	_, err = dian.ComputeNITVerificationDigit("1234")
	assert.Error(t, err)
}

func TestValidateNITVerificationDigit(t *testing.T) {
	assert.NoError(t, dian.ValidateNITVerificationDigit("900123456-8"))
	assert.NoError(t, dian.ValidateNITVerificationDigit("800.987.654-4"))
	assert.Error(t, dian.ValidateNITVerificationDigit("900123456-7"))
	assert.Error(t, dian.ValidateNITVerificationDigit("900123456"))
}

func TestMatchesVerificationDigit(t *testing.T) {
	assert.True(t, dian.MatchesVerificationDigit("900123456", "8"))
	assert.False(t, dian.MatchesVerificationDigit("900123456", "1"))
	assert.False(t, dian.MatchesVerificationDigit("900123456", ""))
	assert.False(t, dian.MatchesVerificationDigit("12", "8"))
}

func TestNormalizeTaxLevel(t *testing.T) {
	cases := map[string]string{
		"O-48":    dian.TaxLevelResponsableIVA,
		"0-48":    dian.TaxLevelResponsableIVA,
		"0-49":    dian.TaxLevelNoResponsableIVA,
		"13":      dian.TaxLevelGranContribuyente,
		" o-15 ":  dian.TaxLevelAutorretenedor,
		"R-99-PN": dian.TaxLevelNoAplicaOtros,
		"":        dian.TaxLevelNoAplicaOtros,
		"Z-00":    dian.TaxLevelNoAplicaOtros,
	}
	for in, want := range cases {
		assert.Equal(t, want, dian.NormalizeTaxLevel(in), in)
	}
	assert.True(t, dian.ValidFiscalResponsibilityCodes["0-48"])
	assert.True(t, dian.ValidFiscalResponsibilityCodes["0-49"])
}
