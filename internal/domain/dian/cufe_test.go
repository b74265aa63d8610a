package dian_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/domain/dian"
)

// Vector calculado con sha256sum sobre la cadena exacta, truncado a 32 y en mayúsculas.
const (
	testXML          = "<fe:Invoice>...</fe:Invoice>"
	testCufeExpected = "274ECA29773D8CA263283CF4D3F2FD8C"
)

func TestGenerateCUFE_VectorExacto(t *testing.T) {
	assert.Equal(t, testCufeExpected, dian.GenerateCUFE(testXML))
}

func TestGenerateCUFE_Determinista(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, dian.GenerateCUFE(testXML), dian.GenerateCUFE(testXML),
			"el mismo XML siempre debe producir el mismo CUFE")
	}
}

func TestGenerateCUFE_Formato(t *testing.T) {
	inputs := []string{"", testXML, "not-xml", strings.Repeat("<fe:Invoice/>", 500), "ñandú"}
	for _, in := range inputs {
		cufe := dian.GenerateCUFE(in)
		require.Len(t, cufe, dian.CUFELength)
		assert.True(t, dian.IsCUFE(cufe), "CUFE %q debe ser hex en mayúsculas", cufe)
	}
}

func TestGenerateCUFE_SensibleAlContenido(t *testing.T) {
	assert.NotEqual(t,
		dian.GenerateCUFE("<fe:Invoice><cbc:ID>SETP1</cbc:ID></fe:Invoice>"),
		dian.GenerateCUFE("<fe:Invoice><cbc:ID>SETP2</cbc:ID></fe:Invoice>"),
	)
}

func TestIsCUFE(t *testing.T) {
	assert.True(t, dian.IsCUFE(testCufeExpected))
	assert.False(t, dian.IsCUFE(strings.ToLower(testCufeExpected)))
	assert.False(t, dian.IsCUFE(testCufeExpected[:31]))
	assert.False(t, dian.IsCUFE("Z74ECA29773D8CA263283CF4D3F2FD8C"))
}
