package simulator_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

func newHabilitacion(rate float64, r simulator.RandomSource, sl *recordingSleeper) *simulator.HabilitacionSimulator {
	return simulator.NewHabilitacionSimulator(simulator.Config{
		DelayMin:     time.Second,
		DelayMax:     time.Second,
		StepDelayMin: 300 * time.Millisecond,
		StepDelayMax: 300 * time.Millisecond,
		ErrorRate:    rate,
		Random:       r,
		Sleeper:      sl,
		Now:          clock,
	})
}

func company() *entity.Company {
	return &entity.Company{
		ID:               "c1",
		Name:             "Acme S.A.S.",
		NIT:              "900123456",
		DV:               "8",
		EconomicActivity: "6201",
		TaxRegime:        "O-48",
	}
}

func hasLine(lines []string, marker, text string) bool {
	for _, l := range lines {
		if strings.Contains(l, marker) && strings.Contains(l, text) {
			return true
		}
	}
	return false
}

func TestRegisterCompany(t *testing.T) {
	sl := &recordingSleeper{}
	sim := newHabilitacion(0, fixedRandom{}, sl)

	res, err := sim.RegisterCompany(context.Background(), company())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Registration)
	assert.True(t, strings.HasPrefix(res.Registration.RegistrationID, "REG-"))
	assert.Equal(t, fixedNow, res.Registration.Timestamp)
	assert.False(t, hasLine(res.Logs, "⚠", ""), "DV correcto no genera advertencia")

	// tres pasos de 300ms y la fase x1
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond, time.Second}, sl.waits)
}

func TestRegisterCompany_DVIncorrectoSoloAdvierte(t *testing.T) {
	sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})
	c := company()
	c.DV = "1"

	res, err := sim.RegisterCompany(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, hasLine(res.Logs, "⚠", "no corresponde al NIT 900123456"))
}

func TestRegisterCompany_DatosIncompletos(t *testing.T) {
	sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})
	c := company()
	c.EconomicActivity = ""

	res, err := sim.RegisterCompany(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, res.Success, "un fallo de validación no depende de errorRate")
	assert.Nil(t, res.Registration)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, simulator.CodeMissingData, res.Errors[0].Code)
	assert.True(t, hasLine(res.Logs, "✗", "Actividad económica no suministrada"))
	assert.False(t, hasLine(res.Logs, "✓", "Régimen tributario"), "el log se corta en el primer fallo")
}

func TestRegisterCompany_SinEmpresa(t *testing.T) {
	sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})
	res, err := sim.RegisterCompany(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestRegisterCompany_RechazoAleatorio(t *testing.T) {
	sim := newHabilitacion(1, fixedRandom{i: 0}, &recordingSleeper{})
	res, err := sim.RegisterCompany(context.Background(), company())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.Registration)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "REG-001", res.Errors[0].Code)
}

func TestRequestResolution(t *testing.T) {
	sl := &recordingSleeper{}
	sim := newHabilitacion(0, fixedRandom{i: 42}, sl)
	c := company()
	c.IsRegistered = true
	c.RegistrationID = "REG-ABC"

	res, err := sim.RequestResolution(context.Background(), c, simulator.ResolutionRequest{Prefix: "SETP", RangeFrom: 990000000, RangeTo: 995000000})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotNil(t, res.Resolution)
	assert.Equal(t, "1876400000042", res.Resolution.ResolutionNumber)
	assert.Regexp(t, `^18764\d{8}$`, res.Resolution.ResolutionNumber)
	assert.Equal(t, "SETP", res.Resolution.Prefix)
	assert.Equal(t, fixedNow, res.Resolution.IssuedAt)
	assert.Equal(t, fixedNow.Add(simulator.ResolutionValidity), res.Resolution.ValidUntil)
	assert.True(t, hasLine(res.Logs, "✓", "REG-ABC"))
	assert.Equal(t, 2*time.Second, sl.last())
}

func TestRequestResolution_RangoInvalido(t *testing.T) {
	sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})

	for name, req := range map[string]simulator.ResolutionRequest{
		"sin prefijo":   {RangeFrom: 1, RangeTo: 100},
		"desde = hasta": {Prefix: "FE", RangeFrom: 100, RangeTo: 100},
		"desde > hasta": {Prefix: "FE", RangeFrom: 200, RangeTo: 100},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := sim.RequestResolution(context.Background(), company(), req)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Nil(t, res.Resolution)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, simulator.CodeMissingData, res.Errors[0].Code)
		})
	}
}

func TestRunTests(t *testing.T) {
	sl := &recordingSleeper{}
	sim := newHabilitacion(0, fixedRandom{}, sl)
	c := company()
	c.AuthorizationNumber = "1876400000042"

	res, err := sim.RunTests(context.Background(), c, simulator.TestRequest{CertificateID: "cert-1", TestInvoiceXML: sampleInvoice})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotNil(t, res.TestResults)
	assert.Equal(t, simulator.TestStatusApproved, res.TestResults.Status)
	assert.Equal(t, "cert-1", res.TestResults.CertificateID)
	assert.NotEmpty(t, res.TestResults.TestID)
	assert.True(t, hasLine(res.Logs, "✓", "Estructura UBL 2.1 validada"))
	assert.Len(t, sl.waits, 7)
	assert.Equal(t, 3*time.Second, sl.last())
}

func TestRunTests_Fallido(t *testing.T) {
	c := company()
	c.AuthorizationNumber = "1876400000042"

	t.Run("sin xml de prueba", func(t *testing.T) {
		sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})
		res, err := sim.RunTests(context.Background(), c, simulator.TestRequest{CertificateID: "cert-1"})
		require.NoError(t, err)
		assert.False(t, res.Success)
		require.NotNil(t, res.TestResults)
		assert.Equal(t, simulator.TestStatusFailed, res.TestResults.Status)
	})
	t.Run("sin resolución", func(t *testing.T) {
		sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})
		res, err := sim.RunTests(context.Background(), company(), simulator.TestRequest{CertificateID: "cert-1", TestInvoiceXML: sampleInvoice})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.True(t, hasLine(res.Logs, "✗", "no tiene resolución"))
	})
	t.Run("rechazo aleatorio", func(t *testing.T) {
		sim := newHabilitacion(1, fixedRandom{i: 1}, &recordingSleeper{})
		res, err := sim.RunTests(context.Background(), c, simulator.TestRequest{CertificateID: "cert-1", TestInvoiceXML: sampleInvoice})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, simulator.TestStatusFailed, res.TestResults.Status)
		require.Len(t, res.Errors, 2)
		for _, e := range res.Errors {
			assert.True(t, strings.HasPrefix(e.Code, "TEST-"))
		}
	})
}

func TestHabilitacion_ContextoCancelado(t *testing.T) {
	sim := simulator.NewHabilitacionSimulator(simulator.Config{StepDelayMin: time.Minute, StepDelayMax: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sim.RegisterCompany(ctx, company())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestRegisterCompany_RegimenFueraDeCatalogoAdvierte(t *testing.T) {
	sim := newHabilitacion(0, fixedRandom{}, &recordingSleeper{})
	c := company()
	c.TaxRegime = "48"

	res, err := sim.RegisterCompany(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, res.Success, "la advertencia no detiene el registro")
	assert.True(t, hasLine(res.Logs, "⚠", "no figura en la tabla"))
}
