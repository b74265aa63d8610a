package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

func testResolution(now time.Time) entity.Resolution {
	return entity.Resolution{
		Number: "1876400000001", Prefix: "SETP", RangeFrom: 1, RangeTo: 5000,
		IssuedAt: now, ValidUntil: now.AddDate(2, 0, 0),
	}
}

func activeCert(companyID string, now time.Time) *entity.Certificate {
	return &entity.Certificate{
		CompanyID: companyID, Status: entity.CertificateStatusActive,
		PrivateKey: "pem", ExpiryDate: now.AddDate(1, 0, 0),
	}
}

func TestCompany_FlujoCompleto(t *testing.T) {
	now := time.Now()
	c := &entity.Company{ID: "c1"}
	assert.Equal(t, entity.HabilitacionUnregistered, c.Habilitacion())

	require.NoError(t, c.MarkRegistered("reg-1", now))
	assert.Equal(t, entity.HabilitacionRegistered, c.Habilitacion())

	require.NoError(t, c.AssignResolution(testResolution(now), now))
	assert.Equal(t, entity.HabilitacionHasResolution, c.Habilitacion())
	assert.Equal(t, "SETP", c.AuthorizationPrefix)
	require.NotNil(t, c.AuthorizationExpiry)

	require.NoError(t, c.MarkAuthorized(activeCert("c1", now), now))
	assert.Equal(t, entity.HabilitacionHabilitado, c.Habilitacion())
	assert.True(t, c.IsAuthorized)
}

func TestCompany_ResolucionSinRegistro(t *testing.T) {
	c := &entity.Company{ID: "c1"}
	err := c.AssignResolution(testResolution(time.Now()), time.Now())
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	assert.Empty(t, c.AuthorizationNumber)
}

func TestCompany_ResolucionDuplicada(t *testing.T) {
	now := time.Now()
	c := &entity.Company{ID: "c1", IsRegistered: true, AuthorizationNumber: "18764000"}
	assert.ErrorIs(t, c.AssignResolution(testResolution(now), now), domain.ErrInvalidTransition)
}

func TestCompany_ResolucionRangoInvalido(t *testing.T) {
	now := time.Now()
	c := &entity.Company{ID: "c1", IsRegistered: true}
	res := testResolution(now)
	res.RangeFrom = 10
	res.RangeTo = 10
	assert.ErrorIs(t, c.AssignResolution(res, now), domain.ErrInvalidInput)
}

func TestCompany_RegistroDoble(t *testing.T) {
	c := &entity.Company{ID: "c1", IsRegistered: true}
	assert.ErrorIs(t, c.MarkRegistered("reg-2", time.Now()), domain.ErrInvalidTransition)
}

func TestCompany_HabilitacionRequiereCertificadoValido(t *testing.T) {
	now := time.Now()
	base := func() *entity.Company {
		return &entity.Company{ID: "c1", IsRegistered: true, AuthorizationNumber: "18764000"}
	}

	assert.ErrorIs(t, base().MarkAuthorized(nil, now), domain.ErrPreconditionFailed)
	assert.ErrorIs(t, base().MarkAuthorized(activeCert("otra", now), now), domain.ErrPreconditionFailed)

	expired := activeCert("c1", now)
	expired.ExpiryDate = now.Add(-time.Hour)
	assert.ErrorIs(t, base().MarkAuthorized(expired, now), domain.ErrPreconditionFailed)

	revoked := activeCert("c1", now)
	revoked.Status = entity.CertificateStatusRevoked
	assert.ErrorIs(t, base().MarkAuthorized(revoked, now), domain.ErrPreconditionFailed)

	unregistered := &entity.Company{ID: "c1"}
	assert.ErrorIs(t, unregistered.MarkAuthorized(activeCert("c1", now), now), domain.ErrPreconditionFailed)
}

func TestCompany_YaHabilitada(t *testing.T) {
	now := time.Now()
	c := &entity.Company{ID: "c1", IsRegistered: true, AuthorizationNumber: "1", IsAuthorized: true}
	assert.ErrorIs(t, c.MarkAuthorized(activeCert("c1", now), now), domain.ErrInvalidTransition)
}
