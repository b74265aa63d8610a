package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
)

const testCUFE = "274ECA29773D8CA263283CF4D3F2FD8C"

func TestInvoice_DraftAprobada(t *testing.T) {
	now := time.Now()
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}

	require.NoError(t, inv.BeginSubmission(now))
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	require.NotNil(t, inv.SentToDIANAt)

	require.NoError(t, inv.Approve(testCUFE, `{"success":true}`, "track-1", now))
	assert.Equal(t, entity.InvoiceStatusApproved, inv.Status)
	assert.Equal(t, testCUFE, inv.CUFE)
	assert.NotNil(t, inv.DIANResponseAt)
}

func TestInvoice_RechazadaSePuedeReenviar(t *testing.T) {
	now := time.Now()
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}
	require.NoError(t, inv.BeginSubmission(now))
	require.NoError(t, inv.Reject(`{"success":false}`, "track-1", now))
	assert.Equal(t, entity.InvoiceStatusRejected, inv.Status)
	assert.Empty(t, inv.CUFE)

	assert.True(t, inv.CanSubmit())
	require.NoError(t, inv.BeginSubmission(now))
	require.NoError(t, inv.Approve(testCUFE, "{}", "track-2", now))
	assert.Equal(t, "track-2", inv.TrackID)
}

func TestInvoice_EstadosTerminalesNoSeReenvian(t *testing.T) {
	for _, st := range []entity.InvoiceStatus{entity.InvoiceStatusApproved, entity.InvoiceStatusCancelled, entity.InvoiceStatusPending} {
		inv := &entity.Invoice{Status: st}
		err := inv.BeginSubmission(time.Now())
		require.Error(t, err, "estado %s", st)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "no se puede enviar una factura con estado "+string(st))
		assert.Equal(t, st, inv.Status, "el estado no cambia ante una transición ilegal")
	}
}

func TestInvoice_ApproveRequierePendingYCUFE(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusDraft}
	assert.ErrorIs(t, inv.Approve(testCUFE, "{}", "t", time.Now()), domain.ErrInvalidTransition)

	inv.Status = entity.InvoiceStatusPending
	assert.ErrorIs(t, inv.Approve("", "{}", "t", time.Now()), domain.ErrInvalidInput)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
}

func TestInvoice_Cancel(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusRejected}
	require.NoError(t, inv.Cancel(time.Now()))
	assert.Equal(t, entity.InvoiceStatusCancelled, inv.Status)
	assert.ErrorIs(t, inv.Cancel(time.Now()), domain.ErrInvalidTransition)

	approved := &entity.Invoice{Status: entity.InvoiceStatusApproved}
	assert.ErrorIs(t, approved.Cancel(time.Now()), domain.ErrInvalidTransition)
}
