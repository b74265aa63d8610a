package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/internal/domain/repository"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/sqlite"
)

var dbSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(fmt.Sprintf("file:repo-%d?mode=memory&cache=shared", dbSeq.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return db
}

func newCompany(id, nit string) *entity.Company {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Company{ID: id, Name: "Empresa " + id, NIT: nit, DV: "8", CreatedAt: now, UpdatedAt: now}
}

func TestCompanyRepo(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewCompanyRepository(openTestDB(t))

	c := newCompany("c1", "900123456")
	require.NoError(t, repo.Create(ctx, c))

	err := repo.Create(ctx, newCompany("c2", "900123456"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByNIT(ctx, "900123456")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)

	missing, err := repo.GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, missing)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, got.MarkRegistered("REG-1", at))
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.IsRegistered)
	assert.Equal(t, "REG-1", got.RegistrationID)
	assert.Equal(t, entity.HabilitacionRegistered, got.Habilitacion())

	err = repo.Update(ctx, newCompany("nada", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCertificateRepo_Default(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, sqlite.NewCompanyRepository(db).Create(ctx, newCompany("c1", "900123456")))
	repo := sqlite.NewCertificateRepository(db)

	now := time.Now().UTC()
	for i, id := range []string{"a", "b"} {
		require.NoError(t, repo.Create(ctx, &entity.Certificate{
			ID: id, CompanyID: "c1", Name: id, PublicKey: "pub", PrivateKey: "priv",
			IssueDate: now, ExpiryDate: now.AddDate(1, 0, 0), SerialNumber: "SERIAL-" + id,
			Status: entity.CertificateStatusActive, IsDefault: true,
			CreatedAt: now.Add(time.Duration(i) * time.Second), UpdatedAt: now,
		}))
	}
	require.NoError(t, repo.ClearDefault(ctx, "c1", "b"))

	def, err := repo.GetDefaultByCompany(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "b", def.ID)

	a, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.False(t, a.IsDefault)

	list, err := repo.ListByCompany(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	none, err := repo.GetDefaultByCompany(ctx, "otra")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestInvoiceRepo_ActualizaEnvio(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, sqlite.NewCompanyRepository(db).Create(ctx, newCompany("c1", "900123456")))
	repo := sqlite.NewInvoiceRepository(db)

	now := time.Now().UTC()
	inv := &entity.Invoice{
		CompanyID: "c1", Prefix: "SETP", Number: "1", IssueDate: now,
		CustomerName: "Cliente", CustomerNIT: "8009876544",
		NetTotal: decimal.RequireFromString("100000.50"), TaxTotal: decimal.RequireFromString("19000.10"),
		GrandTotal: decimal.RequireFromString("119000.60"),
		Status:     entity.InvoiceStatusDraft, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, inv))
	require.NotEmpty(t, inv.ID)

	dup := *inv
	dup.ID = ""
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicate)

	require.NoError(t, inv.BeginSubmission(now))
	require.NoError(t, inv.Reject(`{"success":false}`, "track-1", now))
	require.NoError(t, repo.Update(ctx, inv))

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusRejected, got.Status)
	assert.Empty(t, got.CUFE)
	assert.Equal(t, "track-1", got.TrackID)
	assert.True(t, got.GrandTotal.Equal(decimal.RequireFromString("119000.60")))
	assert.NotNil(t, got.DIANResponseAt)

	list, err := repo.ListByCompany(ctx, "c1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInvoiceRepo_UpdateCondicionadoAlEstado(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, sqlite.NewCompanyRepository(db).Create(ctx, newCompany("c1", "900123456")))
	repo := sqlite.NewInvoiceRepository(db)

	now := time.Now().UTC()
	inv := &entity.Invoice{
		CompanyID: "c1", Prefix: "SETP", Number: "2", IssueDate: now,
		CustomerName: "Cliente", CustomerNIT: "8009876544",
		NetTotal: decimal.NewFromInt(100), TaxTotal: decimal.NewFromInt(19), GrandTotal: decimal.NewFromInt(119),
		Status: entity.InvoiceStatusDraft, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, inv))

	// Dos copias leídas en DRAFT: la primera en escribir PENDING gana.
	first, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)

	require.NoError(t, first.BeginSubmission(now))
	require.NoError(t, repo.Update(ctx, first, entity.InvoiceStatusDraft, entity.InvoiceStatusRejected))

	require.NoError(t, second.Cancel(now))
	err = repo.Update(ctx, second, entity.InvoiceStatusDraft, entity.InvoiceStatusRejected)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, first.Approve("ABCDEF", `{"success":true}`, "track-1", now))
	require.NoError(t, repo.Update(ctx, first, entity.InvoiceStatusPending))

	// Un veredicto tardío ya no pisa la aprobación.
	late := *first
	late.Status = entity.InvoiceStatusRejected
	late.CUFE = ""
	assert.ErrorIs(t, repo.Update(ctx, &late, entity.InvoiceStatusPending), domain.ErrConflict)

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusApproved, got.Status)
	assert.Equal(t, "ABCDEF", got.CUFE)

	missing := *first
	missing.ID = "no-existe"
	assert.ErrorIs(t, repo.Update(ctx, &missing), domain.ErrNotFound)
}

func TestTxRunner_Rollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	runner := sqlite.NewTxRunner(db)

	boom := errors.New("boom")
	err := runner.Run(ctx, func(companies repository.CompanyRepository, _ repository.CertificateRepository) error {
		require.NoError(t, companies.Create(ctx, newCompany("c1", "900123456")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := sqlite.NewCompanyRepository(db).GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got, "la transacción se revierte")
}
