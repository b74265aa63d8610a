package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/dian-simulador/internal/domain"
	"github.com/shopspring/decimal"
)

// InvoiceStatus estado legal del documento frente a la DIAN.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"     // Creada, no enviada
	InvoiceStatusPending   InvoiceStatus = "PENDING"   // Enviada, esperando veredicto
	InvoiceStatusApproved  InvoiceStatus = "APPROVED"  // Aceptada, con CUFE
	InvoiceStatusRejected  InvoiceStatus = "REJECTED"  // Rechazada, se puede reenviar
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED" // Anulada
)

// Invoice representa la cabecera de una factura electrónica.
type Invoice struct {
	ID             string
	CompanyID      string
	Prefix         string
	Number         string
	IssueDate      time.Time
	CustomerName   string
	CustomerNIT    string
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	Status         InvoiceStatus
	CUFE           string // Solo en APPROVED
	DIANResponse   string // Respuesta del simulador (JSON)
	TrackID        string
	XMLSigned      string
	SentToDIANAt   *time.Time
	DIANResponseAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullNumber prefijo + número, como aparece en el XML.
func (inv *Invoice) FullNumber() string {
	return inv.Prefix + inv.Number
}

// CanSubmit solo DRAFT o REJECTED pueden (re)enviarse.
func (inv *Invoice) CanSubmit() bool {
	return inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusRejected
}

// BeginSubmission DRAFT|REJECTED → PENDING.
func (inv *Invoice) BeginSubmission(now time.Time) error {
	if !inv.CanSubmit() {
		return fmt.Errorf("%w: no se puede enviar una factura con estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	inv.Status = InvoiceStatusPending
	inv.CUFE = ""
	inv.SentToDIANAt = &now
	inv.UpdatedAt = now
	return nil
}

// Approve PENDING → APPROVED. El CUFE es obligatorio.
func (inv *Invoice) Approve(cufe, response, trackID string, now time.Time) error {
	if inv.Status != InvoiceStatusPending {
		return fmt.Errorf("%w: no se puede aprobar una factura con estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	if cufe == "" {
		return fmt.Errorf("%w: CUFE vacío en una aprobación", domain.ErrInvalidInput)
	}
	inv.Status = InvoiceStatusApproved
	inv.CUFE = cufe
	inv.DIANResponse = response
	inv.TrackID = trackID
	inv.DIANResponseAt = &now
	inv.UpdatedAt = now
	return nil
}

// Reject PENDING → REJECTED. El CUFE queda vacío.
func (inv *Invoice) Reject(response, trackID string, now time.Time) error {
	if inv.Status != InvoiceStatusPending {
		return fmt.Errorf("%w: no se puede rechazar una factura con estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	inv.Status = InvoiceStatusRejected
	inv.CUFE = ""
	inv.DIANResponse = response
	inv.TrackID = trackID
	inv.DIANResponseAt = &now
	inv.UpdatedAt = now
	return nil
}

// Cancel DRAFT|REJECTED → CANCELLED.
func (inv *Invoice) Cancel(now time.Time) error {
	if inv.Status != InvoiceStatusDraft && inv.Status != InvoiceStatusRejected {
		return fmt.Errorf("%w: no se puede anular una factura con estado %s", domain.ErrInvalidTransition, inv.Status)
	}
	inv.Status = InvoiceStatusCancelled
	inv.UpdatedAt = now
	return nil
}
