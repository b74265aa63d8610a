package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/dian-simulador/internal/domain"
)

// HabilitacionState etapa de la empresa en el proceso de habilitación como facturador electrónico.
// No se persiste: se deriva de los campos que cada fase va llenando.
type HabilitacionState string

const (
	HabilitacionUnregistered  HabilitacionState = "UNREGISTERED"
	HabilitacionRegistered    HabilitacionState = "REGISTERED"
	HabilitacionHasResolution HabilitacionState = "HAS_RESOLUTION"
	HabilitacionHabilitado    HabilitacionState = "HABILITADO"
)

// Company representa la persona jurídica que busca habilitarse como facturador electrónico.
type Company struct {
	ID               string
	Name             string
	NIT              string // Solo la base, sin dígito de verificación
	DV               string // Dígito de verificación
	EconomicActivity string // Código CIIU
	TaxRegime        string // Responsabilidad fiscal (ver pkg/dian catálogos)
	Address          string
	Email            string
	Phone            string

	IsRegistered     bool
	RegistrationID   string
	RegistrationDate *time.Time

	AuthorizationNumber    string
	AuthorizationDate      *time.Time
	AuthorizationExpiry    *time.Time
	AuthorizationPrefix    string
	AuthorizationRangeFrom int64
	AuthorizationRangeTo   int64

	IsAuthorized bool
	AuthorizedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Habilitacion devuelve la etapa actual derivada de los campos de la empresa.
func (c *Company) Habilitacion() HabilitacionState {
	switch {
	case c.IsAuthorized:
		return HabilitacionHabilitado
	case c.AuthorizationNumber != "":
		return HabilitacionHasResolution
	case c.IsRegistered:
		return HabilitacionRegistered
	default:
		return HabilitacionUnregistered
	}
}

// Resolution datos de la resolución de numeración otorgada.
type Resolution struct {
	Number     string
	Prefix     string
	RangeFrom  int64
	RangeTo    int64
	IssuedAt   time.Time
	ValidUntil time.Time
}

// MarkRegistered UNREGISTERED → REGISTERED.
func (c *Company) MarkRegistered(registrationID string, at time.Time) error {
	if st := c.Habilitacion(); st != HabilitacionUnregistered {
		return fmt.Errorf("%w: la empresa ya está registrada (estado %s)", domain.ErrInvalidTransition, st)
	}
	c.IsRegistered = true
	c.RegistrationID = registrationID
	c.RegistrationDate = &at
	c.UpdatedAt = at
	return nil
}

// AssignResolution REGISTERED → HAS_RESOLUTION.
func (c *Company) AssignResolution(res Resolution, at time.Time) error {
	switch st := c.Habilitacion(); st {
	case HabilitacionRegistered:
	case HabilitacionUnregistered:
		return fmt.Errorf("%w: la empresa debe registrarse como facturador electrónico antes de solicitar resolución", domain.ErrPreconditionFailed)
	default:
		return fmt.Errorf("%w: la empresa ya tiene una resolución de facturación (%s)", domain.ErrInvalidTransition, c.AuthorizationNumber)
	}
	if res.Number == "" || res.Prefix == "" || res.RangeFrom >= res.RangeTo {
		return fmt.Errorf("%w: resolución incompleta", domain.ErrInvalidInput)
	}
	issued, until := res.IssuedAt, res.ValidUntil
	c.AuthorizationNumber = res.Number
	c.AuthorizationPrefix = res.Prefix
	c.AuthorizationRangeFrom = res.RangeFrom
	c.AuthorizationRangeTo = res.RangeTo
	c.AuthorizationDate = &issued
	c.AuthorizationExpiry = &until
	c.UpdatedAt = at
	return nil
}

// MarkAuthorized HAS_RESOLUTION → HABILITADO. Requiere un certificado utilizable de la empresa.
func (c *Company) MarkAuthorized(cert *Certificate, at time.Time) error {
	switch st := c.Habilitacion(); st {
	case HabilitacionHasResolution:
	case HabilitacionHabilitado:
		return fmt.Errorf("%w: la empresa ya está habilitada", domain.ErrInvalidTransition)
	default:
		return fmt.Errorf("%w: la empresa debe tener una resolución de facturación antes del test de habilitación", domain.ErrPreconditionFailed)
	}
	if cert == nil || cert.CompanyID != c.ID || !cert.Usable(at) {
		return fmt.Errorf("%w: se requiere un certificado digital activo de la empresa", domain.ErrPreconditionFailed)
	}
	c.IsAuthorized = true
	c.AuthorizedAt = &at
	c.UpdatedAt = at
	return nil
}
