package billing

import (
	"context"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	infradian "github.com/jhoicas/dian-simulador/internal/infrastructure/dian"
	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

// DianGateway recepción de documentos por la DIAN (simulada).
type DianGateway interface {
	SendInvoiceWithProgress(ctx context.Context, xmlContent string, cert *entity.Certificate, progress simulator.ProgressFunc) (*simulator.SubmissionResult, error)
}

// XMLSigner firma el XML con la llave privada del certificado.
type XMLSigner interface {
	SignXML(xmlContent, privateKeyPEM string) (string, error)
}

// InvoiceXMLBuilder genera el XML sin firma de la factura.
type InvoiceXMLBuilder interface {
	Build(ctx *infradian.BuildContext) (string, error)
}

var (
	_ DianGateway       = (*simulator.DianSimulator)(nil)
	_ XMLSigner         = (*simulator.CertificateSimulator)(nil)
	_ InvoiceXMLBuilder = (*infradian.XMLBuilderService)(nil)
)
