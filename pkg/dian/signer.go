// Package dian: interfaz para la firma simulada de documentos XML.

package dian

// XMLSigner firma un XML de factura con una llave privada PEM e inyecta la firma en el documento.
// Verify nunca falla con error: cualquier problema de parseo o criptográfico es "firma inválida".
type XMLSigner interface {
	Sign(xmlContent, privateKeyPEM string) (string, error)
	Verify(signedXML, publicKeyPEM string) bool
}
