package simulator

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/dian-simulador/pkg/dian"
	"github.com/ucarion/c14n"
)

// Elementos de la firma simulada. No es XML-DSig: la firma se inserta como texto.
const (
	invoiceClosingTag = "</fe:Invoice>"
	signatureOpenTag  = "<fe:Signature>"
	signatureCloseTag = "</fe:Signature>"
)

// ErrMissingInvoiceClosingTag el XML no tiene un </fe:Invoice> donde insertar la firma.
var ErrMissingInvoiceClosingTag = errors.New("simulator: el XML no contiene la etiqueta de cierre </fe:Invoice>")

// ErrAlreadySigned el XML ya trae un <fe:Signature>; una segunda firma no se podría verificar.
var ErrAlreadySigned = errors.New("simulator: el XML ya contiene <fe:Signature>")

var signaturePattern = regexp.MustCompile(`(?s)<fe:Signature>(.*?)</fe:Signature>`)

// envelopeSigner firma un digest SHA-256 del documento y lo inserta antes de </fe:Invoice>.
// La variante define qué bytes se resumen.
type envelopeSigner struct {
	content func(xmlContent string) []byte
}

// RawSigner firma los bytes crudos del XML.
func RawSigner() dian.XMLSigner {
	return envelopeSigner{content: func(s string) []byte { return []byte(s) }}
}

// CanonicalSigner firma la forma canónica (C14N) del XML. Si el documento no se puede
// canonicalizar se firman los bytes crudos, igual en firma y verificación.
func CanonicalSigner() dian.XMLSigner {
	return envelopeSigner{content: canonicalize}
}

func canonicalize(s string) []byte {
	dec := xml.NewDecoder(strings.NewReader(s))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return []byte(s)
	}
	return out
}

func (e envelopeSigner) Sign(xmlContent, privateKeyPEM string) (string, error) {
	if !strings.Contains(xmlContent, invoiceClosingTag) {
		return "", ErrMissingInvoiceClosingTag
	}
	if strings.Contains(xmlContent, signatureOpenTag) {
		return "", ErrAlreadySigned
	}
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(e.content(xmlContent))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("simulator: firmar XML: %w", err)
	}
	element := signatureOpenTag + base64.StdEncoding.EncodeToString(sig) + signatureCloseTag
	return strings.Replace(xmlContent, invoiceClosingTag, element+invoiceClosingTag, 1), nil
}

func (e envelopeSigner) Verify(signedXML, publicKeyPEM string) (valid bool) {
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()
	loc := signaturePattern.FindStringSubmatchIndex(signedXML)
	if loc == nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signedXML[loc[2]:loc[3]]))
	if err != nil {
		return false
	}
	pub, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return false
	}
	unsigned := signedXML[:loc[0]] + signedXML[loc[1]:]
	digest := sha256.Sum256(e.content(unsigned))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil
}

// ExtractSignature devuelve el valor base64 de <fe:Signature>, o "" si no hay firma.
func ExtractSignature(signedXML string) string {
	m := signaturePattern.FindStringSubmatch(signedXML)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func parsePrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, errors.New("simulator: llave privada PEM inválida")
	}
	if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := k.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("simulator: la llave privada debe ser RSA")
		}
		return rsaKey, nil
	}
	k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("simulator: parsear llave privada: %w", err)
	}
	return k, nil
}

func parsePublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(bytes.TrimSpace([]byte(publicKeyPEM)))
	if block == nil {
		return nil, errors.New("simulator: llave pública PEM inválida")
	}
	if k, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := k.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("simulator: la llave pública debe ser RSA")
		}
		return rsaKey, nil
	}
	k, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("simulator: parsear llave pública: %w", err)
	}
	return k, nil
}
