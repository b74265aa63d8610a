package simulator

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/dian-simulador/internal/domain/entity"
	"github.com/jhoicas/dian-simulador/pkg/dian"
)

// SimulatedCAIssuer emisor fijo de todos los certificados simulados.
const SimulatedCAIssuer = "CN=Autoridad Certificadora Simulada DIAN, O=Simulador Facturación Electrónica, C=CO"

const rsaKeyBits = 2048

// KeyPair llaves RSA en PEM: pública SPKI ("PUBLIC KEY"), privada PKCS#8 ("PRIVATE KEY").
type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// CertificateSimulator emite certificados sintéticos y firma/verifica XML con sus llaves.
type CertificateSimulator struct {
	signer dian.XMLSigner
	now    Clock
}

// NewCertificateSimulator construye el simulador. signer nil usa RawSigner.
func NewCertificateSimulator(signer dian.XMLSigner, now Clock) *CertificateSimulator {
	if signer == nil {
		signer = RawSigner()
	}
	if now == nil {
		now = Config{}.withDefaults().Now
	}
	return &CertificateSimulator{signer: signer, now: now}
}

// GenerateKeyPair genera un par RSA-2048.
func (s *CertificateSimulator) GenerateKeyPair() (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("simulator: generar llave RSA: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("simulator: codificar llave pública: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return KeyPair{}, fmt.Errorf("simulator: codificar llave privada: %w", err)
	}
	return KeyPair{
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})),
		PrivateKey: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
	}, nil
}

// GenerateCertificate arma el registro del certificado: vigencia de un año, llaves nuevas,
// serial único, emisor simulado, activo y predeterminado. No persiste nada.
func (s *CertificateSimulator) GenerateCertificate(companyName, nit string) (*entity.Certificate, error) {
	keys, err := s.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &entity.Certificate{
		Name:         fmt.Sprintf("Certificado %s - NIT %s", companyName, nit),
		Subject:      subjectFor(companyName, nit),
		PublicKey:    keys.PublicKey,
		PrivateKey:   keys.PrivateKey,
		IssueDate:    now,
		ExpiryDate:   now.AddDate(1, 0, 0),
		SerialNumber: generateSerialNumber(),
		Issuer:       SimulatedCAIssuer,
		Status:       entity.CertificateStatusActive,
		IsDefault:    true,
	}, nil
}

// SignXML firma el XML y agrega <fe:Signature> antes de </fe:Invoice>.
// Un XML que ya trae <fe:Signature> se rechaza con ErrAlreadySigned.
func (s *CertificateSimulator) SignXML(xmlContent, privateKeyPEM string) (string, error) {
	return s.signer.Sign(xmlContent, privateKeyPEM)
}

// VerifySignature verifica la firma contra la llave pública. Nunca devuelve error.
func (s *CertificateSimulator) VerifySignature(signedXML, publicKeyPEM string) bool {
	return s.signer.Verify(signedXML, publicKeyPEM)
}

func generateSerialNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// subjectFor nombre distinguido en ASCII (sin tildes) para el sujeto del certificado.
func subjectFor(companyName, nit string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), companyName)
	if err != nil {
		folded = companyName
	}
	folded = strings.Join(strings.Fields(folded), " ")
	return fmt.Sprintf("CN=%s, O=%s, serialNumber=%s, C=CO", strings.ToUpper(folded), folded, nit)
}
