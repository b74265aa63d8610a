package dto

// RegistroRequest datos opcionales del registro; si van vacíos se usan los de la empresa.
type RegistroRequest struct {
	EconomicActivity string `json:"economicActivity"`
	TaxRegime        string `json:"taxRegime"`
}

// ResolucionRequest solicitud de resolución de numeración.
type ResolucionRequest struct {
	Prefix    string `json:"prefix"`
	RangeFrom int64  `json:"rangeFrom"`
	RangeTo   int64  `json:"rangeTo"`
}

// HabilitacionTestRequest set de pruebas. CertificateID vacío usa el certificado predeterminado;
// TestInvoiceXML vacío genera un documento de prueba firmado.
type HabilitacionTestRequest struct {
	CertificateID  string `json:"certificateId"`
	TestInvoiceXML string `json:"testInvoiceXml"`
}

// EstadoResponse estado de habilitación de la empresa.
type EstadoResponse struct {
	CompanyID          string               `json:"companyId"`
	State              string               `json:"state"`
	NextStep           string               `json:"nextStep,omitempty"`
	Company            CompanyResponse      `json:"company"`
	DefaultCertificate *CertificateResponse `json:"defaultCertificate,omitempty"`
}
