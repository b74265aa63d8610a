package dto

// ValidateXMLRequest body de POST /api/dian-simulator/validate-xml.
// Sin certificateId se usa el certificado predeterminado de companyId.
type ValidateXMLRequest struct {
	XMLContent    string `json:"xmlContent"`
	CertificateID string `json:"certificateId"`
	CompanyID     string `json:"companyId"`
}

// SendInvoiceRequest body de POST /api/dian-simulator/send-invoice.
type SendInvoiceRequest struct {
	InvoiceID string `json:"invoiceId"`
}

// ProcessAccepted respuesta 202 de los procesos en segundo plano.
type ProcessAccepted struct {
	TrackID string `json:"trackId"`
	Status  string `json:"status"`
}

// ProcessLogs respuesta de GET /api/dian-simulator/logs/:trackId.
type ProcessLogs struct {
	TrackID string   `json:"trackId"`
	Status  string   `json:"status"`
	Logs    []string `json:"logs"`
}
