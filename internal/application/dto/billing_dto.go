package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices. La empresa sale del token.
// Si GrandTotal va en cero se calcula como NetTotal + TaxTotal.
type CreateInvoiceRequest struct {
	Prefix       string          `json:"prefix"`
	Number       string          `json:"number"`
	IssueDate    *time.Time      `json:"issueDate,omitempty"`
	CustomerName string          `json:"customerName"`
	CustomerNIT  string          `json:"customerNit"`
	NetTotal     decimal.Decimal `json:"netTotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

// InvoiceResponse factura para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"companyId"`
	Prefix         string          `json:"prefix"`
	Number         string          `json:"number"`
	IssueDate      time.Time       `json:"issueDate"`
	CustomerName   string          `json:"customerName"`
	CustomerNIT    string          `json:"customerNit"`
	NetTotal       decimal.Decimal `json:"netTotal"`
	TaxTotal       decimal.Decimal `json:"taxTotal"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Status         string          `json:"status"`
	CUFE           string          `json:"cufe,omitempty"`
	TrackID        string          `json:"trackId,omitempty"`
	DIANResponse   string          `json:"dianResponse,omitempty"`
	SentToDIANAt   *time.Time      `json:"sentToDianAt,omitempty"`
	DIANResponseAt *time.Time      `json:"dianResponseAt,omitempty"`
}
