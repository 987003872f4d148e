package models

import "time"

// Invoice is derived from a job at generation time; only the rendered PDF is kept
type Invoice struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	PartyName     string    `json:"partyName"`
	FabricType    string    `json:"fabricType"`
	Quantity      float64   `json:"quantity"`
	Rate          float64   `json:"rate"`
	Amount        float64   `json:"amount"`
	CGST          float64   `json:"cgst"`
	SGST          float64   `json:"sgst"`
	GrandTotal    float64   `json:"grandTotal"`
}

// BillHandle points at a stored invoice PDF
type BillHandle struct {
	FileName string `json:"billName"`
	URL      string `json:"billUrl"`
}

// SendBillRequest triggers a manual WhatsApp resend
type SendBillRequest struct {
	Number    string `json:"number" validate:"required"`
	FileURL   string `json:"fileUrl" validate:"required"`
	PartyName string `json:"partyName" validate:"required"`
	JobID     string `json:"jobId" validate:"required"`
}
