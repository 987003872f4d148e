package billing

import (
	"time"

	"fabric-backend/internal/models"

	"github.com/shopspring/decimal"
)

// GST multipliers. Expenses carry 5% GST; invoices split the same 5% into CGST and SGST.
var (
	expenseGSTRate = decimal.RequireFromString("0.05")
	cgstRate       = decimal.RequireFromString("0.025")
	sgstRate       = decimal.RequireFromString("0.025")
)

// LineAmount returns quantity × rate without binary rounding drift
func LineAmount(quantity, rate float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
}

// ExpenseGST returns the GST recorded against an expense amount
func ExpenseGST(amount float64) float64 {
	return decimal.NewFromFloat(amount).Mul(expenseGSTRate).InexactFloat64()
}

// Compute derives the invoice figures for a job
func Compute(job *models.Job, at time.Time) models.Invoice {
	amount := decimal.NewFromFloat(job.Quantity).Mul(decimal.NewFromFloat(job.Rate))
	cgst := amount.Mul(cgstRate)
	sgst := amount.Mul(sgstRate)

	return models.Invoice{
		InvoiceNumber: job.JobID,
		InvoiceDate:   at,
		PartyName:     job.PartyName,
		FabricType:    job.FabricType,
		Quantity:      job.Quantity,
		Rate:          job.Rate,
		Amount:        amount.InexactFloat64(),
		CGST:          cgst.InexactFloat64(),
		SGST:          sgst.InexactFloat64(),
		GrandTotal:    amount.Add(cgst).Add(sgst).InexactFloat64(),
	}
}
