package billing

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"fabric-backend/internal/models"
	"fabric-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// Business is the identity block printed at the top of every invoice
type Business struct {
	Name     string
	Address  []string
	Email    string
	Contacts []string
	GSTIN    string
	LogoPath string
}

// Document is a rendered invoice ready to be stored
type Document struct {
	FileName string
	Invoice  models.Invoice
	Content  []byte
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName builds the bill name <party>_<jobId>_<DD-MM-YYYY>.pdf
func FileName(partyName, jobID string, at time.Time) string {
	party := whitespace.ReplaceAllString(strings.TrimSpace(partyName), "_")
	party = strings.NewReplacer("/", "_", `\`, "_").Replace(party)
	return fmt.Sprintf("%s_%s_%s.pdf", party, jobID, timeutil.BillDate(at))
}

// accent colour used for labels and the page border (#80602f)
const accentR, accentG, accentB = 128, 96, 47

// Render lays out the one-page invoice for a job. It has no side effects.
func Render(job *models.Job, biz Business, at time.Time) (*Document, error) {
	inv := Compute(job, at)
	dateStr := timeutil.BillDate(at)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 10, 14)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	// Outer border
	pdf.SetDrawColor(accentR, accentG, accentB)
	pdf.SetLineWidth(0.5)
	pdf.Rect(9, 7, 192, 283, "D")

	y := 12.0
	if biz.LogoPath != "" {
		if _, err := os.Stat(biz.LogoPath); err == nil {
			pdf.ImageOptions(biz.LogoPath, 87.5, y, 35, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			y += 38
		}
	}

	// Business identity
	pdf.SetXY(14, y)
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(182, 10, biz.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for i, line := range biz.Address {
		label := ""
		if i == 0 {
			label = "ADDRESS : "
		}
		pdf.CellFormat(25, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(157, 6, line, "", 1, "L", false, 0, "")
	}
	if biz.Email != "" {
		pdf.CellFormat(182, 6, "EMAIL : "+biz.Email, "", 1, "L", false, 0, "")
	}
	for _, c := range biz.Contacts {
		pdf.CellFormat(182, 6, "CONTACT : "+c, "", 1, "L", false, 0, "")
	}
	if biz.GSTIN != "" {
		pdf.CellFormat(182, 6, "GSTIN : "+biz.GSTIN, "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Invoice number and date
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(32, 7, "INVOICE NO.:", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(70, 7, inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(40, 7, "Invoice Date:", "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(40, 7, dateStr, "", 1, "R", false, 0, "")
	pdf.Ln(10)

	// Bill to
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(22, 7, "BILL TO:", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(160, 7, inv.PartyName, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Line item table
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(86, 8, "DESCRIPTION", "B", 0, "L", false, 0, "")
	pdf.CellFormat(28, 8, "QTY", "B", 0, "R", false, 0, "")
	pdf.CellFormat(34, 8, "UNIT PRICE", "B", 0, "R", false, 0, "")
	pdf.CellFormat(34, 8, "TOTAL", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(86, 8, inv.FabricType, "B", 0, "L", false, 0, "")
	pdf.CellFormat(28, 8, formatQuantity(inv.Quantity), "B", 0, "R", false, 0, "")
	pdf.CellFormat(34, 8, fmt.Sprintf("%.2f", inv.Rate), "B", 0, "R", false, 0, "")
	pdf.CellFormat(34, 8, fmt.Sprintf("%.2f", inv.Amount), "B", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Tax summary
	summary := []struct {
		label string
		value float64
	}{
		{"SUBTOTAL", inv.Amount},
		{"CGST @ 2.5%", inv.CGST},
		{"SGST @ 2.5%", inv.SGST},
	}
	for _, row := range summary {
		pdf.CellFormat(114, 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(34, 7, row.label+" :", "", 0, "L", false, 0, "")
		pdf.CellFormat(34, 7, fmt.Sprintf("%.2f", row.value), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(accentR, accentG, accentB)
	pdf.CellFormat(114, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(34, 8, "GRAND TOTAL :", "T", 0, "L", false, 0, "")
	pdf.CellFormat(34, 8, fmt.Sprintf("%.2f", inv.GrandTotal), "T", 1, "R", false, 0, "")

	// Seal and signature
	pdf.Ln(30)
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(114, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(68, 7, "Seal & Signature", "B", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", job.JobID, err)
	}

	return &Document{
		FileName: FileName(job.PartyName, job.JobID, at),
		Invoice:  inv,
		Content:  buf.Bytes(),
	}, nil
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%.2f", q)
}
