package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"path"
	"strings"

	"fabric-backend/internal/billing"
	"fabric-backend/internal/models"
	"fabric-backend/internal/timeutil"
)

// InvoiceService renders invoices and keeps them in the bill store
type InvoiceService struct {
	Bills         BillStore
	JobRepo       JobStore
	Business      billing.Business
	PublicBaseURL string
}

var _ BillGenerator = (*InvoiceService)(nil)

func NewInvoiceService(bills BillStore, jobRepo JobStore, biz billing.Business, publicBaseURL string) *InvoiceService {
	return &InvoiceService{
		Bills:         bills,
		JobRepo:       jobRepo,
		Business:      biz,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Generate renders the invoice for job dated today and stores it.
// Regenerating on the same day overwrites the earlier file.
func (s *InvoiceService) Generate(ctx context.Context, job *models.Job) (*models.BillHandle, error) {
	doc, err := billing.Render(job, s.Business, timeutil.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Bills.Save(ctx, doc.FileName, doc.Content); err != nil {
		return nil, storageError("save bill", err)
	}

	log.Printf("[Bill] Generated %s (grand total %.2f)", doc.FileName, doc.Invoice.GrandTotal)
	return &models.BillHandle{FileName: doc.FileName, URL: s.BillURL(doc.FileName)}, nil
}

// BillURL is the public address a messaging provider fetches the bill from
func (s *InvoiceService) BillURL(fileName string) string {
	return s.PublicBaseURL + "/api/fabric/bill/" + url.PathEscape(fileName)
}

// GetBill returns the stored PDF. Names must be plain file names.
func (s *InvoiceService) GetBill(ctx context.Context, fileName string) ([]byte, error) {
	if !validBillName(fileName) {
		return nil, fmt.Errorf("%w: invalid bill name", ErrValidation)
	}
	content, err := s.Bills.Open(ctx, fileName)
	if err != nil {
		return nil, billError(fileName, err)
	}
	return content, nil
}

// GetBillByJob returns the name and content of the first stored bill for a job
func (s *InvoiceService) GetBillByJob(ctx context.Context, jobID string) (string, []byte, error) {
	name, err := s.findBill(ctx, jobID)
	if err != nil {
		return "", nil, err
	}
	content, err := s.Bills.Open(ctx, name)
	if err != nil {
		return "", nil, billError(name, err)
	}
	return name, content, nil
}

// BillLink resolves the stored bill of a job to its name and public URL
func (s *InvoiceService) BillLink(ctx context.Context, jobID string) (*models.BillHandle, error) {
	name, err := s.findBill(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &models.BillHandle{FileName: name, URL: s.BillURL(name)}, nil
}

func (s *InvoiceService) findBill(ctx context.Context, jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || !validBillName(jobID) {
		return "", fmt.Errorf("%w: jobId is required", ErrValidation)
	}
	name, err := s.Bills.FindByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: bill for job %s", ErrNotFound, jobID)
		}
		return "", storageError("find bill", err)
	}
	return name, nil
}

func billError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: bill %s", ErrNotFound, name)
	}
	return storageError("open bill", err)
}

func validBillName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return path.Base(name) == name
}
