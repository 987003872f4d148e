package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
	"fabric-backend/internal/whatsapp"
)

// BillLocator finds the stored bill of a job
type BillLocator interface {
	BillLink(ctx context.Context, jobID string) (*models.BillHandle, error)
}

// NotificationService sends bills to parties over WhatsApp
type NotificationService struct {
	Sender  MessageSender
	JobRepo JobStore
	Bills   BillLocator
}

var _ BillSender = (*NotificationService)(nil)

func NewNotificationService(sender MessageSender, jobRepo JobStore, bills BillLocator) *NotificationService {
	return &NotificationService{Sender: sender, JobRepo: jobRepo, Bills: bills}
}

// BillMessage is the text sent with every bill
func BillMessage(partyName, jobID string) string {
	return fmt.Sprintf("Hello %s, here is your bill for job %s.", partyName, jobID)
}

// SendBill delivers the bill document to the party's WhatsApp number and returns the provider message id
func (s *NotificationService) SendBill(ctx context.Context, req *models.SendBillRequest) (string, error) {
	req.Number = strings.TrimSpace(req.Number)
	req.FileURL = strings.TrimSpace(req.FileURL)
	if err := validate.Struct(req); err != nil {
		return "", validationError(err)
	}

	to, err := whatsapp.NormalizePhone(req.Number)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	id, err := s.Sender.SendMedia(ctx, to, BillMessage(req.PartyName, req.JobID), req.FileURL)
	if err != nil {
		log.Printf("[WhatsApp] %s failed to send bill for %s to %s: %v", s.Sender.GetName(), req.JobID, to, err)
		return "", fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	log.Printf("[WhatsApp] Sent bill for %s to %s via %s (%s)", req.JobID, to, s.Sender.GetName(), id)
	return id, nil
}

// ResendForJob sends the stored bill of a job again, resolving the party and number from the job record
func (s *NotificationService) ResendForJob(ctx context.Context, jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	job, err := s.JobRepo.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return "", storageError("get job", err)
	}

	handle, err := s.Bills.BillLink(ctx, job.JobID)
	if err != nil {
		return "", err
	}

	return s.SendBill(ctx, &models.SendBillRequest{
		Number:    job.MobileNumber,
		FileURL:   handle.URL,
		PartyName: job.PartyName,
		JobID:     job.JobID,
	})
}
