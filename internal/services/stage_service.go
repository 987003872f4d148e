package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fabric-backend/internal/billing"
	"fabric-backend/internal/metrics"
	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
	"fabric-backend/internal/timeutil"

	"github.com/google/uuid"
)

// BillGenerator renders and stores the invoice of a delivered job
type BillGenerator interface {
	Generate(ctx context.Context, job *models.Job) (*models.BillHandle, error)
}

// BillSender delivers a stored bill to the party
type BillSender interface {
	SendBill(ctx context.Context, req *models.SendBillRequest) (string, error)
}

// StageService moves jobs through the pipeline and triggers the stage side effects
type StageService struct {
	JobRepo     JobStore
	ExpenseRepo ExpenseStore
	Rates       RateProvider
	Bills       BillGenerator
	Sender      BillSender
	Queue       SideEffectQueue
	Observer    StageObserver

	// StrictTransitions rejects moves that do not go forward in the pipeline
	StrictTransitions bool
}

func NewStageService(jobRepo JobStore, expenseRepo ExpenseStore, rates RateProvider, bills BillGenerator, sender BillSender) *StageService {
	return &StageService{
		JobRepo:     jobRepo,
		ExpenseRepo: expenseRepo,
		Rates:       rates,
		Bills:       bills,
		Sender:      sender,
	}
}

// AdvanceStage records the new stage of a job and schedules its side effects.
// The stage is committed before any side effect runs; their failures never undo it.
func (s *StageService) AdvanceStage(ctx context.Context, jobID, newStage string) (*models.Job, error) {
	jobID = strings.TrimSpace(jobID)
	stage := models.Stage(strings.ToLower(strings.TrimSpace(newStage)))
	if jobID == "" {
		return nil, fmt.Errorf("%w: jobId is required", ErrValidation)
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, newStage)
	}

	job, err := s.JobRepo.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, storageError("get job", err)
	}

	if s.StrictTransitions && stage.Index() <= job.Stage.Index() {
		return nil, fmt.Errorf("%w: cannot move job %s from %s to %s", ErrValidation, jobID, job.Stage, stage)
	}

	now := time.Now()
	job.Stage = stage
	job.UpdatedAt = now
	if stage == models.StageDelivered && job.DeliveryDate == nil {
		delivered := now
		job.DeliveryDate = &delivered
	}

	if err := s.JobRepo.UpdateStage(ctx, job); err != nil {
		return nil, storageError("update stage", err)
	}
	metrics.StageTransitions.WithLabelValues(string(stage)).Inc()
	log.Printf("[Stage] %s -> %s", job.JobID, stage)

	if s.Observer != nil {
		s.Observer.StageChanged(job)
	}

	if hasSideEffects(stage) {
		change := models.StageChange{Job: *job, Stage: stage, ChangedAt: now}
		if s.Queue == nil {
			go s.runDetached(change)
		} else if err := s.Queue.Enqueue(ctx, change); err != nil {
			log.Printf("[Stage] Failed to schedule side effects for %s (%s): %v", job.JobID, stage, err)
		}
	}

	return job, nil
}

func hasSideEffects(stage models.Stage) bool {
	switch stage {
	case models.StageCoated, models.StageWashed, models.StageDelivered:
		return true
	}
	return false
}

func (s *StageService) runDetached(change models.StageChange) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.RunSideEffects(ctx, change); err != nil {
		log.Printf("[Stage] Side effects for %s failed: %v", change.Job.JobID, err)
	}
}

// RunSideEffects performs the work attached to reaching a stage. Coated and
// washed accrue an expense; delivered renders the bill and sends it.
func (s *StageService) RunSideEffects(ctx context.Context, change models.StageChange) error {
	switch change.Stage {
	case models.StageCoated, models.StageWashed:
		return s.accrueExpense(ctx, change)
	case models.StageDelivered:
		return s.deliver(ctx, change)
	}
	return nil
}

func (s *StageService) accrueExpense(ctx context.Context, change models.StageChange) error {
	rates, err := s.Rates.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("[Stage] No rates configured, skipping %s expense for %s", change.Stage, change.Job.JobID)
			metrics.SideEffects.WithLabelValues(metrics.KindExpense, metrics.ResultSkipped).Inc()
			return nil
		}
		metrics.SideEffects.WithLabelValues(metrics.KindExpense, metrics.ResultError).Inc()
		return err
	}

	rate, _ := rates.RateFor(change.Stage)
	amount := billing.LineAmount(change.Job.Quantity, rate)
	jobID := change.Job.JobID
	expense := &models.Expense{
		ID:          uuid.NewString(),
		Type:        models.ExpenseType(change.Stage),
		Description: fmt.Sprintf("%s for %s", change.Stage, jobID),
		Amount:      amount,
		GST:         billing.ExpenseGST(amount),
		JobID:       &jobID,
		Date:        timeutil.Now(),
	}
	if err := s.ExpenseRepo.Create(ctx, expense); err != nil {
		metrics.SideEffects.WithLabelValues(metrics.KindExpense, metrics.ResultError).Inc()
		return storageError("accrue expense", err)
	}

	metrics.SideEffects.WithLabelValues(metrics.KindExpense, metrics.ResultOK).Inc()
	log.Printf("[Stage] Recorded %s expense %.2f for %s", change.Stage, amount, jobID)
	return nil
}

func (s *StageService) deliver(ctx context.Context, change models.StageChange) error {
	job := change.Job

	handle, err := s.Bills.Generate(ctx, &job)
	if err != nil {
		metrics.SideEffects.WithLabelValues(metrics.KindBill, metrics.ResultError).Inc()
		return fmt.Errorf("generate bill for %s: %w", job.JobID, err)
	}
	metrics.SideEffects.WithLabelValues(metrics.KindBill, metrics.ResultOK).Inc()

	_, err = s.Sender.SendBill(ctx, &models.SendBillRequest{
		Number:    job.MobileNumber,
		FileURL:   handle.URL,
		PartyName: job.PartyName,
		JobID:     job.JobID,
	})
	if err != nil {
		// The bill stays on disk and can be resent later
		metrics.SideEffects.WithLabelValues(metrics.KindDispatch, metrics.ResultError).Inc()
		return err
	}
	metrics.SideEffects.WithLabelValues(metrics.KindDispatch, metrics.ResultOK).Inc()
	return nil
}
