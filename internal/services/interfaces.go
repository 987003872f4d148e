package services

import (
	"context"

	"fabric-backend/internal/models"
)

// JobStore persists fabric jobs
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByJobID(ctx context.Context, jobID string) (*models.Job, error)
	SearchByPartyName(ctx context.Context, pattern string) ([]*models.Job, error)
	// UpdateStage writes stage, delivery date and updated_at of an existing job
	UpdateStage(ctx context.Context, job *models.Job) error
	StageCounts(ctx context.Context) (map[models.Stage]int, error)
}

// ExpenseStore persists the expense ledger
type ExpenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	Get(ctx context.Context, id string) (*models.Expense, error)
	UpdateAmount(ctx context.Context, id string, amount, gst float64) error
	Delete(ctx context.Context, id string) error
	// List returns matching expenses, newest first
	List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error)
	// ListByJob returns expenses whose description mentions jobID or that reference it directly
	ListByJob(ctx context.Context, jobID string) ([]*models.Expense, error)
	Total(ctx context.Context) (float64, error)
	MonthlyTotals(ctx context.Context) ([]models.MonthExpense, error)
}

// RateStore persists the singleton rate configuration
type RateStore interface {
	Get(ctx context.Context) (*models.RateConfig, error)
	Upsert(ctx context.Context, coatingRate, washingRate float64) (*models.RateConfig, error)
}

// RateProvider gives read access to the current rates
type RateProvider interface {
	Current(ctx context.Context) (*models.RateConfig, error)
}

// BillStore keeps rendered invoice PDFs keyed by file name
type BillStore interface {
	Save(ctx context.Context, name string, content []byte) error
	// FindByJobID returns the first stored bill whose name contains jobID
	FindByJobID(ctx context.Context, jobID string) (string, error)
	Open(ctx context.Context, name string) ([]byte, error)
}

// MessageSender delivers a WhatsApp message with one media attachment
type MessageSender interface {
	SendMedia(ctx context.Context, to, body, mediaURL string) (string, error)
	GetName() string
}

// SideEffectQueue runs stage side effects detached from the request
type SideEffectQueue interface {
	Enqueue(ctx context.Context, change models.StageChange) error
}

// StageObserver is told about every committed stage change
type StageObserver interface {
	StageChanged(job *models.Job)
}
