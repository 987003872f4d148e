package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
)

type DashboardService struct {
	JobRepo     JobStore
	ExpenseRepo ExpenseStore
}

func NewDashboardService(jobRepo JobStore, expenseRepo ExpenseStore) *DashboardService {
	return &DashboardService{JobRepo: jobRepo, ExpenseRepo: expenseRepo}
}

// Stats returns job counts and the ledger total
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	counts, err := s.JobRepo.StageCounts(ctx)
	if err != nil {
		return nil, storageError("count jobs", err)
	}
	total, err := s.ExpenseRepo.Total(ctx)
	if err != nil {
		return nil, storageError("sum expenses", err)
	}

	stats := &models.DashboardStats{TotalExpenses: total}
	for stage, n := range counts {
		stats.TotalJobs += n
		if stage == models.StageDelivered {
			stats.Delivered += n
		}
	}
	stats.Pending = stats.TotalJobs - stats.Delivered
	return stats, nil
}

// ChartData returns per-stage job counts in pipeline order and monthly expense totals
func (s *DashboardService) ChartData(ctx context.Context) (*models.ChartData, error) {
	counts, err := s.JobRepo.StageCounts(ctx)
	if err != nil {
		return nil, storageError("count jobs", err)
	}
	months, err := s.ExpenseRepo.MonthlyTotals(ctx)
	if err != nil {
		return nil, storageError("monthly expenses", err)
	}

	data := &models.ChartData{
		StageCounts:       []models.StageCount{},
		MonthWiseExpenses: months,
	}
	for _, st := range models.Stages {
		if n := counts[st]; n > 0 {
			data.StageCounts = append(data.StageCounts, models.StageCount{Stage: st, Count: n})
		}
	}
	if data.MonthWiseExpenses == nil {
		data.MonthWiseExpenses = []models.MonthExpense{}
	}
	return data, nil
}

// JobSummary totals the coating and washing expenses recorded for a job
func (s *DashboardService) JobSummary(ctx context.Context, jobID string) (*models.JobSummary, error) {
	jobID = strings.TrimSpace(jobID)
	job, err := s.JobRepo.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, storageError("get job", err)
	}

	expenses, err := s.ExpenseRepo.ListByJob(ctx, job.JobID)
	if err != nil {
		return nil, storageError("list job expenses", err)
	}

	summary := &models.JobSummary{
		PartyName:  job.PartyName,
		FabricType: job.FabricType,
		Stage:      job.Stage,
	}
	for _, e := range expenses {
		switch e.Type {
		case models.ExpenseTypeCoated:
			summary.CoatingBill += e.Amount
		case models.ExpenseTypeWashed:
			summary.WashingBill += e.Amount
		}
	}
	return summary, nil
}
