package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fabric-backend/internal/billing"
	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
	"fabric-backend/internal/timeutil"

	"github.com/google/uuid"
)

type ExpenseService struct {
	ExpenseRepo ExpenseStore
}

func NewExpenseService(expenseRepo ExpenseStore) *ExpenseService {
	return &ExpenseService{ExpenseRepo: expenseRepo}
}

// AddExpense records a manual ledger entry. GST is always derived from the amount.
func (s *ExpenseService) AddExpense(ctx context.Context, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	typ, ok := models.ParseExpenseType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown expense type %q", ErrValidation, req.Type)
	}

	expense := &models.Expense{
		ID:          uuid.NewString(),
		Type:        typ,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		GST:         billing.ExpenseGST(req.Amount),
		Date:        timeutil.Now(),
	}
	if err := s.ExpenseRepo.Create(ctx, expense); err != nil {
		return nil, storageError("create expense", err)
	}
	return expense, nil
}

// UpdateAmount replaces the amount of an expense and recomputes its GST
func (s *ExpenseService) UpdateAmount(ctx context.Context, id string, req *models.UpdateExpenseRequest) (*models.Expense, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	id = strings.TrimSpace(id)
	amount := *req.Amount
	gst := billing.ExpenseGST(amount)

	if err := s.ExpenseRepo.UpdateAmount(ctx, id, amount, gst); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: expense %s", ErrNotFound, id)
		}
		return nil, storageError("update expense", err)
	}

	expense, err := s.ExpenseRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: expense %s", ErrNotFound, id)
		}
		return nil, storageError("get expense", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense from the ledger
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.ExpenseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: expense %s", ErrNotFound, id)
		}
		return storageError("delete expense", err)
	}
	return nil
}

// ListExpenses returns the whole ledger, newest first
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.list(ctx, models.ExpenseFilter{})
}

// SearchExpenses filters by a case-insensitive description substring and/or a
// calendar day (YYYY-MM-DD, IST). Empty arguments do not filter.
func (s *ExpenseService) SearchExpenses(ctx context.Context, pattern, date string) ([]*models.Expense, error) {
	filter := models.ExpenseFilter{Pattern: strings.TrimSpace(pattern)}
	if date = strings.TrimSpace(date); date != "" {
		from, to, err := timeutil.DayRange(date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		filter.From, filter.To = &from, &to
	}
	return s.list(ctx, filter)
}

func (s *ExpenseService) list(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	expenses, err := s.ExpenseRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError("list expenses", err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return expenses, nil
}
