package dynamo

import (
	"context"
	"sort"
	"strings"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
	"fabric-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type expenseItem struct {
	ID          string  `dynamodbav:"id"`
	Type        string  `dynamodbav:"type"`
	Description string  `dynamodbav:"description"`
	Amount      float64 `dynamodbav:"amount"`
	GST         float64 `dynamodbav:"gst"`
	JobID       string  `dynamodbav:"job_id,omitempty"`
	Date        string  `dynamodbav:"date"`
}

func toExpenseItem(e *models.Expense) expenseItem {
	it := expenseItem{
		ID:          e.ID,
		Type:        string(e.Type),
		Description: e.Description,
		Amount:      e.Amount,
		GST:         e.GST,
		Date:        formatTime(e.Date),
	}
	if e.JobID != nil {
		it.JobID = *e.JobID
	}
	return it
}

func fromExpenseItem(it expenseItem) *models.Expense {
	e := &models.Expense{
		ID:          it.ID,
		Type:        models.ExpenseType(it.Type),
		Description: it.Description,
		Amount:      it.Amount,
		GST:         it.GST,
		Date:        parseTime(it.Date),
	}
	if it.JobID != "" {
		jobID := it.JobID
		e.JobID = &jobID
	}
	return e
}

// ExpenseStore persists the ledger keyed by expense id
type ExpenseStore struct {
	ddb   API
	table string
}

func NewExpenseStore(ddb API, table string) *ExpenseStore {
	return &ExpenseStore{ddb: ddb, table: table}
}

func (s *ExpenseStore) Create(ctx context.Context, e *models.Expense) error {
	return put(ctx, s.ddb, s.table, "id", toExpenseItem(e), condNotExists)
}

func (s *ExpenseStore) Get(ctx context.Context, id string) (*models.Expense, error) {
	var it expenseItem
	ok, err := get(ctx, s.ddb, s.table, "id", id, &it)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return fromExpenseItem(it), nil
}

func (s *ExpenseStore) UpdateAmount(ctx context.Context, id string, amount, gst float64) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	e.Amount, e.GST = amount, gst
	err = put(ctx, s.ddb, s.table, "id", toExpenseItem(e), condExists)
	if isConditionFailed(err) {
		return repositories.ErrNotFound
	}
	return err
}

func (s *ExpenseStore) Delete(ctx context.Context, id string) error {
	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.table),
		Key:                      stringKey("id", id),
		ConditionExpression:      aws.String(condExists),
		ExpressionAttributeNames: map[string]string{"#pk": "id"},
	})
	if isConditionFailed(err) {
		return repositories.ErrNotFound
	}
	return err
}

func (s *ExpenseStore) all(ctx context.Context) ([]*models.Expense, error) {
	items, err := scanAll[expenseItem](ctx, s.ddb, s.table)
	if err != nil {
		return nil, err
	}
	expenses := make([]*models.Expense, 0, len(items))
	for _, it := range items {
		expenses = append(expenses, fromExpenseItem(it))
	}
	return expenses, nil
}

// List returns expenses matching filter, newest first
func (s *ExpenseStore) List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.Expense
	for _, e := range all {
		if matchesFilter(e, filter) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Date.After(out[k].Date) })
	return out, nil
}

func matchesFilter(e *models.Expense, f models.ExpenseFilter) bool {
	if f.Pattern != "" && !containsFold(e.Description, f.Pattern) {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.Date.Before(*f.To) {
		return false
	}
	return true
}

func (s *ExpenseStore) ListByJob(ctx context.Context, jobID string) ([]*models.Expense, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.Expense
	for _, e := range all {
		if (e.JobID != nil && *e.JobID == jobID) || strings.Contains(e.Description, jobID) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Date.Before(out[k].Date) })
	return out, nil
}

func (s *ExpenseStore) Total(ctx context.Context) (float64, error) {
	all, err := s.all(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range all {
		total += e.Amount
	}
	return total, nil
}

func (s *ExpenseStore) MonthlyTotals(ctx context.Context) ([]models.MonthExpense, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return monthlyTotals(all), nil
}

// monthlyTotals groups by IST calendar month, oldest first
func monthlyTotals(expenses []*models.Expense) []models.MonthExpense {
	byMonth := make(map[[2]int]float64)
	for _, e := range expenses {
		d := e.Date.In(timeutil.IST)
		byMonth[[2]int{d.Year(), int(d.Month())}] += e.Amount
	}
	months := make([]models.MonthExpense, 0, len(byMonth))
	for k, total := range byMonth {
		months = append(months, models.MonthExpense{Year: k[0], Month: k[1], Total: total})
	}
	sort.Slice(months, func(i, k int) bool {
		if months[i].Year != months[k].Year {
			return months[i].Year < months[k].Year
		}
		return months[i].Month < months[k].Month
	})
	return months
}
