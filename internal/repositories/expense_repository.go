package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fabric-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

const expenseColumns = `id::text, type, description, amount::float8, gst::float8, job_id, date`

func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expenses (id, type, description, amount, gst, job_id, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.Exec(ctx, query, e.ID, string(e.Type), e.Description, e.Amount, e.GST, e.JobID, e.Date)
	return err
}

func (r *ExpenseRepository) Get(ctx context.Context, id string) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id::text = $1`
	e, err := scanExpense(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *ExpenseRepository) UpdateAmount(ctx context.Context, id string, amount, gst float64) error {
	tag, err := r.DB.Exec(ctx, `UPDATE expenses SET amount = $2, gst = $3 WHERE id::text = $1`, id, amount, gst)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM expenses WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns expenses matching filter, newest first
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Pattern != "" {
		args = append(args, ContainsPattern(filter.Pattern))
		conds = append(conds, fmt.Sprintf("description ILIKE $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("date < $%d", len(args)))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date DESC`

	return r.query(ctx, query, args...)
}

// ListByJob returns expenses whose description contains jobID or whose job_id matches it
func (r *ExpenseRepository) ListByJob(ctx context.Context, jobID string) ([]*models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE job_id = $1 OR strpos(description, $1) > 0
		ORDER BY date
	`
	return r.query(ctx, query, jobID)
}

func (r *ExpenseRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::float8 FROM expenses`).Scan(&total)
	return total, err
}

// MonthlyTotals sums expenses per calendar month in IST, oldest first
func (r *ExpenseRepository) MonthlyTotals(ctx context.Context) ([]models.MonthExpense, error) {
	query := `
		SELECT EXTRACT(YEAR FROM date AT TIME ZONE 'Asia/Kolkata')::int AS year,
		       EXTRACT(MONTH FROM date AT TIME ZONE 'Asia/Kolkata')::int AS month,
		       SUM(amount)::float8
		FROM expenses
		GROUP BY year, month
		ORDER BY year, month
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := []models.MonthExpense{}
	for rows.Next() {
		var m models.MonthExpense
		if err := rows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func (r *ExpenseRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	e := &models.Expense{}
	var typ string
	if err := row.Scan(&e.ID, &typ, &e.Description, &e.Amount, &e.GST, &e.JobID, &e.Date); err != nil {
		return nil, err
	}
	e.Type = models.ExpenseType(typ)
	return e, nil
}
