package models

import (
	"strings"
	"time"
)

// ExpenseType represents the category of a ledger expense
type ExpenseType string

const (
	ExpenseTypeCoated     ExpenseType = "coated"
	ExpenseTypeWashed     ExpenseType = "washed"
	ExpenseTypeOnlineMaal ExpenseType = "online_maal"
	ExpenseTypeInkBill    ExpenseType = "ink_bill"
	ExpenseTypeSalary     ExpenseType = "salary"
	ExpenseTypeElectric   ExpenseType = "electric"
	ExpenseTypeOther      ExpenseType = "other"
)

var expenseTypes = map[ExpenseType]bool{
	ExpenseTypeCoated:     true,
	ExpenseTypeWashed:     true,
	ExpenseTypeOnlineMaal: true,
	ExpenseTypeInkBill:    true,
	ExpenseTypeSalary:     true,
	ExpenseTypeElectric:   true,
	ExpenseTypeOther:      true,
}

// ParseExpenseType accepts both "ink_bill" and the older "ink bill" spelling
func ParseExpenseType(s string) (ExpenseType, bool) {
	t := ExpenseType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	return t, expenseTypes[t]
}

// Expense is a single costed event in the ledger
type Expense struct {
	ID          string      `json:"id"`
	Type        ExpenseType `json:"type"`
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	GST         float64     `json:"gst"`
	JobID       *string     `json:"jobId,omitempty"` // set for stage expenses, description still carries the id
	Date        time.Time   `json:"date"`
}

// CreateExpenseRequest is used for manual ledger entries
type CreateExpenseRequest struct {
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"required,gte=0"`
}

// UpdateExpenseRequest changes the amount of an expense
type UpdateExpenseRequest struct {
	Amount *float64 `json:"amount" validate:"required,gte=0"`
}

// ExpenseFilter narrows an expense search
type ExpenseFilter struct {
	Pattern string
	From    *time.Time
	To      *time.Time // exclusive
}
