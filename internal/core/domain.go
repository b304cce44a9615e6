package core

import (
	"errors"
	"fmt"
	"time"
)

// ExpenseStatus is the payment lifecycle state of an expense.
// Only paid expenses count toward spending totals.
type ExpenseStatus string

const (
	StatusPending   ExpenseStatus = "pending"
	StatusPaid      ExpenseStatus = "paid"
	StatusCancelled ExpenseStatus = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid expense status")

func (s ExpenseStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus validates a raw status string from a tool argument.
func ParseStatus(raw string) (ExpenseStatus, error) {
	s := ExpenseStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q (must be one of 'pending', 'paid', 'cancelled')", ErrInvalidStatus, raw)
	}
	return s, nil
}

type (
	// Category is a labeled budget bucket expenses are assigned to.
	// Description and BudgetLimit are nullable columns, hence pointers.
	Category struct {
		ID          int64     `json:"id"`
		Name        string    `json:"name"`
		Description *string   `json:"description"`
		BudgetLimit *float64  `json:"budget_limit"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// CategoryWithSpend augments a category with the sum of its paid expenses.
	CategoryWithSpend struct {
		Category
		TotalSpent float64 `json:"total_spent"`
	}

	// Expense is a single payable line item tied to a vendor and a category.
	Expense struct {
		ID          int64         `json:"id"`
		CategoryID  int64         `json:"category_id"`
		CompanyName string        `json:"company_name"`
		Amount      float64       `json:"amount"`
		SalesEmail  string        `json:"sales_email"`
		DueDate     *string       `json:"due_date"`
		Status      ExpenseStatus `json:"status"`
		InvoiceURL  *string       `json:"invoice_url"`
		CreatedAt   time.Time     `json:"created_at"`
	}

	// NewCategory carries the caller-supplied fields for category creation.
	NewCategory struct {
		Name        string
		Description *string
		BudgetLimit *float64
	}

	// NewExpense carries the caller-supplied fields for expense creation.
	// Status is not part of it: new expenses always start out pending.
	NewExpense struct {
		CategoryID  int64
		CompanyName string
		Amount      float64
		SalesEmail  string
		DueDate     *string
	}
)

// ExpenseUpdate is a partial update: nil fields keep their prior values.
type ExpenseUpdate struct {
	CompanyName *string
	Amount      *float64
	CategoryID  *int64
	SalesEmail  *string
	DueDate     *string
	Status      *ExpenseStatus
	InvoiceURL  *string
}

// Empty reports whether the update would touch no fields at all.
func (u ExpenseUpdate) Empty() bool {
	return u.CompanyName == nil &&
		u.Amount == nil &&
		u.CategoryID == nil &&
		u.SalesEmail == nil &&
		u.DueDate == nil &&
		u.Status == nil &&
		u.InvoiceURL == nil
}

func (u ExpenseUpdate) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: %q (must be one of 'pending', 'paid', 'cancelled')", ErrInvalidStatus, *u.Status)
	}
	return nil
}

// ExpenseFilter narrows an expense listing; nil fields match everything.
// Set fields combine with logical AND.
type ExpenseFilter struct {
	CategoryID *int64
	Status     *ExpenseStatus
}
