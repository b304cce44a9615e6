package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendmcp/internal/core"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoFields is returned by UpdateExpense when no fields were supplied.
	ErrNoFields = errors.New("no fields to update")
)

// Store provides the spending operations over a single SQLite database.
// Each method is one statement, or an existence check followed by one
// statement; connection scoping is handled by the database/sql pool.
type Store struct {
	db *sql.DB
}

// Open connects to an existing spending database and verifies it is
// reachable. Schema creation belongs to the initializer (RunMigrations).
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListCategories returns all categories, newest first, each with the sum of
// its paid expenses (0 when none).
func (s *Store) ListCategories(ctx context.Context) ([]core.CategoryWithSpend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.id, c.name, c.description, c.budget_limit, c.created_at,
			COALESCE(SUM(e.amount), 0) AS total_spent
		FROM categories c
		LEFT JOIN expenses e ON c.id = e.category_id AND e.status = 'paid'
		GROUP BY c.id
		ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.CategoryWithSpend{}
	for rows.Next() {
		var c core.CategoryWithSpend
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.BudgetLimit, &c.CreatedAt, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// CreateCategory inserts a category and returns its generated id.
// Duplicate names are allowed; the schema has no uniqueness constraint.
func (s *Store) CreateCategory(ctx context.Context, nc core.NewCategory) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, description, budget_limit) VALUES (?, ?, ?)",
		nc.Name, nc.Description, nc.BudgetLimit)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", nc.Name)
	return id, nil
}

// ListExpenses returns expenses matching the filter, newest first.
func (s *Store) ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	query := `
		SELECT id, category_id, company_name, amount, sales_email,
		       due_date, status, invoice_url, created_at
		FROM expenses WHERE 1=1`
	args := []any{}

	if f.CategoryID != nil {
		query += " AND category_id = ?"
		args = append(args, *f.CategoryID)
	}
	if f.Status != nil {
		query += " AND status = ?"
		args = append(args, *f.Status)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// CreateExpense inserts an expense and returns its generated id.
// Status is always 'pending' at creation; CategoryID is not checked against
// the categories table (no referential integrity at this layer).
func (s *Store) CreateExpense(ctx context.Context, ne core.NewExpense) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (category_id, company_name, amount, sales_email, due_date, status)
		VALUES (?, ?, ?, ?, ?, 'pending')`,
		ne.CategoryID, ne.CompanyName, ne.Amount, ne.SalesEmail, ne.DueDate)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", id,
		"company_name", ne.CompanyName,
		"amount", ne.Amount,
		"category_id", ne.CategoryID)

	return id, nil
}

// GetExpense returns a single expense, or ErrNotFound.
func (s *Store) GetExpense(ctx context.Context, id int64) (*core.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category_id, company_name, amount, sales_email,
		       due_date, status, invoice_url, created_at
		FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateExpense applies a partial update in a single UPDATE statement.
// Returns ErrNotFound when the id does not exist and ErrNoFields when the
// update carries nothing; the existence check runs first, so not-found
// takes precedence over an empty field set.
func (s *Store) UpdateExpense(ctx context.Context, id int64, u core.ExpenseUpdate) error {
	var existing int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM expenses WHERE id = ?", id).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check expense exists: %w", err)
	}

	sets := []string{}
	args := []any{}
	if u.CompanyName != nil {
		sets = append(sets, "company_name = ?")
		args = append(args, *u.CompanyName)
	}
	if u.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *u.Amount)
	}
	if u.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *u.CategoryID)
	}
	if u.SalesEmail != nil {
		sets = append(sets, "sales_email = ?")
		args = append(args, *u.SalesEmail)
	}
	if u.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *u.DueDate)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *u.Status)
	}
	if u.InvoiceURL != nil {
		sets = append(sets, "invoice_url = ?")
		args = append(args, *u.InvoiceURL)
	}

	if len(sets) == 0 {
		return ErrNoFields
	}

	args = append(args, id)
	query := "UPDATE expenses SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", id, "fields", len(sets))
	return nil
}

// DeleteExpense removes an expense, or returns ErrNotFound.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// SpendingSummary aggregates paid spending per category, ordered by total
// spend descending. Categories with no paid expenses appear with a zero
// total, and the grand total is the sum over all categories.
func (s *Store) SpendingSummary(ctx context.Context) (core.SpendingSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.name AS category,
			c.budget_limit AS budget,
			COALESCE(SUM(e.amount), 0) AS total_spent,
			COUNT(e.id) AS expense_count
		FROM categories c
		LEFT JOIN expenses e ON c.id = e.category_id AND e.status = 'paid'
		GROUP BY c.id
		ORDER BY total_spent DESC`)
	if err != nil {
		return core.SpendingSummary{}, fmt.Errorf("spending summary: %w", err)
	}
	defer rows.Close()

	summary := core.SpendingSummary{ByCategory: []core.CategorySpend{}}
	for rows.Next() {
		var cs core.CategorySpend
		if err := rows.Scan(&cs.Category, &cs.Budget, &cs.TotalSpent, &cs.ExpenseCount); err != nil {
			return core.SpendingSummary{}, fmt.Errorf("scan summary row: %w", err)
		}
		summary.TotalSpending += cs.TotalSpent
		summary.ByCategory = append(summary.ByCategory, cs)
	}
	if err := rows.Err(); err != nil {
		return core.SpendingSummary{}, fmt.Errorf("iterate summary: %w", err)
	}

	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	err := row.Scan(&e.ID, &e.CategoryID, &e.CompanyName, &e.Amount, &e.SalesEmail,
		&e.DueDate, &e.Status, &e.InvoiceURL, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, err
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	return e, nil
}
