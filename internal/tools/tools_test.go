package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"spendmcp/internal/core"
	"spendmcp/internal/services"
	"spendmcp/internal/storage"
)

func newTestService(t *testing.T) *services.SpendingService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "spending.db")
	if err := storage.RunMigrations(dbPath); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return services.NewSpendingService(store, nil)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("got %d content items, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	want := []string{
		"list_categories", "create_category", "list_expenses", "create_expense",
		"get_expense", "update_expense", "delete_expense", "get_spending_summary",
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d tools, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("tool %d = %q, want %q", i, entries[i].Name, name)
		}
		if entries[i].Description == "" {
			t.Fatalf("tool %q has no description", name)
		}
	}
}

func TestSpendingScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Create the Software category with a 5000 budget
	res, err := createCategoryHandler(svc)(ctx, callRequest(map[string]any{
		"name":   "Software",
		"budget": 5000.0,
	}))
	if err != nil {
		t.Fatalf("create_category: %v", err)
	}
	if got := resultText(t, res); got != "Category 'Software' created successfully with ID: 1" {
		t.Fatalf("unexpected result: %q", got)
	}

	// Create a pending expense under it. A status argument is not part of
	// the tool schema and must not leak through.
	res, err = createExpenseHandler(svc)(ctx, callRequest(map[string]any{
		"company_name": "TechSupplies Inc",
		"amount":       891.00,
		"category_id":  1.0,
		"sales_email":  "sales@techsupplies.test",
		"status":       "paid",
	}))
	if err != nil {
		t.Fatalf("create_expense: %v", err)
	}
	if got := resultText(t, res); got != "Expense for TechSupplies Inc ($891) created successfully with ID: 1" {
		t.Fatalf("unexpected result: %q", got)
	}

	// Not yet paid, so the summary shows nothing spent
	res, err = spendingSummaryHandler(svc)(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("get_spending_summary: %v", err)
	}
	var summary core.SpendingSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalSpending != 0 {
		t.Fatalf("total_spending = %v before payment, want 0", summary.TotalSpending)
	}

	// Pay it
	res, err = updateExpenseHandler(svc)(ctx, callRequest(map[string]any{
		"id":     1.0,
		"status": "paid",
	}))
	if err != nil {
		t.Fatalf("update_expense: %v", err)
	}
	if got := resultText(t, res); got != "Expense 1 updated successfully" {
		t.Fatalf("unexpected result: %q", got)
	}

	res, err = spendingSummaryHandler(svc)(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("get_spending_summary: %v", err)
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalSpending != 891.00 {
		t.Fatalf("total_spending = %v, want 891", summary.TotalSpending)
	}
	if len(summary.ByCategory) != 1 || summary.ByCategory[0].Category != "Software" ||
		summary.ByCategory[0].TotalSpent != 891.00 || summary.ByCategory[0].ExpenseCount != 1 {
		t.Fatalf("unexpected by_category: %+v", summary.ByCategory)
	}
	if summary.ByCategory[0].Budget == nil || *summary.ByCategory[0].Budget != 5000 {
		t.Fatalf("budget missing from summary: %+v", summary.ByCategory[0])
	}

	// Filtering by paid status returns exactly the one record
	res, err = listExpensesHandler(svc)(ctx, callRequest(map[string]any{
		"status": "paid",
	}))
	if err != nil {
		t.Fatalf("list_expenses: %v", err)
	}
	var expenses []core.Expense
	if err := json.Unmarshal([]byte(resultText(t, res)), &expenses); err != nil {
		t.Fatalf("decode expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].CompanyName != "TechSupplies Inc" {
		t.Fatalf("paid filter returned %+v", expenses)
	}

	// And list_categories reflects the paid total
	res, err = listCategoriesHandler(svc)(ctx, callRequest(nil))
	if err != nil {
		t.Fatalf("list_categories: %v", err)
	}
	var categories []core.CategoryWithSpend
	if err := json.Unmarshal([]byte(resultText(t, res)), &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 1 || categories[0].TotalSpent != 891.00 {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestNewExpenseIsAlwaysPending(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := createExpenseHandler(svc)(ctx, callRequest(map[string]any{
		"company_name": "Acme",
		"amount":       10.0,
		"category_id":  1.0,
		"sales_email":  "sales@acme.test",
	})); err != nil {
		t.Fatalf("create_expense: %v", err)
	}

	res, err := getExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 1.0}))
	if err != nil {
		t.Fatalf("get_expense: %v", err)
	}
	var e core.Expense
	if err := json.Unmarshal([]byte(resultText(t, res)), &e); err != nil {
		t.Fatalf("decode expense: %v", err)
	}
	if e.Status != core.StatusPending {
		t.Fatalf("status = %q, want pending", e.Status)
	}
}

func TestNotFoundMessages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	want := "Error: Expense with ID 999 not found"

	res, err := getExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 999.0}))
	if err != nil {
		t.Fatalf("get_expense: %v", err)
	}
	if got := resultText(t, res); got != want {
		t.Fatalf("get_expense: %q, want %q", got, want)
	}

	res, err = updateExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 999.0, "status": "paid"}))
	if err != nil {
		t.Fatalf("update_expense: %v", err)
	}
	if got := resultText(t, res); got != want {
		t.Fatalf("update_expense: %q, want %q", got, want)
	}

	res, err = deleteExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 999.0}))
	if err != nil {
		t.Fatalf("delete_expense: %v", err)
	}
	if got := resultText(t, res); got != want {
		t.Fatalf("delete_expense: %q, want %q", got, want)
	}
}

func TestUpdateExpenseNoFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := createExpenseHandler(svc)(ctx, callRequest(map[string]any{
		"company_name": "Acme",
		"amount":       10.0,
		"category_id":  1.0,
		"sales_email":  "sales@acme.test",
	})); err != nil {
		t.Fatalf("create_expense: %v", err)
	}

	res, err := updateExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 1.0}))
	if err != nil {
		t.Fatalf("update_expense: %v", err)
	}
	if got := resultText(t, res); got != "No fields to update" {
		t.Fatalf("got %q, want no-fields message", got)
	}
}

func TestArgumentValidationErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Missing required argument
	res, err := createCategoryHandler(svc)(ctx, callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("create_category: %v", err)
	}
	if !res.IsError {
		t.Fatal("missing name should produce a tool error")
	}

	// Invalid status value on update
	res, err = updateExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 1.0, "status": "overdue"}))
	if err != nil {
		t.Fatalf("update_expense: %v", err)
	}
	if !res.IsError {
		t.Fatal("invalid status should produce a tool error")
	}

	// Invalid status value on list filter
	res, err = listExpensesHandler(svc)(ctx, callRequest(map[string]any{"status": "overdue"}))
	if err != nil {
		t.Fatalf("list_expenses: %v", err)
	}
	if !res.IsError {
		t.Fatal("invalid status filter should produce a tool error")
	}

	// Wrong argument type
	res, err = getExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": "first"}))
	if err != nil {
		t.Fatalf("get_expense: %v", err)
	}
	if !res.IsError {
		t.Fatal("non-numeric id should produce a tool error")
	}

	// Non-positive id
	res, err = deleteExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 0.0}))
	if err != nil {
		t.Fatalf("delete_expense: %v", err)
	}
	if !res.IsError {
		t.Fatal("zero id should produce a tool error")
	}
}

func TestUpdateExpenseInvoiceURL(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := createExpenseHandler(svc)(ctx, callRequest(map[string]any{
		"company_name": "Acme",
		"amount":       10.0,
		"category_id":  1.0,
		"sales_email":  "sales@acme.test",
	})); err != nil {
		t.Fatalf("create_expense: %v", err)
	}

	if _, err := updateExpenseHandler(svc)(ctx, callRequest(map[string]any{
		"id":          1.0,
		"invoice_url": "https://billing.acme.test/inv/1",
	})); err != nil {
		t.Fatalf("update_expense: %v", err)
	}

	res, err := getExpenseHandler(svc)(ctx, callRequest(map[string]any{"id": 1.0}))
	if err != nil {
		t.Fatalf("get_expense: %v", err)
	}
	var e core.Expense
	if err := json.Unmarshal([]byte(resultText(t, res)), &e); err != nil {
		t.Fatalf("decode expense: %v", err)
	}
	if e.InvoiceURL == nil || *e.InvoiceURL != "https://billing.acme.test/inv/1" {
		t.Fatalf("invoice_url not set: %+v", e)
	}
	if e.CompanyName != "Acme" || e.Amount != 10 || e.Status != core.StatusPending {
		t.Fatalf("unrelated fields changed: %+v", e)
	}
}
