package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"spendmcp/internal/core"
	"spendmcp/internal/services"
	"spendmcp/internal/storage"
)

func listCategoriesHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := svc.ListCategories(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(categories)
	}
}

func createCategoryHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		args := request.GetArguments()
		description, err := optionalString(args, "description")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		budget, err := optionalFloat(args, "budget")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		id, err := svc.CreateCategory(ctx, core.NewCategory{
			Name:        name,
			Description: description,
			BudgetLimit: budget,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Category '%s' created successfully with ID: %d", name, id)), nil
	}
}

func listExpensesHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		var filter core.ExpenseFilter
		categoryID, err := optionalInt(args, "category_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter.CategoryID = categoryID

		rawStatus, err := optionalString(args, "status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if rawStatus != nil {
			status, err := core.ParseStatus(*rawStatus)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			filter.Status = &status
		}

		expenses, err := svc.ListExpenses(ctx, filter)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(expenses)
	}
}

func createExpenseHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		companyName, err := request.RequireString("company_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		amount, err := request.RequireFloat("amount")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		categoryID, err := requireID(request, "category_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		salesEmail, err := request.RequireString("sales_email")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dueDate, err := optionalString(request.GetArguments(), "due_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		id, err := svc.CreateExpense(ctx, core.NewExpense{
			CategoryID:  categoryID,
			CompanyName: companyName,
			Amount:      amount,
			SalesEmail:  salesEmail,
			DueDate:     dueDate,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Expense for %s ($%v) created successfully with ID: %d", companyName, amount, id)), nil
	}
}

func getExpenseHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		expense, err := svc.GetExpense(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcp.NewToolResultText(notFoundMessage(id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(expense)
	}
}

func updateExpenseHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		update, err := expenseUpdateFromArgs(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		err = svc.UpdateExpense(ctx, id, update)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return mcp.NewToolResultText(notFoundMessage(id)), nil
		case errors.Is(err, storage.ErrNoFields):
			return mcp.NewToolResultText("No fields to update"), nil
		case err != nil:
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Expense %d updated successfully", id)), nil
	}
}

func deleteExpenseHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireID(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		err = svc.DeleteExpense(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcp.NewToolResultText(notFoundMessage(id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Expense %d deleted successfully", id)), nil
	}
}

func spendingSummaryHandler(svc *services.SpendingService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := svc.SpendingSummary(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(summary)
	}
}

// expenseUpdateFromArgs collects the optional update fields, leaving absent
// ones nil so the store only touches what the caller supplied.
func expenseUpdateFromArgs(args map[string]any) (core.ExpenseUpdate, error) {
	var u core.ExpenseUpdate
	var err error

	if u.CompanyName, err = optionalString(args, "company_name"); err != nil {
		return u, err
	}
	if u.Amount, err = optionalFloat(args, "amount"); err != nil {
		return u, err
	}
	if u.CategoryID, err = optionalInt(args, "category_id"); err != nil {
		return u, err
	}
	if u.SalesEmail, err = optionalString(args, "sales_email"); err != nil {
		return u, err
	}
	if u.DueDate, err = optionalString(args, "due_date"); err != nil {
		return u, err
	}
	if u.InvoiceURL, err = optionalString(args, "invoice_url"); err != nil {
		return u, err
	}

	rawStatus, err := optionalString(args, "status")
	if err != nil {
		return u, err
	}
	if rawStatus != nil {
		status, err := core.ParseStatus(*rawStatus)
		if err != nil {
			return u, err
		}
		u.Status = &status
	}

	return u, nil
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Error: Expense with ID %d not found", id)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

func requireID(request mcp.CallToolRequest, key string) (int64, error) {
	v, err := request.RequireInt(key)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, fmt.Errorf("argument %q must be a positive integer", key)
	}
	return int64(v), nil
}

func optionalString(args map[string]any, key string) (*string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a string", key)
	}
	return &s, nil
}

func optionalFloat(args map[string]any, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	default:
		return nil, fmt.Errorf("argument %q must be a number", key)
	}
}

func optionalInt(args map[string]any, key string) (*int64, error) {
	f, err := optionalFloat(args, key)
	if err != nil || f == nil {
		return nil, err
	}
	i := int64(*f)
	if float64(i) != *f {
		return nil, fmt.Errorf("argument %q must be an integer", key)
	}
	return &i, nil
}
