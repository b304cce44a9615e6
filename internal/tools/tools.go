// Package tools defines the MCP tool surface of the spending service: one
// named tool per storage operation, with typed argument schemas and
// JSON/status-string results.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"spendmcp/internal/services"
)

type definition struct {
	tool    mcp.Tool
	handler func(svc *services.SpendingService) server.ToolHandlerFunc
}

func definitions() []definition {
	return []definition{
		{
			tool: mcp.NewTool("list_categories",
				mcp.WithDescription("List all spending categories with their total spending amounts. Totals only count paid expenses."),
			),
			handler: listCategoriesHandler,
		},
		{
			tool: mcp.NewTool("create_category",
				mcp.WithDescription("Create a new spending category."),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Category name (e.g. \"Software\", \"Office Supplies\")"),
				),
				mcp.WithString("description",
					mcp.Description("Optional description of the category"),
				),
				mcp.WithNumber("budget",
					mcp.Description("Optional monthly budget limit for this category"),
				),
			),
			handler: createCategoryHandler,
		},
		{
			tool: mcp.NewTool("list_expenses",
				mcp.WithDescription("List all expenses, optionally filtered by category and/or status. Filters combine with AND."),
				mcp.WithNumber("category_id",
					mcp.Description("Optional category ID to filter expenses"),
				),
				mcp.WithString("status",
					mcp.Description("Optional payment status filter ('pending', 'paid', 'cancelled')"),
				),
			),
			handler: listExpensesHandler,
		},
		{
			tool: mcp.NewTool("create_expense",
				mcp.WithDescription("Create a new expense entry. New expenses always start out pending."),
				mcp.WithString("company_name",
					mcp.Required(),
					mcp.Description("Name of the company/vendor"),
				),
				mcp.WithNumber("amount",
					mcp.Required(),
					mcp.Description("Expense amount in dollars"),
				),
				mcp.WithNumber("category_id",
					mcp.Required(),
					mcp.Description("ID of the category this expense belongs to"),
				),
				mcp.WithString("sales_email",
					mcp.Required(),
					mcp.Description("Email address for payment"),
				),
				mcp.WithString("due_date",
					mcp.Description("Due date in YYYY-MM-DD format (optional)"),
				),
			),
			handler: createExpenseHandler,
		},
		{
			tool: mcp.NewTool("get_expense",
				mcp.WithDescription("Get details of a specific expense by ID."),
				mcp.WithNumber("id",
					mcp.Required(),
					mcp.Description("Expense ID"),
				),
			),
			handler: getExpenseHandler,
		},
		{
			tool: mcp.NewTool("update_expense",
				mcp.WithDescription("Update an existing expense. Only the supplied fields change; everything else keeps its prior value."),
				mcp.WithNumber("id",
					mcp.Required(),
					mcp.Description("Expense ID to update"),
				),
				mcp.WithString("company_name",
					mcp.Description("Updated company name (optional)"),
				),
				mcp.WithNumber("amount",
					mcp.Description("Updated expense amount (optional)"),
				),
				mcp.WithNumber("category_id",
					mcp.Description("Updated category ID (optional)"),
				),
				mcp.WithString("sales_email",
					mcp.Description("Updated email address (optional)"),
				),
				mcp.WithString("due_date",
					mcp.Description("Updated due date in YYYY-MM-DD format (optional)"),
				),
				mcp.WithString("status",
					mcp.Description("Updated status - 'pending', 'paid', or 'cancelled' (optional)"),
				),
				mcp.WithString("invoice_url",
					mcp.Description("Updated invoice URL (optional)"),
				),
			),
			handler: updateExpenseHandler,
		},
		{
			tool: mcp.NewTool("delete_expense",
				mcp.WithDescription("Delete an expense by ID."),
				mcp.WithNumber("id",
					mcp.Required(),
					mcp.Description("Expense ID to delete"),
				),
			),
			handler: deleteExpenseHandler,
		},
		{
			tool: mcp.NewTool("get_spending_summary",
				mcp.WithDescription("Get a summary of paid spending by category, ordered by total spent, plus the overall total."),
			),
			handler: spendingSummaryHandler,
		},
	}
}

// Register adds every spending tool to the MCP server.
func Register(s *server.MCPServer, svc *services.SpendingService) {
	for _, d := range definitions() {
		s.AddTool(d.tool, d.handler(svc))
	}
}

// CatalogEntry is one row of the /tools listing.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog lists the registered tools for the HTTP tools endpoint.
func Catalog() []CatalogEntry {
	defs := definitions()
	entries := make([]CatalogEntry, len(defs))
	for i, d := range defs {
		entries[i] = CatalogEntry{Name: d.tool.Name, Description: d.tool.Description}
	}
	return entries
}
