package core

// CategorySpend is one row of the spending summary: paid spend and paid
// expense count for a category, paired with its budget ceiling (nil when
// none was set).
type CategorySpend struct {
	Category     string   `json:"category"`
	TotalSpent   float64  `json:"total_spent"`
	ExpenseCount int64    `json:"expense_count"`
	Budget       *float64 `json:"budget"`
}

// SpendingSummary aggregates paid spending across all categories.
// TotalSpending is always the sum of the per-category totals.
type SpendingSummary struct {
	TotalSpending float64         `json:"total_spending"`
	ByCategory    []CategorySpend `json:"by_category"`
}
