package spending

import (
	"time"

	"budget-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	MessageNoBudget     = "Expense added successfully"
	MessageWithinBudget = "Within budget"
	MessageOverBudget   = "Over budget!"
)

// SpentIn sums the amounts of the expenses assigned to categoryID whose
// date falls in p when read in loc. Both the monthly report and the
// status returned on expense creation are computed with it.
func SpentIn(expenses []models.Expense, categoryID uint, p Period, loc *time.Location) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.CategoryID != categoryID || !p.Contains(e.Date, loc) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

type ReportCategory struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ReportLine compares one category's spend with its budget for a period.
type ReportLine struct {
	Category     ReportCategory  `json:"category"`
	Spent        decimal.Decimal `json:"spent"`
	Budget       decimal.Decimal `json:"budget"`
	Remaining    decimal.Decimal `json:"remaining"`
	IsOverBudget bool            `json:"isOverBudget"`
}

// BuildReport produces exactly one line per category, in the order given.
// A category without a budget for p is reported against a budget of 0.
func BuildReport(categories []models.Category, budgets []models.Budget, expenses []models.Expense, p Period, loc *time.Location) []ReportLine {
	limits := make(map[uint]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		if b.Month == p.Month && b.Year == p.Year {
			limits[b.CategoryID] = b.Amount
		}
	}

	lines := make([]ReportLine, 0, len(categories))
	for _, c := range categories {
		spent := SpentIn(expenses, c.ID, p, loc)
		budget, ok := limits[c.ID]
		if !ok {
			budget = decimal.Zero
		}
		remaining := budget.Sub(spent)

		lines = append(lines, ReportLine{
			Category: ReportCategory{
				ID:    c.ID,
				Name:  c.Name,
				Color: c.Color,
			},
			Spent:        spent,
			Budget:       budget,
			Remaining:    remaining,
			IsOverBudget: remaining.IsNegative(),
		})
	}
	return lines
}

// BudgetStatus is the advisory classification returned with a new expense.
// The numeric fields are omitted when the category has no budget.
type BudgetStatus struct {
	WithinBudget bool             `json:"withinBudget"`
	Message      string           `json:"message"`
	Spent        *decimal.Decimal `json:"spent,omitempty"`
	Budget       *decimal.Decimal `json:"budget,omitempty"`
	Remaining    *decimal.Decimal `json:"remaining,omitempty"`
}

// EvaluateStatus classifies spent against budget; a nil budget means none
// is set for the period. Spending exactly the budget is within it.
func EvaluateStatus(budget *models.Budget, spent decimal.Decimal) BudgetStatus {
	if budget == nil {
		return BudgetStatus{WithinBudget: true, Message: MessageNoBudget}
	}

	limit := budget.Amount
	remaining := limit.Sub(spent)
	status := BudgetStatus{
		WithinBudget: true,
		Message:      MessageWithinBudget,
		Spent:        &spent,
		Budget:       &limit,
		Remaining:    &remaining,
	}
	if spent.GreaterThan(limit) {
		status.WithinBudget = false
		status.Message = MessageOverBudget
	}
	return status
}
