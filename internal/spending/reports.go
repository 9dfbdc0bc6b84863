package spending

import (
	"context"

	"budget-backend/internal/storage"

	"github.com/shopspring/decimal"
)

type MonthlyReport struct {
	Month  int          `json:"month"`
	Year   int          `json:"year"`
	Report []ReportLine `json:"report"`
}

// MonthlyReport joins the user's categories, budgets and expenses for p.
func (s *Service) MonthlyReport(ctx context.Context, userID uint, p Period) (*MonthlyReport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, storeErr("monthly report", err, "")
	}
	budgets, err := s.store.ListBudgets(ctx, storage.BudgetFilter{UserID: userID, Month: p.Month, Year: p.Year})
	if err != nil {
		return nil, storeErr("monthly report", err, "")
	}
	from, to := p.Bounds(s.loc)
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, storeErr("monthly report", err, "")
	}

	return &MonthlyReport{
		Month:  p.Month,
		Year:   p.Year,
		Report: BuildReport(categories, budgets, expenses, p, s.loc),
	}, nil
}

// MonthTotal sums every category of one month.
type MonthTotal struct {
	Month        int             `json:"month"`
	Spent        decimal.Decimal `json:"spent"`
	Budget       decimal.Decimal `json:"budget"`
	Remaining    decimal.Decimal `json:"remaining"`
	IsOverBudget bool            `json:"isOverBudget"`
}

type YearlyOverview struct {
	Year   int             `json:"year"`
	Months []MonthTotal    `json:"months"`
	Spent  decimal.Decimal `json:"spent"`
	Budget decimal.Decimal `json:"budget"`
}

// YearlyOverview totals the monthly report of every month of year.
func (s *Service) YearlyOverview(ctx context.Context, userID uint, year int) (*YearlyOverview, error) {
	if err := (Period{Month: 1, Year: year}).Validate(); err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, storeErr("yearly overview", err, "")
	}
	budgets, err := s.store.ListBudgets(ctx, storage.BudgetFilter{UserID: userID, Year: year})
	if err != nil {
		return nil, storeErr("yearly overview", err, "")
	}
	from, _ := Period{Month: 1, Year: year}.Bounds(s.loc)
	_, to := Period{Month: 12, Year: year}.Bounds(s.loc)
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, storeErr("yearly overview", err, "")
	}

	out := &YearlyOverview{
		Year:   year,
		Months: make([]MonthTotal, 0, 12),
		Spent:  decimal.Zero,
		Budget: decimal.Zero,
	}
	for m := 1; m <= 12; m++ {
		total := MonthTotal{Month: m, Spent: decimal.Zero, Budget: decimal.Zero}
		for _, line := range BuildReport(categories, budgets, expenses, Period{Month: m, Year: year}, s.loc) {
			total.Spent = total.Spent.Add(line.Spent)
			total.Budget = total.Budget.Add(line.Budget)
		}
		total.Remaining = total.Budget.Sub(total.Spent)
		total.IsOverBudget = total.Remaining.IsNegative()

		out.Months = append(out.Months, total)
		out.Spent = out.Spent.Add(total.Spent)
		out.Budget = out.Budget.Add(total.Budget)
	}
	return out, nil
}
