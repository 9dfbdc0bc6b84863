package spending

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget-backend/internal/models"
	"budget-backend/internal/storage/memory"

	"github.com/shopspring/decimal"
)

type recordingObserver struct {
	statuses []BudgetStatus
	upserts  int
}

func (o *recordingObserver) ExpenseCreated(s BudgetStatus) { o.statuses = append(o.statuses, s) }
func (o *recordingObserver) BudgetUpserted()               { o.upserts++ }

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(memory.New(), opts...)
}

func mustCategory(t *testing.T, svc *Service, userID uint, name string) *models.Category {
	t.Helper()
	cat, err := svc.CreateCategory(context.Background(), userID, CategoryInput{Name: name})
	if err != nil {
		t.Fatalf("CreateCategory(%q) failed: %v", name, err)
	}
	return cat
}

func TestCreateCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, 1, CategoryInput{Name: "  Groceries  "})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if cat.Name != "Groceries" {
		t.Errorf("expected trimmed name, got %q", cat.Name)
	}
	if cat.Color != models.DefaultCategoryColor {
		t.Errorf("expected default color, got %q", cat.Color)
	}

	invalidInputs := []CategoryInput{
		{Name: ""},
		{Name: "   "},
		{Name: "Rent", Color: "blue"},
	}
	for _, in := range invalidInputs {
		if _, err := svc.CreateCategory(ctx, 1, in); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("CreateCategory(%+v) expected ErrInvalidRequest, got %v", in, err)
		}
	}
}

func TestUpdateCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Food")

	updated, err := svc.UpdateCategory(ctx, 1, cat.ID, CategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if updated.Name != "Groceries" || updated.Color != models.DefaultCategoryColor {
		t.Errorf("unexpected category after update: %+v", updated)
	}

	if _, err := svc.UpdateCategory(ctx, 2, cat.ID, CategoryInput{Name: "Stolen"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound updating another user's category, got %v", err)
	}
}

func TestUpsertBudgetIsIdempotentPerPeriod(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestService(t, WithObserver(obs))
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Groceries")

	for _, v := range []int64{100, 250} {
		_, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(v), Month: 4, Year: 2025})
		if err != nil {
			t.Fatalf("UpsertBudget(%d) failed: %v", v, err)
		}
	}

	budgets, err := svc.ListBudgets(ctx, 1, BudgetQuery{Month: 4, Year: 2025})
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
	if !budgets[0].Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected latest amount 250, got %s", budgets[0].Amount)
	}
	if obs.upserts != 2 {
		t.Errorf("expected observer to see 2 upserts, got %d", obs.upserts)
	}

	t.Run("other month is a separate budget", func(t *testing.T) {
		if _, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(80), Month: 5, Year: 2025}); err != nil {
			t.Fatalf("UpsertBudget failed: %v", err)
		}
		all, err := svc.ListBudgets(ctx, 1, BudgetQuery{})
		if err != nil {
			t.Fatalf("ListBudgets failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(all))
		}
	})
}

func TestUpsertBudgetValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Groceries")

	tests := []struct {
		name    string
		in      BudgetInput
		wantErr error
	}{
		{"zero amount", BudgetInput{CategoryID: cat.ID, Amount: decimal.Zero, Month: 1, Year: 2025}, ErrInvalidRequest},
		{"negative amount", BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(-5), Month: 1, Year: 2025}, ErrInvalidRequest},
		{"sub-cent amount", BudgetInput{CategoryID: cat.ID, Amount: decimal.RequireFromString("0.001"), Month: 1, Year: 2025}, ErrInvalidRequest},
		{"amount too large", BudgetInput{CategoryID: cat.ID, Amount: decimal.RequireFromString("1e15"), Month: 1, Year: 2025}, ErrInvalidRequest},
		{"amount at column limit", BudgetInput{CategoryID: cat.ID, Amount: decimal.RequireFromString("10000000000"), Month: 1, Year: 2025}, ErrInvalidRequest},
		{"month out of range", BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(5), Month: 13, Year: 2025}, ErrInvalidRequest},
		{"missing category id", BudgetInput{Amount: decimal.NewFromInt(5), Month: 1, Year: 2025}, ErrInvalidRequest},
		{"unknown category", BudgetInput{CategoryID: 999, Amount: decimal.NewFromInt(5), Month: 1, Year: 2025}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpsertBudget(ctx, 1, tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("category of another user", func(t *testing.T) {
		_, err := svc.UpsertBudget(ctx, 2, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(5), Month: 1, Year: 2025})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreateExpenseReportsBudgetStatus(t *testing.T) {
	obs := &recordingObserver{}
	svc := newTestService(t, WithObserver(obs))
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Dining")
	other := mustCategory(t, svc, 1, "Travel")

	if _, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(30), Month: 3, Year: 2025}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}

	t.Run("over budget", func(t *testing.T) {
		expense, status, err := svc.CreateExpense(ctx, 1, ExpenseInput{
			CategoryID: cat.ID,
			Amount:     decimal.NewFromInt(40),
			Date:       "2025-03-10",
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == 0 {
			t.Error("expected expense to be stored")
		}
		if status.WithinBudget || status.Message != MessageOverBudget {
			t.Errorf("unexpected status %+v", status)
		}
		if status.Spent == nil || !status.Spent.Equal(decimal.NewFromInt(40)) {
			t.Errorf("spent = %v, want 40", status.Spent)
		}
		if status.Remaining == nil || !status.Remaining.Equal(decimal.NewFromInt(-10)) {
			t.Errorf("remaining = %v, want -10", status.Remaining)
		}
	})

	t.Run("expense in another month is not counted", func(t *testing.T) {
		_, status, err := svc.CreateExpense(ctx, 1, ExpenseInput{
			CategoryID: cat.ID,
			Amount:     decimal.NewFromInt(5),
			Date:       "2025-04-01",
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if !status.WithinBudget || status.Message != MessageNoBudget || status.Spent != nil {
			t.Errorf("expected no-budget status for April, got %+v", status)
		}
	})

	t.Run("category without budget", func(t *testing.T) {
		_, status, err := svc.CreateExpense(ctx, 1, ExpenseInput{
			CategoryID: other.ID,
			Amount:     decimal.NewFromInt(500),
			Date:       "2025-03-10",
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if !status.WithinBudget || status.Message != MessageNoBudget {
			t.Errorf("unexpected status %+v", status)
		}
		if status.Spent != nil || status.Budget != nil || status.Remaining != nil {
			t.Errorf("expected numeric fields to be absent, got %+v", status)
		}
	})

	if len(obs.statuses) != 3 {
		t.Errorf("expected observer to see 3 expenses, got %d", len(obs.statuses))
	}
}

func TestCreateExpenseDefaultsDateToNow(t *testing.T) {
	fixed := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, WithClock(func() time.Time { return fixed }))
	cat := mustCategory(t, svc, 1, "Misc")

	expense, _, err := svc.CreateExpense(context.Background(), 1, ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if !expense.Date.Equal(fixed) {
		t.Errorf("date = %v, want %v", expense.Date, fixed)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Misc")

	tests := []struct {
		name    string
		in      ExpenseInput
		wantErr error
	}{
		{"zero amount", ExpenseInput{CategoryID: cat.ID, Amount: decimal.Zero}, ErrInvalidRequest},
		{"negative amount", ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(-1)}, ErrInvalidRequest},
		{"sub-cent amount", ExpenseInput{CategoryID: cat.ID, Amount: decimal.RequireFromString("0.001")}, ErrInvalidRequest},
		{"amount too large", ExpenseInput{CategoryID: cat.ID, Amount: decimal.RequireFromString("1e15")}, ErrInvalidRequest},
		{"bad date", ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(1), Date: "10/03/2025"}, ErrInvalidRequest},
		{"missing category id", ExpenseInput{Amount: decimal.NewFromInt(1)}, ErrInvalidRequest},
		{"unknown category", ExpenseInput{CategoryID: 404, Amount: decimal.NewFromInt(1)}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.CreateExpense(ctx, 1, tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	all, err := svc.ListExpenses(ctx, 1, ExpenseQuery{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected rejected expenses not to be stored, got %d", len(all))
	}
}

func TestListExpensesFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, 1, "Food")
	fuel := mustCategory(t, svc, 1, "Fuel")

	for _, in := range []ExpenseInput{
		{CategoryID: food.ID, Amount: decimal.NewFromInt(1), Date: "2025-03-01"},
		{CategoryID: food.ID, Amount: decimal.NewFromInt(2), Date: "2025-04-01"},
		{CategoryID: fuel.ID, Amount: decimal.NewFromInt(3), Date: "2024-03-15"},
	} {
		if _, _, err := svc.CreateExpense(ctx, 1, in); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	tests := []struct {
		name string
		q    ExpenseQuery
		want int
	}{
		{"no filter", ExpenseQuery{}, 3},
		{"month only spans years", ExpenseQuery{Month: 3}, 2},
		{"year only", ExpenseQuery{Year: 2025}, 2},
		{"month and year", ExpenseQuery{Month: 3, Year: 2025}, 1},
		{"category", ExpenseQuery{CategoryID: fuel.ID}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListExpenses(ctx, 1, tt.q)
			if err != nil {
				t.Fatalf("ListExpenses failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d expenses, got %d", tt.want, len(got))
			}
		})
	}

	t.Run("newest first", func(t *testing.T) {
		got, _ := svc.ListExpenses(ctx, 1, ExpenseQuery{})
		for i := 1; i < len(got); i++ {
			if got[i].Date.After(got[i-1].Date) {
				t.Errorf("expenses not sorted by date desc: %v before %v", got[i-1].Date, got[i].Date)
			}
		}
	})
}

func TestOwnershipIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Private")
	budget, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(10), Month: 1, Year: 2025})
	if err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	expense, _, err := svc.CreateExpense(ctx, 1, ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(5), Date: "2025-01-05"})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	cats, _ := svc.ListCategories(ctx, 2)
	budgets, _ := svc.ListBudgets(ctx, 2, BudgetQuery{})
	expenses, _ := svc.ListExpenses(ctx, 2, ExpenseQuery{})
	if len(cats)+len(budgets)+len(expenses) != 0 {
		t.Errorf("user 2 sees user 1 data: %d categories, %d budgets, %d expenses", len(cats), len(budgets), len(expenses))
	}

	if _, err := svc.DeleteExpense(ctx, 2, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting foreign expense, got %v", err)
	}
	if _, err := svc.DeleteBudget(ctx, 2, budget.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting foreign budget, got %v", err)
	}
	if _, err := svc.DeleteCategory(ctx, 2, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting foreign category, got %v", err)
	}

	// the owner's data is untouched
	if got, _ := svc.ListExpenses(ctx, 1, ExpenseQuery{}); len(got) != 1 {
		t.Errorf("expected owner to keep 1 expense, got %d", len(got))
	}
}

func TestDeleteCategoryPolicies(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *Service) *models.Category {
		cat := mustCategory(t, svc, 1, "Groceries")
		if _, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(10), Month: 1, Year: 2025}); err != nil {
			t.Fatalf("UpsertBudget failed: %v", err)
		}
		if _, _, err := svc.CreateExpense(ctx, 1, ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(3), Date: "2025-01-02"}); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		return cat
	}

	t.Run("cascade removes budgets and expenses", func(t *testing.T) {
		svc := newTestService(t)
		cat := seed(t, svc)

		if _, err := svc.DeleteCategory(ctx, 1, cat.ID); err != nil {
			t.Fatalf("DeleteCategory failed: %v", err)
		}
		budgets, _ := svc.ListBudgets(ctx, 1, BudgetQuery{})
		expenses, _ := svc.ListExpenses(ctx, 1, ExpenseQuery{})
		if len(budgets) != 0 || len(expenses) != 0 {
			t.Errorf("expected no dangling rows, got %d budgets and %d expenses", len(budgets), len(expenses))
		}
	})

	t.Run("restrict refuses while referenced", func(t *testing.T) {
		svc := newTestService(t, WithDeletePolicy(DeleteRestrict))
		cat := seed(t, svc)

		_, err := svc.DeleteCategory(ctx, 1, cat.ID)
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if cats, _ := svc.ListCategories(ctx, 1); len(cats) != 1 {
			t.Errorf("expected category to survive, got %d", len(cats))
		}

		empty := mustCategory(t, svc, 1, "Unused")
		if _, err := svc.DeleteCategory(ctx, 1, empty.ID); err != nil {
			t.Errorf("expected unreferenced category to be deleted, got %v", err)
		}
	})
}

func TestMonthlyReport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	groceries := mustCategory(t, svc, 1, "Groceries")
	mustCategory(t, svc, 1, "Hobbies")

	if _, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: groceries.ID, Amount: decimal.NewFromInt(90), Month: 3, Year: 2025}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	for _, v := range []int64{50, 30, 20} {
		if _, _, err := svc.CreateExpense(ctx, 1, ExpenseInput{CategoryID: groceries.ID, Amount: decimal.NewFromInt(v), Date: "2025-03-12"}); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	report, err := svc.MonthlyReport(ctx, 1, Period{Month: 3, Year: 2025})
	if err != nil {
		t.Fatalf("MonthlyReport failed: %v", err)
	}
	if report.Month != 3 || report.Year != 2025 {
		t.Errorf("unexpected period %d/%d", report.Month, report.Year)
	}
	if len(report.Report) != 2 {
		t.Fatalf("expected a line per category, got %d", len(report.Report))
	}
	line := report.Report[0]
	if !line.Spent.Equal(decimal.NewFromInt(100)) || !line.Remaining.Equal(decimal.NewFromInt(-10)) || !line.IsOverBudget {
		t.Errorf("unexpected line %+v", line)
	}
	if !report.Report[1].Spent.IsZero() || report.Report[1].IsOverBudget {
		t.Errorf("expected empty line for Hobbies, got %+v", report.Report[1])
	}

	if _, err := svc.MonthlyReport(ctx, 1, Period{Month: 0, Year: 2025}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for month 0, got %v", err)
	}

	t.Run("report reads month in configured zone", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		if err != nil {
			t.Fatalf("load location: %v", err)
		}
		zoned := newTestService(t, WithLocation(tokyo))
		cat := mustCategory(t, zoned, 1, "Late night")
		// 2025-03-31T20:00Z is April 1 in Tokyo
		if _, _, err := zoned.CreateExpense(ctx, 1, ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(7), Date: "2025-03-31T20:00:00Z"}); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		march, _ := zoned.MonthlyReport(ctx, 1, Period{Month: 3, Year: 2025})
		april, _ := zoned.MonthlyReport(ctx, 1, Period{Month: 4, Year: 2025})
		if !march.Report[0].Spent.IsZero() || !april.Report[0].Spent.Equal(decimal.NewFromInt(7)) {
			t.Errorf("march spent %s, april spent %s", march.Report[0].Spent, april.Report[0].Spent)
		}
	})
}

func TestYearlyOverview(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Rent")

	for _, m := range []int{1, 2} {
		if _, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(100), Month: m, Year: 2025}); err != nil {
			t.Fatalf("UpsertBudget failed: %v", err)
		}
	}
	for _, d := range []string{"2025-01-03", "2025-02-03", "2025-02-20", "2024-12-31"} {
		if _, _, err := svc.CreateExpense(ctx, 1, ExpenseInput{CategoryID: cat.ID, Amount: decimal.NewFromInt(60), Date: d}); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	overview, err := svc.YearlyOverview(ctx, 1, 2025)
	if err != nil {
		t.Fatalf("YearlyOverview failed: %v", err)
	}
	if len(overview.Months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(overview.Months))
	}
	jan, feb, mar := overview.Months[0], overview.Months[1], overview.Months[2]
	if !jan.Spent.Equal(decimal.NewFromInt(60)) || jan.IsOverBudget {
		t.Errorf("unexpected January %+v", jan)
	}
	if !feb.Spent.Equal(decimal.NewFromInt(120)) || !feb.IsOverBudget {
		t.Errorf("unexpected February %+v", feb)
	}
	if !mar.Spent.IsZero() || !mar.Budget.IsZero() {
		t.Errorf("unexpected March %+v", mar)
	}
	if !overview.Spent.Equal(decimal.NewFromInt(180)) || !overview.Budget.Equal(decimal.NewFromInt(200)) {
		t.Errorf("totals spent=%s budget=%s, want 180/200", overview.Spent, overview.Budget)
	}
}

func TestAmountLimitsAccepted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, svc, 1, "Savings")

	for _, v := range []string{"0.01", "12.50", "12.500", "9999999999.99"} {
		t.Run(v, func(t *testing.T) {
			if _, err := svc.UpsertBudget(ctx, 1, BudgetInput{CategoryID: cat.ID, Amount: decimal.RequireFromString(v), Month: 1, Year: 2025}); err != nil {
				t.Errorf("UpsertBudget(%s) failed: %v", v, err)
			}
			if _, _, err := svc.CreateExpense(ctx, 1, ExpenseInput{CategoryID: cat.ID, Amount: decimal.RequireFromString(v), Date: "2025-01-10"}); err != nil {
				t.Errorf("CreateExpense(%s) failed: %v", v, err)
			}
		})
	}
}
