package spending

import (
	"testing"
	"time"

	"budget-backend/internal/models"

	"github.com/shopspring/decimal"
)

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func expenseOn(categoryID uint, v int64, at time.Time) models.Expense {
	return models.Expense{CategoryID: categoryID, Amount: amount(v), Date: at}
}

func TestSpentIn(t *testing.T) {
	march := Period{Month: 3, Year: 2025}
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	tests := []struct {
		name     string
		expenses []models.Expense
		loc      *time.Location
		want     decimal.Decimal
	}{
		{
			name: "sums matching category in month",
			expenses: []models.Expense{
				expenseOn(1, 50, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
				expenseOn(1, 30, time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)),
				expenseOn(1, 20, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)),
			},
			loc:  time.UTC,
			want: amount(100),
		},
		{
			name: "ignores other categories",
			expenses: []models.Expense{
				expenseOn(1, 10, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)),
				expenseOn(2, 99, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)),
			},
			loc:  time.UTC,
			want: amount(10),
		},
		{
			name: "excludes neighbouring months and same month of other years",
			expenses: []models.Expense{
				expenseOn(1, 5, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)),
				expenseOn(1, 7, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)),
				expenseOn(1, 9, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
			},
			loc:  time.UTC,
			want: decimal.Zero,
		},
		{
			name: "month is read in the configured location",
			expenses: []models.Expense{
				// 22:30 UTC on Feb 28 is already March 1 in Istanbul (UTC+3)
				expenseOn(1, 40, time.Date(2025, 2, 28, 22, 30, 0, 0, time.UTC)),
			},
			loc:  istanbul,
			want: amount(40),
		},
		{
			name: "keeps decimal precision",
			expenses: []models.Expense{
				{CategoryID: 1, Amount: decimal.RequireFromString("0.10"), Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
				{CategoryID: 1, Amount: decimal.RequireFromString("0.20"), Date: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
			},
			loc:  time.UTC,
			want: decimal.RequireFromString("0.3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpentIn(tt.expenses, 1, march, tt.loc)
			if !got.Equal(tt.want) {
				t.Errorf("SpentIn = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	p := Period{Month: 6, Year: 2025}
	categories := []models.Category{
		{ID: 1, Name: "Groceries", Color: "#111111"},
		{ID: 2, Name: "Rent", Color: "#222222"},
		{ID: 3, Name: "Hobbies", Color: "#333333"},
	}
	budgets := []models.Budget{
		{CategoryID: 1, Amount: amount(90), Month: 6, Year: 2025},
		{CategoryID: 2, Amount: amount(1000), Month: 6, Year: 2025},
		// another month must not leak in
		{CategoryID: 3, Amount: amount(500), Month: 7, Year: 2025},
	}
	expenses := []models.Expense{
		expenseOn(1, 50, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
		expenseOn(1, 30, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)),
		expenseOn(1, 20, time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)),
		expenseOn(1, 999, time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC)),
		expenseOn(2, 1000, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
	}

	lines := BuildReport(categories, budgets, expenses, p, time.UTC)

	if len(lines) != len(categories) {
		t.Fatalf("expected %d lines, got %d", len(categories), len(lines))
	}
	for i, c := range categories {
		if lines[i].Category.ID != c.ID {
			t.Errorf("line %d category = %d, want %d", i, lines[i].Category.ID, c.ID)
		}
	}

	t.Run("over budget", func(t *testing.T) {
		l := lines[0]
		if !l.Spent.Equal(amount(100)) || !l.Budget.Equal(amount(90)) || !l.Remaining.Equal(amount(-10)) || !l.IsOverBudget {
			t.Errorf("got spent=%s budget=%s remaining=%s over=%v, want 100/90/-10/true",
				l.Spent, l.Budget, l.Remaining, l.IsOverBudget)
		}
		if l.Category.Name != "Groceries" || l.Category.Color != "#111111" {
			t.Errorf("unexpected category %+v", l.Category)
		}
	})

	t.Run("spending exactly the budget is not over", func(t *testing.T) {
		l := lines[1]
		if !l.Remaining.IsZero() || l.IsOverBudget {
			t.Errorf("got remaining=%s over=%v, want 0/false", l.Remaining, l.IsOverBudget)
		}
	})

	t.Run("category without expenses or budget", func(t *testing.T) {
		l := lines[2]
		if !l.Spent.IsZero() || !l.Budget.IsZero() || !l.Remaining.IsZero() || l.IsOverBudget {
			t.Errorf("got spent=%s budget=%s remaining=%s over=%v, want zeros",
				l.Spent, l.Budget, l.Remaining, l.IsOverBudget)
		}
	})

	t.Run("no categories", func(t *testing.T) {
		if got := BuildReport(nil, budgets, expenses, p, time.UTC); len(got) != 0 {
			t.Errorf("expected empty report, got %d lines", len(got))
		}
	})
}

func TestEvaluateStatus(t *testing.T) {
	budget := func(v int64) *models.Budget {
		return &models.Budget{Amount: amount(v)}
	}

	tests := []struct {
		name          string
		budget        *models.Budget
		spent         decimal.Decimal
		wantWithin    bool
		wantMessage   string
		wantRemaining *decimal.Decimal
	}{
		{
			name:        "no budget",
			budget:      nil,
			spent:       amount(40),
			wantWithin:  true,
			wantMessage: MessageNoBudget,
		},
		{
			name:          "under budget",
			budget:        budget(100),
			spent:         amount(40),
			wantWithin:    true,
			wantMessage:   MessageWithinBudget,
			wantRemaining: ptr(amount(60)),
		},
		{
			name:          "exactly at budget",
			budget:        budget(40),
			spent:         amount(40),
			wantWithin:    true,
			wantMessage:   MessageWithinBudget,
			wantRemaining: ptr(decimal.Zero),
		},
		{
			name:          "over budget",
			budget:        budget(30),
			spent:         amount(40),
			wantWithin:    false,
			wantMessage:   MessageOverBudget,
			wantRemaining: ptr(amount(-10)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateStatus(tt.budget, tt.spent)
			if got.WithinBudget != tt.wantWithin {
				t.Errorf("WithinBudget = %v, want %v", got.WithinBudget, tt.wantWithin)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if tt.wantRemaining == nil {
				if got.Spent != nil || got.Budget != nil || got.Remaining != nil {
					t.Errorf("expected numeric fields to be absent, got %+v", got)
				}
				return
			}
			if got.Remaining == nil || !got.Remaining.Equal(*tt.wantRemaining) {
				t.Errorf("Remaining = %v, want %s", got.Remaining, tt.wantRemaining)
			}
			if got.Spent == nil || !got.Spent.Equal(tt.spent) {
				t.Errorf("Spent = %v, want %s", got.Spent, tt.spent)
			}
			if got.Budget == nil || !got.Budget.Equal(tt.budget.Amount) {
				t.Errorf("Budget = %v, want %s", got.Budget, tt.budget.Amount)
			}
		})
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		month, year string
		want        Period
		wantErr     bool
	}{
		{month: "3", year: "2025", want: Period{Month: 3, Year: 2025}},
		{month: " 12 ", year: "2024", want: Period{Month: 12, Year: 2024}},
		{month: "", year: "2025", wantErr: true},
		{month: "3", year: "", wantErr: true},
		{month: "march", year: "2025", wantErr: true},
		{month: "13", year: "2025", wantErr: true},
		{month: "0", year: "2025", wantErr: true},
		{month: "3", year: "20x5", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.month, tt.year)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q, %q) expected error", tt.month, tt.year)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q, %q) unexpected error: %v", tt.month, tt.year, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q, %q) = %+v, want %+v", tt.month, tt.year, got, tt.want)
		}
	}
}

func TestPeriodBounds(t *testing.T) {
	from, to := Period{Month: 12, Year: 2024}.Bounds(time.UTC)
	if !from.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", to)
	}
}
