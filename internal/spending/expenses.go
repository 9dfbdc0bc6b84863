package spending

import (
	"context"
	"errors"
	"strings"
	"time"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"github.com/shopspring/decimal"
)

const maxDescription = 255

type ExpenseInput struct {
	CategoryID uint            `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	// Date is RFC 3339 or YYYY-MM-DD; empty means now.
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (in *ExpenseInput) validate() error {
	in.Description = strings.TrimSpace(in.Description)
	if in.CategoryID == 0 {
		return invalid("categoryId is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	if len(in.Description) > maxDescription {
		return invalid("description must be at most 255 characters")
	}
	return nil
}

// ExpenseQuery filters ListExpenses; zero fields are ignored.
type ExpenseQuery struct {
	Month      int
	Year       int
	CategoryID uint
}

// parseDate accepts a full timestamp or a calendar date; a calendar date
// is midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, invalid("date must be YYYY-MM-DD or RFC 3339")
}

// ListExpenses returns the user's expenses newest first. The category
// filter is applied by the store, month and year afterwards.
func (s *Service) ListExpenses(ctx context.Context, userID uint, q ExpenseQuery) ([]models.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{
		UserID:     userID,
		CategoryID: q.CategoryID,
	})
	if err != nil {
		return nil, storeErr("list expenses", err, "")
	}
	if q.Month == 0 && q.Year == 0 {
		return expenses, nil
	}

	filtered := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		at := PeriodOf(e.Date, s.loc)
		if q.Month != 0 && at.Month != q.Month {
			continue
		}
		if q.Year != 0 && at.Year != q.Year {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// CreateExpense records an expense and returns it with the budget status of
// its category for the expense's month, counting the new expense. The
// status never prevents the expense from being stored. Expense and status
// are read in one transaction, so a failed status read leaves no expense.
func (s *Service) CreateExpense(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, BudgetStatus, error) {
	if err := in.validate(); err != nil {
		return nil, BudgetStatus{}, err
	}

	date := s.now()
	if strings.TrimSpace(in.Date) != "" {
		d, err := parseDate(in.Date, s.loc)
		if err != nil {
			return nil, BudgetStatus{}, err
		}
		date = d
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Date:        date,
		Description: in.Description,
	}

	var status BudgetStatus
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetCategory(ctx, userID, in.CategoryID); err != nil {
			return err
		}
		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}

		st, err := s.statusFor(ctx, tx, userID, in.CategoryID, PeriodOf(expense.Date, s.loc))
		if err != nil {
			return err
		}
		status = st
		return nil
	})
	if err != nil {
		return nil, BudgetStatus{}, storeErr("create expense", err, "Category not found")
	}

	s.observer.ExpenseCreated(status)
	return expense, status, nil
}

// statusFor evaluates the category's spend for p against its budget.
func (s *Service) statusFor(ctx context.Context, st storage.Store, userID, categoryID uint, p Period) (BudgetStatus, error) {
	budget, err := st.FindBudget(ctx, userID, categoryID, p.Month, p.Year)
	if errors.Is(err, storage.ErrNotFound) {
		return EvaluateStatus(nil, decimal.Zero), nil
	}
	if err != nil {
		return BudgetStatus{}, err
	}

	from, to := p.Bounds(s.loc)
	expenses, err := st.ListExpenses(ctx, storage.ExpenseFilter{
		UserID:     userID,
		CategoryID: categoryID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return BudgetStatus{}, err
	}
	return EvaluateStatus(budget, SpentIn(expenses, categoryID, p, s.loc)), nil
}

func (s *Service) DeleteExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	e, err := s.store.DeleteExpense(ctx, userID, id)
	if err != nil {
		return nil, storeErr("delete expense", err, "Expense not found")
	}
	return e, nil
}
