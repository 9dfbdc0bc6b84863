package spending

import (
	"context"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"github.com/shopspring/decimal"
)

type BudgetInput struct {
	CategoryID uint            `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
}

func (in BudgetInput) validate() error {
	if in.CategoryID == 0 {
		return invalid("categoryId is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	return Period{Month: in.Month, Year: in.Year}.Validate()
}

// BudgetQuery filters ListBudgets; zero fields are ignored.
type BudgetQuery struct {
	Month int
	Year  int
}

func (s *Service) ListBudgets(ctx context.Context, userID uint, q BudgetQuery) ([]models.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, storage.BudgetFilter{
		UserID: userID,
		Month:  q.Month,
		Year:   q.Year,
	})
	if err != nil {
		return nil, storeErr("list budgets", err, "")
	}
	return budgets, nil
}

// UpsertBudget sets the budget of a category for one month. An existing
// budget for the same (category, month, year) has its amount overwritten.
func (s *Service) UpsertBudget(ctx context.Context, userID uint, in BudgetInput) (*models.Budget, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Month:      in.Month,
		Year:       in.Year,
	}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetCategory(ctx, userID, in.CategoryID); err != nil {
			return err
		}
		return tx.UpsertBudget(ctx, budget)
	})
	if err != nil {
		return nil, storeErr("upsert budget", err, "Category not found")
	}

	s.observer.BudgetUpserted()
	return budget, nil
}

func (s *Service) DeleteBudget(ctx context.Context, userID, id uint) (*models.Budget, error) {
	b, err := s.store.DeleteBudget(ctx, userID, id)
	if err != nil {
		return nil, storeErr("delete budget", err, "Budget not found")
	}
	return b, nil
}
