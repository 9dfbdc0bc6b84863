package postgres

import (
	"context"
	"fmt"
	"time"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"gorm.io/gorm/clause"
)

func (s *Store) ListBudgets(ctx context.Context, filter storage.BudgetFilter) ([]models.Budget, error) {
	dbq := s.db.WithContext(ctx).Model(&models.Budget{}).Preload("Category")

	if filter.UserID != 0 {
		dbq = dbq.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID != 0 {
		dbq = dbq.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Month != 0 {
		dbq = dbq.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		dbq = dbq.Where("year = ?", filter.Year)
	}

	budgets := make([]models.Budget, 0)
	if err := dbq.Order("id asc").Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *Store) FindBudget(ctx context.Context, userID, categoryID uint, month, year int) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// UpsertBudget relies on idx_budgets_period so that concurrent callers for
// the same period converge on one row.
func (s *Store) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	now := time.Now()
	row := models.Budget{
		UserID:     budget.UserID,
		CategoryID: budget.CategoryID,
		Amount:     budget.Amount,
		Month:      budget.Month,
		Year:       budget.Year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "category_id"},
			{Name: "month"},
			{Name: "year"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":     row.Amount,
			"updated_at": now,
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert budget: %w", translate(err))
	}

	var stored models.Budget
	if err := db.Preload("Category").First(&stored, "id = ?", row.ID).Error; err != nil {
		return fmt.Errorf("reload budget: %w", translate(err))
	}
	*budget = stored
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id uint) (*models.Budget, error) {
	var b models.Budget
	res := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&b)
	if res.Error != nil {
		return nil, fmt.Errorf("delete budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}
