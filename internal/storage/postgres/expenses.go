package postgres

import (
	"context"
	"fmt"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"gorm.io/gorm/clause"
)

func (s *Store) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]models.Expense, error) {
	dbq := s.db.WithContext(ctx).Model(&models.Expense{}).Preload("Category")

	if filter.UserID != 0 {
		dbq = dbq.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID != 0 {
		dbq = dbq.Where("category_id = ?", filter.CategoryID)
	}
	if !filter.From.IsZero() {
		dbq = dbq.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		dbq = dbq.Where("date < ?", filter.To)
	}

	expenses := make([]models.Expense, 0)
	if err := dbq.Order("date desc, id desc").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(expense).Error; err != nil {
		return fmt.Errorf("create expense: %w", translate(err))
	}
	if err := db.First(&expense.Category, "id = ?", expense.CategoryID).Error; err != nil {
		return fmt.Errorf("load expense category: %w", translate(err))
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	var e models.Expense
	res := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&e)
	if res.Error != nil {
		return nil, fmt.Errorf("delete expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}
