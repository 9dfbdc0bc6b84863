package postgres

import (
	"context"
	"fmt"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	cats := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&cat).Error; err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", translate(err))
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	res := s.db.WithContext(ctx).
		Model(category).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Updates(map[string]any{
			"name":  category.Name,
			"color": category.Color,
		})
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id uint, cascade bool) (*models.Category, error) {
	var cat models.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&cat).Error; err != nil {
			return translate(err)
		}

		if cascade {
			if err := tx.Where("category_id = ? AND user_id = ?", id, userID).Delete(&models.Budget{}).Error; err != nil {
				return fmt.Errorf("delete category budgets: %w", err)
			}
			if err := tx.Where("category_id = ? AND user_id = ?", id, userID).Delete(&models.Expense{}).Error; err != nil {
				return fmt.Errorf("delete category expenses: %w", err)
			}
		} else {
			var budgets, expenses int64
			if err := tx.Model(&models.Budget{}).Where("category_id = ?", id).Count(&budgets).Error; err != nil {
				return fmt.Errorf("count category budgets: %w", err)
			}
			if err := tx.Model(&models.Expense{}).Where("category_id = ?", id).Count(&expenses).Error; err != nil {
				return fmt.Errorf("count category expenses: %w", err)
			}
			if budgets+expenses > 0 {
				return storage.ErrInUse
			}
		}

		if err := tx.Delete(&models.Category{}, "id = ?", cat.ID).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}
