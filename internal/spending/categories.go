package spending

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"
)

const maxCategoryName = 100

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (in *CategoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)

	if in.Name == "" {
		return invalid("name is required")
	}
	if len(in.Name) > maxCategoryName {
		return invalid("name must be at most 100 characters")
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		return invalid("color must be a hex value like #3B82F6")
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, storeErr("list categories", err, "")
	}
	return cats, nil
}

func (s *Service) CreateCategory(ctx context.Context, userID uint, in CategoryInput) (*models.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = models.DefaultCategoryColor
	}

	cat := &models.Category{UserID: userID, Name: in.Name, Color: in.Color}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, storeErr("create category", err, "")
	}
	return cat, nil
}

// UpdateCategory renames and recolors a category. An empty color keeps the
// current one.
func (s *Service) UpdateCategory(ctx context.Context, userID, id uint, in CategoryInput) (*models.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var updated *models.Category
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		current, err := tx.GetCategory(ctx, userID, id)
		if err != nil {
			return err
		}
		current.Name = in.Name
		if in.Color != "" {
			current.Color = in.Color
		}
		if err := tx.UpdateCategory(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, storeErr("update category", err, "Category not found")
	}
	return updated, nil
}

// DeleteCategory applies the configured policy to the category's budgets
// and expenses.
func (s *Service) DeleteCategory(ctx context.Context, userID, id uint) (*models.Category, error) {
	cat, err := s.store.DeleteCategory(ctx, userID, id, s.policy != DeleteRestrict)
	if errors.Is(err, storage.ErrInUse) {
		return nil, &Error{Kind: ErrConflict, Message: "Category still has budgets or expenses"}
	}
	if err != nil {
		return nil, storeErr("delete category", err, "Category not found")
	}
	return cat, nil
}
