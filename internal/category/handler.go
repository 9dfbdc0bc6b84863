package category

import (
	"fmt"
	"strconv"
	"time"

	"budget-backend/internal/audit"
	"budget-backend/internal/auth"
	"budget-backend/internal/models"
	"budget-backend/internal/spending"

	"github.com/gofiber/fiber/v2"
)

type CategoryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
	}
	return uint(id), nil
}

// GET /api/categories
func ListCategoriesHandler(svc *spending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		cats, err := svc.ListCategories(c.UserContext(), userID)
		if err != nil {
			return err
		}

		resp := make([]CategoryResponse, 0, len(cats))
		for i := range cats {
			resp = append(resp, ToResponse(&cats[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/categories
func CreateCategoryHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body spending.CategoryInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		cat, err := svc.CreateCategory(c.UserContext(), userID, body)
		if err != nil {
			return err
		}

		resp := ToResponse(cat)
		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityCategory,
			EntityID:    cat.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Category created: %s", cat.Name),
			After:       resp,
		})
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body spending.CategoryInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		cat, err := svc.UpdateCategory(c.UserContext(), userID, id, body)
		if err != nil {
			return err
		}

		resp := ToResponse(cat)
		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityCategory,
			EntityID:    cat.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Category updated: %s", cat.Name),
			After:       resp,
		})
		return c.JSON(resp)
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c)
		if err != nil {
			return err
		}

		cat, err := svc.DeleteCategory(c.UserContext(), userID, id)
		if err != nil {
			return err
		}

		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityCategory,
			EntityID:    cat.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Category deleted: %s", cat.Name),
			Before:      ToResponse(cat),
		})
		return c.JSON(fiber.Map{"message": "Category deleted successfully"})
	}
}
