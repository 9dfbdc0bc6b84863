package budget

import (
	"fmt"
	"strconv"

	"budget-backend/internal/audit"
	"budget-backend/internal/auth"
	"budget-backend/internal/category"
	"budget-backend/internal/models"
	"budget-backend/internal/spending"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type BudgetResponse struct {
	ID         uint                      `json:"id"`
	CategoryID uint                      `json:"categoryId"`
	Category   category.CategoryResponse `json:"category"`
	Amount     decimal.Decimal           `json:"amount"`
	Month      int                       `json:"month"`
	Year       int                       `json:"year"`
}

func toResponse(b *models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Category:   category.ToResponse(&b.Category),
		Amount:     b.Amount,
		Month:      b.Month,
		Year:       b.Year,
	}
}

// GET /api/budgets?month=3&year=2025
func ListBudgetsHandler(svc *spending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		month, err := spending.ParseMonth(c.Query("month"))
		if err != nil {
			return err
		}
		year, err := spending.ParseYear(c.Query("year"))
		if err != nil {
			return err
		}

		budgets, err := svc.ListBudgets(c.UserContext(), userID, spending.BudgetQuery{Month: month, Year: year})
		if err != nil {
			return err
		}

		resp := make([]BudgetResponse, 0, len(budgets))
		for i := range budgets {
			resp = append(resp, toResponse(&budgets[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/budgets creates the budget or overwrites the amount of the
// existing one for the same category and month.
func UpsertBudgetHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body spending.BudgetInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		b, err := svc.UpsertBudget(c.UserContext(), userID, body)
		if err != nil {
			return err
		}

		resp := toResponse(b)
		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityBudget,
			EntityID:    b.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Budget set: %s %02d/%d = %s", b.Category.Name, b.Month, b.Year, b.Amount.StringFixed(2)),
			After:       resp,
		})
		return c.JSON(resp)
	}
}

// DELETE /api/budgets/:id
func DeleteBudgetHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid budget id")
		}

		b, err := svc.DeleteBudget(c.UserContext(), userID, uint(id))
		if err != nil {
			return err
		}

		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityBudget,
			EntityID:    b.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Budget deleted: %02d/%d", b.Month, b.Year),
			Before:      toResponse(b),
		})
		return c.JSON(fiber.Map{"message": "Budget deleted successfully"})
	}
}
