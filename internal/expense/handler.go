package expense

import (
	"fmt"
	"strconv"
	"time"

	"budget-backend/internal/audit"
	"budget-backend/internal/auth"
	"budget-backend/internal/category"
	"budget-backend/internal/models"
	"budget-backend/internal/spending"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ExpenseResponse struct {
	ID          uint                      `json:"id"`
	CategoryID  uint                      `json:"categoryId"`
	Category    category.CategoryResponse `json:"category"`
	Amount      decimal.Decimal           `json:"amount"`
	Date        time.Time                 `json:"date"`
	Description string                    `json:"description"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

type CreateExpenseResponse struct {
	Expense      ExpenseResponse       `json:"expense"`
	BudgetStatus spending.BudgetStatus `json:"budgetStatus"`
}

func toResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Category:    category.ToResponse(&e.Category),
		Amount:      e.Amount,
		Date:        e.Date,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// GET /api/expenses?month=3&year=2025&categoryId=1
func ListExpensesHandler(svc *spending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var q spending.ExpenseQuery
		if q.Month, err = spending.ParseMonth(c.Query("month")); err != nil {
			return err
		}
		if q.Year, err = spending.ParseYear(c.Query("year")); err != nil {
			return err
		}
		if s := c.Query("categoryId"); s != "" {
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "categoryId must be a positive integer")
			}
			q.CategoryID = uint(id)
		}

		expenses, err := svc.ListExpenses(c.UserContext(), userID, q)
		if err != nil {
			return err
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for i := range expenses {
			resp = append(resp, toResponse(&expenses[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/expenses records the expense and reports where its category
// stands against the month's budget.
func CreateExpenseHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body spending.ExpenseInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		e, status, err := svc.CreateExpense(c.UserContext(), userID, body)
		if err != nil {
			return err
		}

		resp := toResponse(e)
		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityExpense,
			EntityID:    e.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Expense added: %s %s", e.Category.Name, e.Amount.StringFixed(2)),
			After:       resp,
		})
		return c.Status(fiber.StatusCreated).JSON(CreateExpenseResponse{Expense: resp, BudgetStatus: status})
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler(svc *spending.Service, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		e, err := svc.DeleteExpense(c.UserContext(), userID, uint(id))
		if err != nil {
			return err
		}

		rec.Record(c.UserContext(), audit.LogOptions{
			UserID:      userID,
			EntityType:  audit.EntityExpense,
			EntityID:    e.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Expense deleted: %s", e.Amount.StringFixed(2)),
			Before:      toResponse(e),
		})
		return c.JSON(fiber.Map{"message": "Expense deleted successfully"})
	}
}
