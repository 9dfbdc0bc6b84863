// Package server assembles the Fiber application: middleware, the central
// error handler and every route under /api.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"budget-backend/internal/audit"
	"budget-backend/internal/auth"
	"budget-backend/internal/budget"
	"budget-backend/internal/category"
	"budget-backend/internal/expense"
	"budget-backend/internal/metrics"
	"budget-backend/internal/middleware"
	"budget-backend/internal/report"
	"budget-backend/internal/spending"
	"budget-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

type Deps struct {
	Store       storage.Store
	Service     *spending.Service
	JWT         *auth.JWTManager
	Metrics     *metrics.Metrics
	CORSOrigins string

	// RequestTimeout bounds reading a request, writing its response and
	// the context handed to store calls. Zero means no limit.
	RequestTimeout time.Duration
}

// ErrorHandler renders every error as {"message": ...}. Core errors carry
// their own status; anything unrecognised is logged and hidden behind a
// generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, spending.ErrInvalidRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, spending.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, spending.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request timed out", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"message": "Request timed out"})
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("unexpected error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"message": "Internal server error"})
	}

	var se *spending.Error
	msg := err.Error()
	if errors.As(err, &se) {
		msg = se.Message
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "budget-backend",
		ErrorHandler: ErrorHandler,
		ReadTimeout:  d.RequestTimeout,
		WriteTimeout: d.RequestTimeout,
	})

	origins := strings.Split(d.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(d.Metrics.Middleware())
	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(middleware.RequestDeadline(d.RequestTimeout))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Budget Tracker API is running"})
	})
	app.Get("/metrics", d.Metrics.Handler())

	authn := auth.NewAuthenticator(d.Store)
	recorder := audit.NewRecorder(d.Store)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/signup", auth.SignupHandler(authn, d.JWT))
	api.Post("/auth/login", auth.LoginHandler(authn, d.JWT))

	// Protected
	protected := api.Group("", auth.JWTMiddleware(d.JWT))

	protected.Get("/auth/me", auth.MeHandler(d.Store))

	protected.Get("/categories", category.ListCategoriesHandler(d.Service))
	protected.Post("/categories", category.CreateCategoryHandler(d.Service, recorder))
	protected.Put("/categories/:id", category.UpdateCategoryHandler(d.Service, recorder))
	protected.Delete("/categories/:id", category.DeleteCategoryHandler(d.Service, recorder))

	protected.Get("/budgets", budget.ListBudgetsHandler(d.Service))
	protected.Post("/budgets", budget.UpsertBudgetHandler(d.Service, recorder))
	protected.Delete("/budgets/:id", budget.DeleteBudgetHandler(d.Service, recorder))

	protected.Get("/expenses", expense.ListExpensesHandler(d.Service))
	protected.Post("/expenses", expense.CreateExpenseHandler(d.Service, recorder))
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler(d.Service, recorder))

	protected.Get("/reports/monthly", report.MonthlyReportHandler(d.Service))
	protected.Get("/reports/monthly/export", report.ExportMonthlyReportHandler(d.Service))
	protected.Get("/reports/yearly", report.YearlyOverviewHandler(d.Service))

	protected.Get("/audit-logs", audit.ListAuditLogsHandler(recorder))

	return app
}
