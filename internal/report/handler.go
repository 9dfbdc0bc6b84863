package report

import (
	"fmt"

	"budget-backend/internal/auth"
	"budget-backend/internal/spending"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func monthlyReport(c *fiber.Ctx, svc *spending.Service) (*spending.MonthlyReport, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return nil, err
	}
	p, err := spending.ParsePeriod(c.Query("month"), c.Query("year"))
	if err != nil {
		return nil, err
	}
	return svc.MonthlyReport(c.UserContext(), userID, p)
}

// GET /api/reports/monthly?month=3&year=2025
func MonthlyReportHandler(svc *spending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := monthlyReport(c, svc)
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/reports/monthly/export?month=3&year=2025
func ExportMonthlyReportHandler(svc *spending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := monthlyReport(c, svc)
		if err != nil {
			return err
		}

		data, err := BuildWorkbook(r)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, WorkbookFilename(spending.Period{Month: r.Month, Year: r.Year})))
		return c.Send(data)
	}
}

// GET /api/reports/yearly?year=2025
func YearlyOverviewHandler(svc *spending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		if c.Query("year") == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year is required")
		}
		year, err := spending.ParseYear(c.Query("year"))
		if err != nil {
			return err
		}

		overview, err := svc.YearlyOverview(c.UserContext(), userID, year)
		if err != nil {
			return err
		}
		return c.JSON(overview)
	}
}
