package report

import (
	"bytes"
	"fmt"
	"time"

	"budget-backend/internal/spending"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "Report"
	colorHeader = "#3B82F6"
	colorOver   = "#FDE2E1"
)

var headers = []string{"Category", "Spent", "Budget", "Remaining", "Over budget"}

// WorkbookFilename is the download name of the monthly report workbook.
func WorkbookFilename(p spending.Period) string {
	return fmt.Sprintf("budget-report-%d-%02d.xlsx", p.Year, p.Month)
}

// BuildWorkbook renders a monthly report as an XLSX file: a title row, a
// header row, one row per category and a totals row.
func BuildWorkbook(r *spending.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	overStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 4,
		Fill:   excelize.Fill{Type: "pattern", Color: []string{colorOver}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Budget report %s %d", time.Month(r.Month), r.Year)
	if err := f.MergeCell(sheetName, "A1", "E1"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", titleStyle); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheetName, "A2", &headers); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A2", "E2", headerStyle); err != nil {
		return nil, err
	}

	row := 3
	for _, line := range r.Report {
		values := []any{
			line.Category.Name,
			line.Spent.InexactFloat64(),
			line.Budget.InexactFloat64(),
			line.Remaining.InexactFloat64(),
			yesNo(line.IsOverBudget),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}

		style := moneyStyle
		if line.IsOverBudget {
			style = overStyle
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), style); err != nil {
			return nil, err
		}
		row++
	}

	if len(r.Report) > 0 {
		last := row - 1
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total"); err != nil {
			return nil, err
		}
		for _, col := range []string{"B", "C", "D"} {
			formula := fmt.Sprintf("SUM(%s3:%s%d)", col, col, last)
			if err := f.SetCellFormula(sheetName, fmt.Sprintf("%s%d", col, row), formula); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), totalStyle); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "B", "D", 14)
	_ = f.SetColWidth(sheetName, "E", "E", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
