package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the spending ceiling of one category for one calendar month.
// At most one row exists per (user, category, month, year).
type Budget struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_budgets_period,priority:1"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_budgets_period,priority:2"`
	Category   Category
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Month      int             `gorm:"not null;uniqueIndex:idx_budgets_period,priority:3"` // 1-12
	Year       int             `gorm:"not null;uniqueIndex:idx_budgets_period,priority:4"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
