package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index;not null"`
	CategoryID  uint `gorm:"index;not null"`
	Category    Category
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Date        time.Time       `gorm:"index;not null"`
	Description string          `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
