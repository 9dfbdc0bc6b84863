// Package storage defines the persistence contract for users, categories,
// budgets, expenses and audit entries. Every lookup and mutation of an
// owned entity is scoped by user id.
package storage

import (
	"context"
	"errors"
	"time"

	"budget-backend/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the (id, user) scope.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when a category still has budgets or expenses
	// and the caller asked not to cascade.
	ErrInUse = errors.New("record is still referenced")
)

// BudgetFilter narrows ListBudgets. Zero fields match everything.
type BudgetFilter struct {
	UserID     uint
	CategoryID uint
	Month      int
	Year       int
}

// ExpenseFilter narrows ListExpenses. From is inclusive and To exclusive;
// a zero time leaves that side open.
type ExpenseFilter struct {
	UserID     uint
	CategoryID uint
	From       time.Time
	To         time.Time
}

// AuditFilter narrows ListAuditLogs. Zero fields match everything.
type AuditFilter struct {
	UserID     uint
	EntityType string
	EntityID   uint
}

type UserStore interface {
	// CreateUser returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type CategoryStore interface {
	// ListCategories returns the user's categories in creation order.
	ListCategories(ctx context.Context, userID uint) ([]models.Category, error)
	GetCategory(ctx context.Context, userID, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	// UpdateCategory writes name and color of the (ID, UserID) row.
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory removes the category and returns it. With cascade the
	// category's budgets and expenses go with it in the same transaction;
	// without it ErrInUse is returned while any reference exists.
	DeleteCategory(ctx context.Context, userID, id uint, cascade bool) (*models.Category, error)
}

type BudgetStore interface {
	// ListBudgets returns matching budgets with Category loaded.
	ListBudgets(ctx context.Context, filter BudgetFilter) ([]models.Budget, error)
	FindBudget(ctx context.Context, userID, categoryID uint, month, year int) (*models.Budget, error)
	// UpsertBudget inserts the budget or overwrites the amount of the row
	// already holding its (user, category, month, year) key, in a single
	// write. On return budget carries the stored row with Category loaded.
	UpsertBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id uint) (*models.Budget, error)
}

type ExpenseStore interface {
	// ListExpenses returns matching expenses, newest date first, with
	// Category loaded.
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	// CreateExpense persists the expense and loads its Category.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, userID, id uint) (*models.Expense, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	// ListAuditLogs returns matching entries, newest first.
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error)
}

// Store is the full persistence surface used by the application.
type Store interface {
	UserStore
	CategoryStore
	BudgetStore
	ExpenseStore
	AuditStore

	// InTx runs fn against a store whose writes commit together or not at
	// all. fn must use the store it is given, not the receiver.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any resources held by the store.
	Close() error
}
