// Package memory is an in-process implementation of storage.Store for
// development and tests. Data lives only as long as the process.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"
)

// MemoryStore implements storage.Store with maps guarded by a RWMutex.
// Records are stored by value so callers never share memory with it.
type MemoryStore struct {
	mu sync.RWMutex
	// txMu is held by every writer and for the whole of InTx, so a
	// transaction never commits over a concurrent write.
	txMu sync.Mutex

	nextID     uint
	users      map[uint]models.User
	categories map[uint]models.Category
	budgets    map[uint]models.Budget
	expenses   map[uint]models.Expense
	auditLogs  map[uint]models.AuditLog

	now func() time.Time
}

var _ storage.Store = (*MemoryStore)(nil)

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]models.User),
		categories: make(map[uint]models.Category),
		budgets:    make(map[uint]models.Budget),
		expenses:   make(map[uint]models.Expense),
		auditLogs:  make(map[uint]models.AuditLog),
		now:        time.Now,
	}
}

func (m *MemoryStore) lockWrite() {
	m.txMu.Lock()
	m.mu.Lock()
}

func (m *MemoryStore) unlockWrite() {
	m.mu.Unlock()
	m.txMu.Unlock()
}

func (m *MemoryStore) id() uint {
	m.nextID++
	return m.nextID
}

// Users

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.lockWrite()
	defer m.unlockWrite()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return storage.ErrDuplicate
		}
	}

	now := m.now()
	user.ID = m.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

// Categories

func (m *MemoryStore) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0)
	for _, c := range m.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetCategory(ctx context.Context, userID, id uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) CreateCategory(ctx context.Context, category *models.Category) error {
	m.lockWrite()
	defer m.unlockWrite()

	now := m.now()
	category.ID = m.id()
	category.CreatedAt = now
	category.UpdatedAt = now
	m.categories[category.ID] = *category
	return nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	m.lockWrite()
	defer m.unlockWrite()

	existing, ok := m.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return storage.ErrNotFound
	}

	existing.Name = category.Name
	existing.Color = category.Color
	existing.UpdatedAt = m.now()
	m.categories[existing.ID] = existing
	*category = existing
	return nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, userID, id uint, cascade bool) (*models.Category, error) {
	m.lockWrite()
	defer m.unlockWrite()

	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}

	var budgetIDs, expenseIDs []uint
	for bid, b := range m.budgets {
		if b.CategoryID == id && b.UserID == userID {
			budgetIDs = append(budgetIDs, bid)
		}
	}
	for eid, e := range m.expenses {
		if e.CategoryID == id && e.UserID == userID {
			expenseIDs = append(expenseIDs, eid)
		}
	}

	if !cascade && len(budgetIDs)+len(expenseIDs) > 0 {
		return nil, storage.ErrInUse
	}

	for _, bid := range budgetIDs {
		delete(m.budgets, bid)
	}
	for _, eid := range expenseIDs {
		delete(m.expenses, eid)
	}
	delete(m.categories, id)
	return &c, nil
}

// Budgets

func (m *MemoryStore) ListBudgets(ctx context.Context, filter storage.BudgetFilter) ([]models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Budget, 0)
	for _, b := range m.budgets {
		if filter.UserID != 0 && b.UserID != filter.UserID {
			continue
		}
		if filter.CategoryID != 0 && b.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Month != 0 && b.Month != filter.Month {
			continue
		}
		if filter.Year != 0 && b.Year != filter.Year {
			continue
		}
		b.Category = m.categories[b.CategoryID]
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) FindBudget(ctx context.Context, userID, categoryID uint, month, year int) (*models.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.findBudgetLocked(userID, categoryID, month, year)
	if !ok {
		return nil, storage.ErrNotFound
	}
	b.Category = m.categories[b.CategoryID]
	return &b, nil
}

func (m *MemoryStore) findBudgetLocked(userID, categoryID uint, month, year int) (models.Budget, bool) {
	for _, b := range m.budgets {
		if b.UserID == userID && b.CategoryID == categoryID && b.Month == month && b.Year == year {
			return b, true
		}
	}
	return models.Budget{}, false
}

func (m *MemoryStore) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	m.lockWrite()
	defer m.unlockWrite()

	now := m.now()
	row, ok := m.findBudgetLocked(budget.UserID, budget.CategoryID, budget.Month, budget.Year)
	if ok {
		row.Amount = budget.Amount
		row.UpdatedAt = now
	} else {
		row = *budget
		row.ID = m.id()
		row.CreatedAt = now
		row.UpdatedAt = now
	}
	row.Category = models.Category{}
	m.budgets[row.ID] = row

	row.Category = m.categories[row.CategoryID]
	*budget = row
	return nil
}

func (m *MemoryStore) DeleteBudget(ctx context.Context, userID, id uint) (*models.Budget, error) {
	m.lockWrite()
	defer m.unlockWrite()

	b, ok := m.budgets[id]
	if !ok || b.UserID != userID {
		return nil, storage.ErrNotFound
	}
	delete(m.budgets, id)
	return &b, nil
}

// Expenses

func (m *MemoryStore) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Expense, 0)
	for _, e := range m.expenses {
		if filter.UserID != 0 && e.UserID != filter.UserID {
			continue
		}
		if filter.CategoryID != 0 && e.CategoryID != filter.CategoryID {
			continue
		}
		if !filter.From.IsZero() && e.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.Date.Before(filter.To) {
			continue
		}
		e.Category = m.categories[e.CategoryID]
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	m.lockWrite()
	defer m.unlockWrite()

	now := m.now()
	expense.ID = m.id()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	row := *expense
	row.Category = models.Category{}
	m.expenses[row.ID] = row

	expense.Category = m.categories[expense.CategoryID]
	return nil
}

func (m *MemoryStore) DeleteExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	m.lockWrite()
	defer m.unlockWrite()

	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return nil, storage.ErrNotFound
	}
	delete(m.expenses, id)
	return &e, nil
}

// Audit

func (m *MemoryStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	m.lockWrite()
	defer m.unlockWrite()

	entry.ID = m.id()
	entry.CreatedAt = m.now()
	m.auditLogs[entry.ID] = *entry
	return nil
}

func (m *MemoryStore) ListAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.AuditLog, 0)
	for _, l := range m.auditLogs {
		if filter.UserID != 0 && l.UserID != filter.UserID {
			continue
		}
		if filter.EntityType != "" && l.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != 0 && l.EntityID != filter.EntityID {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Transactions

// InTx runs fn against a private copy of the store and commits the copy
// only if fn succeeds. Readers keep seeing the committed state meanwhile;
// writers outside the transaction wait for it to finish.
func (m *MemoryStore) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	tx := &MemoryStore{
		nextID:     m.nextID,
		users:      maps.Clone(m.users),
		categories: maps.Clone(m.categories),
		budgets:    maps.Clone(m.budgets),
		expenses:   maps.Clone(m.expenses),
		auditLogs:  maps.Clone(m.auditLogs),
		now:        m.now,
	}
	m.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.nextID = tx.nextID
	m.users = tx.users
	m.categories = tx.categories
	m.budgets = tx.budgets
	m.expenses = tx.expenses
	m.auditLogs = tx.auditLogs
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
