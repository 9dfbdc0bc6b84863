// Package spending holds the budget-vs-expense rules: per-user category,
// budget and expense operations, the monthly aggregation and the budget
// status evaluated when an expense is recorded.
package spending

import (
	"errors"
	"fmt"
	"time"

	"budget-backend/internal/storage"
)

// DeletePolicy decides what happens to budgets and expenses of a deleted
// category.
type DeletePolicy string

const (
	DeleteCascade  DeletePolicy = "cascade"
	DeleteRestrict DeletePolicy = "restrict"
)

// Observer is notified of completed writes. Implementations must not block.
type Observer interface {
	ExpenseCreated(status BudgetStatus)
	BudgetUpserted()
}

type nopObserver struct{}

func (nopObserver) ExpenseCreated(BudgetStatus) {}
func (nopObserver) BudgetUpserted()             {}

type Service struct {
	store    storage.Store
	loc      *time.Location
	policy   DeletePolicy
	observer Observer
	now      func() time.Time
}

type Option func(*Service)

// WithLocation sets the zone expense dates are read in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDeletePolicy sets the category delete policy. Default cascade.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the time source used for defaulted expense dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		loc:      time.UTC,
		policy:   DeleteCascade,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone expense dates are read in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// storeErr converts storage errors to the package taxonomy. ErrNotFound
// gets the caller's message; anything unexpected becomes ErrStoreFailure.
func storeErr(op string, err error, missing string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return notFound(missing)
	default:
		var e *Error
		if errors.As(err, &e) {
			return err
		}
		return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
	}
}
