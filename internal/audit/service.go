package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"
)

const (
	EntityCategory = "category"
	EntityBudget   = "budget"
	EntityExpense  = "expense"
)

type LogOptions struct {
	UserID      uint
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Recorder writes audit entries. Failures are logged and never returned:
// the audited write has already succeeded by the time Record runs.
type Recorder struct {
	store storage.AuditStore
}

func NewRecorder(store storage.AuditStore) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, opts LogOptions) {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := r.store.CreateAuditLog(ctx, &entry); err != nil {
		slog.Warn("audit log write failed",
			"user_id", opts.UserID,
			"entity_type", opts.EntityType,
			"entity_id", opts.EntityID,
			"action", opts.Action,
			"error", err,
		)
	}
}

// snapshot renders v for a jsonb column; Postgres rejects an empty string
// there, so nil and unmarshalable values become "null".
func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func (r *Recorder) List(ctx context.Context, filter storage.AuditFilter) ([]models.AuditLog, error) {
	return r.store.ListAuditLogs(ctx, filter)
}
