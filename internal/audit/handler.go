package audit

import (
	"encoding/json"
	"strconv"
	"time"

	"budget-backend/internal/auth"
	"budget-backend/internal/models"
	"budget-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   time.Time          `json:"createdAt"`
	EntityType  string             `json:"entityType"`
	EntityID    uint               `json:"entityId"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	Before      json.RawMessage    `json:"before"`
	After       json.RawMessage    `json:"after"`
}

func rawJSON(s string) json.RawMessage {
	if s == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(s)
}

// GET /api/audit-logs?entity_type=expense&entity_id=1
func ListAuditLogsHandler(r *Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		filter := storage.AuditFilter{
			UserID:     userID,
			EntityType: c.Query("entity_type"),
		}
		if s := c.Query("entity_id"); s != "" {
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil || id == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id must be a positive integer")
			}
			filter.EntityID = uint(id)
		}

		logs, err := r.List(c.UserContext(), filter)
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				Before:      rawJSON(l.BeforeData),
				After:       rawJSON(l.AfterData),
			})
		}
		return c.JSON(resp)
	}
}
