package postgres

import (
	"context"
	"fmt"

	"budget-backend/internal/models"
	"budget-backend/internal/storage"
)

func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]models.AuditLog, error) {
	dbq := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.UserID != 0 {
		dbq = dbq.Where("user_id = ?", filter.UserID)
	}
	if filter.EntityType != "" {
		dbq = dbq.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		dbq = dbq.Where("entity_id = ?", filter.EntityID)
	}

	logs := make([]models.AuditLog, 0)
	if err := dbq.Order("created_at desc, id desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
