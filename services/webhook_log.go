package services

import (
	"context"

	"savings-pet-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookLog records every aggregator notification in webhook_deliveries.
type WebhookLog struct {
	DB *gorm.DB
}

func NewWebhookLog(db *gorm.DB) *WebhookLog {
	return &WebhookLog{DB: db}
}

func (l *WebhookLog) Record(ctx context.Context, d *models.WebhookDelivery) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return l.DB.WithContext(ctx).Create(d).Error
}

// Recent returns the latest deliveries for an item, newest first.
func (l *WebhookLog) Recent(ctx context.Context, itemID string, limit int) ([]models.WebhookDelivery, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var out []models.WebhookDelivery
	err := l.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
