package models

import "time"

type WebhookDeliveryStatus string

const (
	WebhookStatusIgnored   WebhookDeliveryStatus = "ignored"
	WebhookStatusProcessed WebhookDeliveryStatus = "processed"
	WebhookStatusNotFound  WebhookDeliveryStatus = "not_found"
	WebhookStatusFailed    WebhookDeliveryStatus = "failed"
)

// WebhookDelivery is an audit row for every notification received from the aggregator.
type WebhookDelivery struct {
	ID             string                `gorm:"primaryKey;type:uuid" json:"id"`
	WebhookType    string                `gorm:"type:varchar(64);not null" json:"webhook_type"`
	WebhookCode    string                `gorm:"type:varchar(64);not null" json:"webhook_code"`
	ItemID         string                `gorm:"index" json:"item_id"`
	Status         WebhookDeliveryStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	ProcessedCount int                   `json:"processed_count"`
	XPEarned       int64                 `json:"xp_earned"`
	Error          string                `gorm:"type:text" json:"error,omitempty"`
	ArchiveKey     string                `json:"archive_key,omitempty"`
	CreatedAt      time.Time             `json:"created_at" gorm:"autoCreateTime"`
}
