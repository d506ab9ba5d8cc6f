package models

import "time"

// BankAccount is one linked bank connection (an aggregator "item").
// The access token is never serialized.
type BankAccount struct {
	ID              string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string     `gorm:"index;not null" json:"user_id"`
	ItemID          string     `gorm:"uniqueIndex;not null" json:"item_id"`
	AccessToken     string     `gorm:"not null" json:"-"`
	InstitutionName string     `json:"institution_name"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`

	Timestamps
}
