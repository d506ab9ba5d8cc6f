package models

import (
	"time"

	"gorm.io/gorm"
)

// XPPerLevel is the flat amount of XP between two consecutive levels.
const XPPerLevel = 500

// Profile tracks the player's progression (one row per user).
type Profile struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	CurrentXP int64 `json:"current_xp" gorm:"not null;default:0"`
	Level     int   `json:"level" gorm:"not null;default:1"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// LevelFor derives the level from total XP: floor(xp/500) + 1.
func LevelFor(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(xp/XPPerLevel) + 1
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
