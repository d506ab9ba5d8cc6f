package models

import "github.com/shopspring/decimal"

// City is the user's yard/city. Funds grow with every inflow, population with XP.
type City struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string          `gorm:"uniqueIndex;not null" json:"user_id"`
	Funds      decimal.Decimal `json:"funds" gorm:"type:numeric(14,2);not null;default:0"`
	Population int64           `json:"population" gorm:"not null;default:0"`

	Timestamps
}
