package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one processed bank transaction. Rows are append-only:
// created once by ingestion, never updated or deleted.
//
// Amount keeps the aggregator's sign convention: negative means money
// entered the account, positive means money was spent.
type LedgerEntry struct {
	ID                    string          `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalTransactionID string          `gorm:"uniqueIndex;not null" json:"external_transaction_id"`
	UserID                string          `gorm:"index;not null" json:"user_id"`
	AccountID             string          `gorm:"index;not null" json:"account_id"`
	Amount                decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	AmountMinorUnits      int64           `gorm:"not null" json:"amount_minor_units"`
	OccurredOn            time.Time       `gorm:"type:date;index" json:"occurred_on"`
	Descriptor            string          `json:"descriptor"`
	Merchant              *string         `json:"merchant,omitempty"`
	Category              string          `json:"category"`
	Pending               bool            `gorm:"not null;default:false" json:"pending"`
	XPAwarded             int64           `gorm:"not null;default:0" json:"xp_awarded"`
	CreatedAt             time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the ledger in the "transactions" table.
func (LedgerEntry) TableName() string {
	return "transactions"
}
