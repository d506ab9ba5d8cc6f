package services

import (
	"strings"

	"savings-pet-system/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// XP rewards per transaction.
const (
	InflowXP        int64 = 50
	SmallPurchaseXP int64 = 5
)

var (
	smallPurchaseLimit = decimal.NewFromInt(20)
	largePurchaseLimit = decimal.NewFromInt(100)
)

// Classification is the outcome of classifying one raw transaction.
type Classification struct {
	Entry        *models.LedgerEntry
	XPAwarded    int64
	IsInflow     bool
	InflowAmount decimal.Decimal
}

// Classify maps a raw aggregator transaction to a ledger entry and its reward.
// Rules, first match wins for XP:
//
//	amount < 0        inflow, 50 XP, inflow amount = |amount|
//	0 < amount < 20   small purchase, 5 XP
//	amount > 100      large purchase, 0 XP
//	anything else     0 XP
//
// It never fails; the caller fills in UserID and AccountID.
func Classify(tx RawTransaction) Classification {
	c := Classification{InflowAmount: decimal.Zero}

	switch {
	case tx.Amount.IsNegative():
		c.XPAwarded = InflowXP
		c.IsInflow = true
		c.InflowAmount = tx.Amount.Abs()
	case tx.Amount.IsPositive() && tx.Amount.LessThan(smallPurchaseLimit):
		c.XPAwarded = SmallPurchaseXP
	case tx.Amount.GreaterThan(largePurchaseLimit):
		// TODO: large purchases should lower pet health once the penalty rules are agreed on.
		c.XPAwarded = 0
	default:
		c.XPAwarded = 0
	}

	c.Entry = &models.LedgerEntry{
		ID:                    uuid.NewString(),
		ExternalTransactionID: tx.TransactionID,
		Amount:                tx.Amount,
		AmountMinorUnits:      tx.Amount.Shift(2).Round(0).IntPart(),
		OccurredOn:            tx.OccurredOn(),
		Descriptor:            tx.Name,
		Merchant:              tx.MerchantName,
		Category:              strings.Join(tx.Category, ","),
		Pending:               tx.Pending,
		XPAwarded:             c.XPAwarded,
	}
	return c
}
