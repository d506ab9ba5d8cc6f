package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		wantXP     int64
		wantInflow bool
		wantMinor  int64
	}{
		{name: "inflow", amount: "-100", wantXP: 50, wantInflow: true, wantMinor: -10000},
		{name: "small purchase", amount: "15", wantXP: 5, wantMinor: 1500},
		{name: "just under small limit", amount: "19.99", wantXP: 5, wantMinor: 1999},
		{name: "small limit is exclusive", amount: "20", wantXP: 0, wantMinor: 2000},
		{name: "neutral band", amount: "55.10", wantXP: 0, wantMinor: 5510},
		{name: "large limit is exclusive", amount: "100", wantXP: 0, wantMinor: 10000},
		{name: "large purchase", amount: "150", wantXP: 0, wantMinor: 15000},
		{name: "just over large limit", amount: "100.01", wantXP: 0, wantMinor: 10001},
		{name: "zero", amount: "0", wantXP: 0, wantMinor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := RawTransaction{
				TransactionID: "tx-" + tt.name,
				Amount:        decimal.RequireFromString(tt.amount),
				Date:          "2024-03-05",
				Name:          "ACME",
			}
			c := Classify(tx)

			if c.XPAwarded != tt.wantXP {
				t.Errorf("XPAwarded = %d, want %d", c.XPAwarded, tt.wantXP)
			}
			if c.IsInflow != tt.wantInflow {
				t.Errorf("IsInflow = %v, want %v", c.IsInflow, tt.wantInflow)
			}
			if c.Entry.XPAwarded != tt.wantXP {
				t.Errorf("Entry.XPAwarded = %d, want %d", c.Entry.XPAwarded, tt.wantXP)
			}
			if c.Entry.AmountMinorUnits != tt.wantMinor {
				t.Errorf("AmountMinorUnits = %d, want %d", c.Entry.AmountMinorUnits, tt.wantMinor)
			}
			if !c.Entry.Amount.Equal(tx.Amount) {
				t.Errorf("Amount = %s, want %s", c.Entry.Amount, tx.Amount)
			}
		})
	}
}

func TestClassifyInflowAmountIsAbsolute(t *testing.T) {
	c := Classify(RawTransaction{TransactionID: "a", Amount: decimal.RequireFromString("-42.50")})
	if !c.InflowAmount.Equal(decimal.RequireFromString("42.50")) {
		t.Fatalf("InflowAmount = %s, want 42.50", c.InflowAmount)
	}

	c = Classify(RawTransaction{TransactionID: "b", Amount: decimal.NewFromInt(15)})
	if !c.InflowAmount.IsZero() {
		t.Fatalf("purchase InflowAmount = %s, want 0", c.InflowAmount)
	}
}

func TestClassifyCopiesFields(t *testing.T) {
	merchant := "Coffee Shop"
	tx := RawTransaction{
		TransactionID: "tx-42",
		Amount:        decimal.RequireFromString("4.75"),
		Date:          "2024-03-05",
		Name:          "COFFEE SHOP 123",
		MerchantName:  &merchant,
		Category:      []string{"Food and Drink", "Coffee"},
		Pending:       true,
	}

	e := Classify(tx).Entry
	if e.ID == "" {
		t.Error("entry ID not assigned")
	}
	if e.ExternalTransactionID != "tx-42" {
		t.Errorf("ExternalTransactionID = %q", e.ExternalTransactionID)
	}
	if e.Descriptor != "COFFEE SHOP 123" {
		t.Errorf("Descriptor = %q", e.Descriptor)
	}
	if e.Merchant == nil || *e.Merchant != merchant {
		t.Errorf("Merchant = %v, want %q", e.Merchant, merchant)
	}
	if e.Category != "Food and Drink,Coffee" {
		t.Errorf("Category = %q", e.Category)
	}
	if !e.Pending {
		t.Error("Pending not copied")
	}
	if got := e.OccurredOn.Format("2006-01-02"); got != "2024-03-05" {
		t.Errorf("OccurredOn = %s", got)
	}
	if e.UserID != "" || e.AccountID != "" {
		t.Error("Classify must leave ownership to the caller")
	}
}

func TestClassifyMissingMerchant(t *testing.T) {
	e := Classify(RawTransaction{TransactionID: "x", Amount: decimal.NewFromInt(-10), Date: "not-a-date"}).Entry
	if e.Merchant != nil {
		t.Errorf("Merchant = %v, want nil", e.Merchant)
	}
	if !e.OccurredOn.IsZero() {
		t.Errorf("OccurredOn = %v, want zero time for bad date", e.OccurredOn)
	}
}
