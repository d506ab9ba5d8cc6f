package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"savings-pet-system/utils"

	"github.com/shopspring/decimal"
)

const (
	DefaultIngestCount = 50
	DefaultWindowDays  = 30

	// MaxIngestCount is the largest page the aggregator accepts for options.count.
	MaxIngestCount = 500
)

// IngestResult summarizes one ingestion call.
type IngestResult struct {
	UserID            string          `json:"user_id"`
	Fetched           int             `json:"fetched"`
	ProcessedCount    int             `json:"processed"`
	Skipped           int             `json:"skipped"`
	TotalXPEarned     int64           `json:"xp_earned"`
	TotalInflowAmount decimal.Decimal `json:"inflow_amount"`
	State             *GameState      `json:"state,omitempty"`
}

// IngestionService turns aggregator transactions into ledger entries and game rewards.
// Ledger serves the account lookup and sync stamp; the batch itself runs inside UnitOfWork.
type IngestionService struct {
	Ledger       LedgerStore
	UnitOfWork   UnitOfWork
	Fetcher      TransactionFetcher
	DefaultCount int
	WindowDays   int
	Now          func() time.Time

	userLocks *utils.KeyedMutex
}

func NewIngestionService(ledger LedgerStore, uow UnitOfWork, fetcher TransactionFetcher) *IngestionService {
	return &IngestionService{
		Ledger:       ledger,
		UnitOfWork:   uow,
		Fetcher:      fetcher,
		DefaultCount: DefaultIngestCount,
		WindowDays:   DefaultWindowDays,
		Now:          time.Now,
		userLocks:    utils.NewKeyedMutex(),
	}
}

// Ingest processes the rolling window of transactions for one linked item.
//
// The whole call is serialized per user so two deliveries for the same user
// cannot double-count rewards. Re-fetching the full window on every call is
// how redelivered notifications are deduplicated. Ledger inserts and the
// batch reward commit together, so a failed batch can be retried as a whole.
func (s *IngestionService) Ingest(ctx context.Context, itemID string, requestedCount int) (*IngestResult, error) {
	account, err := s.Ledger.FindAccountByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	unlock := s.userLocks.Lock(account.UserID)
	defer unlock()

	count := s.fetchCount(requestedCount)
	end, start := s.window()

	raw, err := s.Fetcher.FetchTransactions(ctx, account.AccessToken, start, end, count)
	if err != nil {
		if !errors.Is(err, ErrUpstreamFetch) {
			err = fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
		}
		return nil, err
	}

	var result *IngestResult
	err = s.UnitOfWork.Do(ctx, func(ledger LedgerStore, state GameStateStore) error {
		result = &IngestResult{
			UserID:            account.UserID,
			Fetched:           len(raw),
			TotalInflowAmount: decimal.Zero,
		}

		for _, tx := range raw {
			exists, err := ledger.Exists(ctx, tx.TransactionID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			if exists {
				result.Skipped++
				continue
			}

			c := Classify(tx)
			c.Entry.UserID = account.UserID
			c.Entry.AccountID = account.ID

			if err := ledger.Insert(ctx, c.Entry); err != nil {
				if errors.Is(err, ErrLedgerConflict) {
					// lost a race with another writer; that writer owns the reward
					result.Skipped++
					continue
				}
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}

			result.ProcessedCount++
			result.TotalXPEarned += c.XPAwarded
			if c.IsInflow {
				result.TotalInflowAmount = result.TotalInflowAmount.Add(c.InflowAmount)
			}
		}

		reward := BatchReward{XP: result.TotalXPEarned, Inflow: result.TotalInflowAmount}
		if reward.IsEmpty() {
			return nil
		}
		updated, err := state.ApplyBatchReward(ctx, account.UserID, reward)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		result.State = updated
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		log.Printf("[INGEST] ❌ item=%s user=%s batch rolled back: %v", itemID, account.UserID, err)
		return nil, err
	}

	if err := s.Ledger.MarkSynced(ctx, account.ID, s.Now()); err != nil {
		log.Printf("[INGEST] ⚠️ Failed to stamp last sync for account %s: %v", account.ID, err)
	}

	log.Printf("[INGEST] ✅ item=%s user=%s fetched=%d processed=%d skipped=%d xp=%d inflow=%s",
		itemID, account.UserID, result.Fetched, result.ProcessedCount, result.Skipped,
		result.TotalXPEarned, result.TotalInflowAmount.StringFixed(2))

	return result, nil
}

// fetchCount falls back to the default for non-positive requests and caps at MaxIngestCount.
func (s *IngestionService) fetchCount(requested int) int {
	count := requested
	if count <= 0 {
		count = s.DefaultCount
		if count <= 0 {
			count = DefaultIngestCount
		}
	}
	if count > MaxIngestCount {
		count = MaxIngestCount
	}
	return count
}

// window returns the inclusive [start, end] dates: the last WindowDays days ending today (UTC).
func (s *IngestionService) window() (end, start time.Time) {
	days := s.WindowDays
	if days <= 0 {
		days = DefaultWindowDays
	}
	now := s.Now().UTC()
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, 0, -days)
	return end, start
}
