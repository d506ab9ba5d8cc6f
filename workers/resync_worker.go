// workers/resync_worker.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"savings-pet-system/models"
	"savings-pet-system/services"

	"github.com/go-co-op/gocron/v2"
)

// AccountLister lists every linked bank account.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]models.BankAccount, error)
}

// Ingester runs the ingestion pipeline for one item.
type Ingester interface {
	Ingest(ctx context.Context, itemID string, requestedCount int) (*services.IngestResult, error)
}

// ResyncSummary is what one re-sync pass did.
type ResyncSummary struct {
	Accounts  int
	Processed int
	XPEarned  int64
	Failed    int
}

// ResyncWorker periodically re-ingests every linked account. It catches
// notifications the aggregator never delivered; ingestion is idempotent, so
// overlapping with webhook deliveries is harmless.
type ResyncWorker struct {
	accounts AccountLister
	ingester Ingester
	count    int
}

func NewResyncWorker(accounts AccountLister, ingester Ingester, count int) *ResyncWorker {
	return &ResyncWorker{accounts: accounts, ingester: ingester, count: count}
}

// Start schedules RunOnce every interval until ctx is cancelled.
// The caller owns the returned scheduler and must Shutdown it.
func (w *ResyncWorker) Start(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("resync interval must be positive, got %s", interval)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			w.RunOnce(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule resync job: %w", err)
	}

	sched.Start()
	log.Printf("🔁 [RESYNC] Scheduled every %s", interval)
	return sched, nil
}

// RunOnce re-ingests every account sequentially. Per-account failures are logged and counted.
func (w *ResyncWorker) RunOnce(ctx context.Context) ResyncSummary {
	var summary ResyncSummary

	accounts, err := w.accounts.ListAccounts(ctx)
	if err != nil {
		log.Printf("❌ [RESYNC] Failed to list bank accounts: %v", err)
		return summary
	}
	summary.Accounts = len(accounts)

	for _, acct := range accounts {
		if ctx.Err() != nil {
			log.Printf("⏹️ [RESYNC] Stopped: %v", ctx.Err())
			break
		}

		result, err := w.ingester.Ingest(ctx, acct.ItemID, w.count)
		if err != nil {
			summary.Failed++
			if errors.Is(err, services.ErrUpstreamFetch) {
				log.Printf("⚠️ [RESYNC] Aggregator unavailable for item %s: %v", acct.ItemID, err)
			} else {
				log.Printf("❌ [RESYNC] Item %s failed: %v", acct.ItemID, err)
			}
			continue
		}
		summary.Processed += result.ProcessedCount
		summary.XPEarned += result.TotalXPEarned
	}

	log.Printf("✅ [RESYNC] accounts=%d processed=%d xp=%d failed=%d",
		summary.Accounts, summary.Processed, summary.XPEarned, summary.Failed)
	return summary
}
