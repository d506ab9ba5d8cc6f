package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// UnitOfWork runs fn with a ledger and a game state store that share one
// database transaction. If fn returns an error nothing it wrote is kept.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ledger LedgerStore, state GameStateStore) error) error
}

// GormUnitOfWork binds the gorm stores to a single DB.Transaction.
type GormUnitOfWork struct {
	DB  *gorm.DB
	Now func() time.Time
}

var _ UnitOfWork = (*GormUnitOfWork)(nil)

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{DB: db, Now: time.Now}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ledger LedgerStore, state GameStateStore) error) error {
	return u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ApplyBatchReward opens a nested transaction, which gorm runs as a savepoint on tx.
		return fn(NewGormLedgerStore(tx), &GormGameStateStore{DB: tx, Now: u.Now})
	})
}
