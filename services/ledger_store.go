package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"savings-pet-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerStore is the durable record of processed transactions and the
// lookup from an aggregator item to the linked bank account.
type LedgerStore interface {
	Exists(ctx context.Context, externalTransactionID string) (bool, error)
	// Insert fails with ErrLedgerConflict if the external transaction id is already present.
	Insert(ctx context.Context, entry *models.LedgerEntry) error
	FindAccountByItemID(ctx context.Context, itemID string) (*models.BankAccount, error)
	MarkSynced(ctx context.Context, accountID string, at time.Time) error
}

// GormLedgerStore implements LedgerStore on the transactions and bank_accounts tables.
type GormLedgerStore struct {
	DB *gorm.DB
}

var _ LedgerStore = (*GormLedgerStore)(nil)

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{DB: db}
}

func (s *GormLedgerStore) Exists(ctx context.Context, externalTransactionID string) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("external_transaction_id = ?", externalTransactionID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ledger entry %s: %w", externalTransactionID, err)
	}
	return count > 0, nil
}

// Insert relies on the unique index on external_transaction_id, so a racing
// duplicate becomes a no-op insert reported as ErrLedgerConflict.
func (s *GormLedgerStore) Insert(ctx context.Context, entry *models.LedgerEntry) error {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_transaction_id"}},
			DoNothing: true,
		}).
		Create(entry)
	if res.Error != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", entry.ExternalTransactionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrLedgerConflict, entry.ExternalTransactionID)
	}
	return nil
}

func (s *GormLedgerStore) FindAccountByItemID(ctx context.Context, itemID string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to look up bank account for item %s: %w", itemID, err)
	}
	return &account, nil
}

func (s *GormLedgerStore) MarkSynced(ctx context.Context, accountID string, at time.Time) error {
	return s.DB.WithContext(ctx).
		Model(&models.BankAccount{}).
		Where("id = ?", accountID).
		Update("last_synced_at", at).Error
}

// ListAccounts returns every linked bank account (used by the re-sync job).
func (s *GormLedgerStore) ListAccounts(ctx context.Context) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListByUser returns a page of ledger entries, newest first, plus the total count.
func (s *GormLedgerStore) ListByUser(ctx context.Context, userID string, page, size int) ([]models.LedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := s.DB.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LedgerEntry
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_on DESC, created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
