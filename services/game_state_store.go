package services

import (
	"context"
	"fmt"
	"time"

	"savings-pet-system/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameState is the three per-user aggregates driven by ledger activity.
type GameState struct {
	Profile models.Profile `json:"profile"`
	Pet     models.Pet     `json:"pet"`
	City    models.City    `json:"city"`
}

// GameStateStore owns the Profile, Pet and City rows.
type GameStateStore interface {
	// ApplyBatchReward applies one batch reward to all three aggregates atomically.
	ApplyBatchReward(ctx context.Context, userID string, reward BatchReward) (*GameState, error)
	GetState(ctx context.Context, userID string) (*GameState, error)
}

type GormGameStateStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

var _ GameStateStore = (*GormGameStateStore)(nil)

func NewGormGameStateStore(db *gorm.DB) *GormGameStateStore {
	return &GormGameStateStore{DB: db, Now: time.Now}
}

// ensureGameState creates any missing aggregate row for the user (idempotent).
func ensureGameState(tx *gorm.DB, userID string) error {
	onUser := clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}

	profile := models.Profile{ID: uuid.NewString(), UserID: userID, CurrentXP: 0, Level: 1}
	if err := tx.Clauses(onUser).Create(&profile).Error; err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	pet := models.Pet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Happiness: models.DefaultPetHappiness,
		Health:    models.DefaultPetHealth,
		Stage:     models.PetStageEgg,
	}
	if err := tx.Clauses(onUser).Create(&pet).Error; err != nil {
		return fmt.Errorf("failed to ensure pet: %w", err)
	}
	city := models.City{ID: uuid.NewString(), UserID: userID, Funds: decimal.Zero}
	if err := tx.Clauses(onUser).Create(&city).Error; err != nil {
		return fmt.Errorf("failed to ensure city: %w", err)
	}
	return nil
}

// loadGameState reads the three rows; lock=true takes row locks (SELECT ... FOR UPDATE).
func loadGameState(tx *gorm.DB, userID string, lock bool) (*GameState, error) {
	q := tx
	if lock {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Session(&gorm.Session{})
	}

	var state GameState
	if err := q.Where("user_id = ?", userID).First(&state.City).Error; err != nil {
		return nil, fmt.Errorf("failed to load city for %s: %w", userID, err)
	}
	if err := q.Where("user_id = ?", userID).First(&state.Pet).Error; err != nil {
		return nil, fmt.Errorf("failed to load pet for %s: %w", userID, err)
	}
	if err := q.Where("user_id = ?", userID).First(&state.Profile).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}
	return &state, nil
}

// ApplyBatchReward runs City, then Pet, then Profile updates in one transaction.
// The pet's baby -> teen check reads the city population written in this same call.
func (s *GormGameStateStore) ApplyBatchReward(ctx context.Context, userID string, reward BatchReward) (*GameState, error) {
	var updated *GameState
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGameState(tx, userID); err != nil {
			return err
		}
		state, err := loadGameState(tx, userID, true)
		if err != nil {
			return err
		}

		ApplyCityReward(&state.City, reward)
		ApplyPetReward(&state.Pet, reward, state.City.Population)
		ApplyProfileReward(&state.Profile, reward, s.Now())

		if err := tx.Save(&state.City).Error; err != nil {
			return fmt.Errorf("failed to save city: %w", err)
		}
		if err := tx.Save(&state.Pet).Error; err != nil {
			return fmt.Errorf("failed to save pet: %w", err)
		}
		if err := tx.Save(&state.Profile).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		updated = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormGameStateStore) GetState(ctx context.Context, userID string) (*GameState, error) {
	var state *GameState
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGameState(tx, userID); err != nil {
			return err
		}
		var err error
		state, err = loadGameState(tx, userID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
