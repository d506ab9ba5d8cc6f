package services

import (
	"time"

	"savings-pet-system/models"

	"github.com/shopspring/decimal"
)

// Tunables for the batch reward rules.
const (
	XPPerCitizen         int64 = 10
	PetHappinessPerBatch       = 10
	PetHealthPerBatch          = 5
	HatchXPThreshold     int64 = 50  // batch XP must exceed this to hatch an egg
	TeenPopulation       int64 = 150 // city population must exceed this for baby -> teen
)

// BatchReward is what one ingestion batch earned.
type BatchReward struct {
	XP     int64
	Inflow decimal.Decimal
}

// IsEmpty reports whether the batch earned nothing, in which case no aggregate is touched.
func (r BatchReward) IsEmpty() bool {
	return r.XP <= 0 && !r.Inflow.IsPositive()
}

// ApplyCityReward: funds += inflow, population += floor(xp/10).
func ApplyCityReward(city *models.City, r BatchReward) {
	if r.Inflow.IsPositive() {
		city.Funds = city.Funds.Add(r.Inflow)
	}
	if r.XP > 0 {
		city.Population += r.XP / XPPerCitizen
	}
}

// ApplyPetReward bumps happiness and health (capped at 100) and evolves the pet
// at most one stage. population must be the city's population after this batch.
func ApplyPetReward(pet *models.Pet, r BatchReward, population int64) {
	pet.Happiness = clampStat(pet.Happiness + PetHappinessPerBatch)
	pet.Health = clampStat(pet.Health + PetHealthPerBatch)

	switch pet.Stage {
	case models.PetStageEgg:
		if r.XP > HatchXPThreshold {
			pet.Stage = models.PetStageBaby
		}
	case models.PetStageBaby:
		if population > TeenPopulation {
			pet.Stage = models.PetStageTeen
		}
	}
}

// ApplyProfileReward adds the batch XP and recomputes the level.
func ApplyProfileReward(profile *models.Profile, r BatchReward, now time.Time) {
	if r.XP > 0 {
		profile.CurrentXP += r.XP
	}
	newLevel := models.LevelFor(profile.CurrentXP)
	if newLevel > profile.Level {
		profile.LastLevelUpAt = &now
	}
	profile.Level = newLevel
}

func clampStat(v int) int {
	if v < models.PetStatMin {
		return models.PetStatMin
	}
	if v > models.PetStatMax {
		return models.PetStatMax
	}
	return v
}
