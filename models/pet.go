package models

// PetStage is the evolution stage of a pet. Stages only move forward.
type PetStage string

const (
	PetStageEgg  PetStage = "egg"
	PetStageBaby PetStage = "baby"
	PetStageTeen PetStage = "teen"
)

// Rank orders the stages so callers can compare them (egg=0, baby=1, teen=2).
func (s PetStage) Rank() int {
	switch s {
	case PetStageBaby:
		return 1
	case PetStageTeen:
		return 2
	default:
		return 0
	}
}

const (
	PetStatMin = 0
	PetStatMax = 100

	DefaultPetHappiness = 50
	DefaultPetHealth    = 50
)

// Pet is the virtual pet living in the user's room (one row per user).
type Pet struct {
	ID        string   `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string   `gorm:"uniqueIndex;not null" json:"user_id"`
	Name      string   `json:"name"`
	Happiness int      `json:"happiness" gorm:"not null;default:50"`
	Health    int      `json:"health" gorm:"not null;default:50"`
	Stage     PetStage `json:"stage" gorm:"type:varchar(16);not null;default:'egg'"`

	Timestamps
}
