package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit frequencies. WEEKDAYS habits only expect completions Monday-Friday;
// weekends neither break nor extend their streak.
const (
	FrequencyDaily    = "DAILY"
	FrequencyWeekly   = "WEEKLY"
	FrequencyWeekdays = "WEEKDAYS"
)

func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyWeekdays:
		return true
	}
	return false
}

type Habit struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Category  string         `json:"category" gorm:"default:general"` // fitness, mindfulness, learning, ...
	Frequency string         `json:"frequency" gorm:"not null;default:DAILY"`
	IsActive  bool           `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Completion records that a habit was done on a calendar day. CompletedDate
// carries the day at midnight UTC; the unique index is the ledger's guarantee
// that a (habit, user, day) triple exists at most once.
type Completion struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	HabitID       uuid.UUID `json:"habitId" gorm:"type:uuid;not null;uniqueIndex:idx_completion_day"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;index;not null;uniqueIndex:idx_completion_day"`
	CompletedDate time.Time `json:"completedDate" gorm:"not null;uniqueIndex:idx_completion_day"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (c *Completion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Habit DTOs
type CreateHabitRequest struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
}

type UpdateHabitRequest struct {
	Title     *string `json:"title"`
	Category  *string `json:"category"`
	Frequency *string `json:"frequency"`
	IsActive  *bool   `json:"isActive"`
}

type CompletionRequest struct {
	HabitID       uuid.UUID `json:"habit_id"`
	CompletedDate string    `json:"completed_date"` // YYYY-MM-DD, defaults to today
}
