package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GamificationProfile is the 1:1 per-user projection of the reward ledger.
// Level is always recomputed from XP via the level curve; XP and Coins are
// only mutated together with a RewardEvent insert or delete.
type GamificationProfile struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	XP            int64     `json:"xp" gorm:"default:0"`
	Level         int       `json:"level" gorm:"default:1"`
	Coins         int64     `json:"coins" gorm:"default:0"`
	LongestStreak int       `json:"longestStreak" gorm:"default:0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p *GamificationProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Reward event sources.
const (
	RewardSourceCompletion = "completion"
	RewardSourceChallenge  = "challenge"
	RewardSourcePurchase   = "purchase"
)

// RewardEvent is the append-only ledger of XP/coin movements. The unique
// (user, source type, source id) key makes every grant at-most-once: a retry
// of the same qualifying action hits the constraint instead of double-paying.
type RewardEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null;uniqueIndex:idx_reward_source"`
	SourceType string    `json:"sourceType" gorm:"not null;uniqueIndex:idx_reward_source"`
	SourceID   string    `json:"sourceId" gorm:"not null;uniqueIndex:idx_reward_source"`
	XPDelta    int64     `json:"xpDelta"`
	CoinsDelta int64     `json:"coinsDelta"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *RewardEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AchievementUnlock records a badge exactly once per (user, key). Unlocks are
// a one-way ratchet: they survive completion reversals.
type AchievementUnlock struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement"`
	AchievementKey string    `json:"achievementKey" gorm:"not null;uniqueIndex:idx_user_achievement"`
	UnlockedAt     time.Time `json:"unlockedAt"`
}

func (a *AchievementUnlock) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.UnlockedAt.IsZero() {
		a.UnlockedAt = time.Now()
	}
	return nil
}

// Powerup is a purchasable catalog entry. Effects are applied by the reward
// engine while a purchase is active.
type Powerup struct {
	Key           string    `json:"key" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	CostCoins     int64     `json:"costCoins" gorm:"not null"`
	Effect        string    `json:"effect" gorm:"not null"` // xp_boost, coin_boost
	DurationHours int       `json:"durationHours" gorm:"default:24"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PowerupPurchase struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	PowerupKey string    `json:"powerupKey" gorm:"not null"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`

	Powerup Powerup `json:"powerup,omitempty" gorm:"foreignKey:PowerupKey"`
}

func (p *PowerupPurchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Gamification DTOs
type XPProgress struct {
	CurrentLevelXP int64 `json:"currentLevelXP"`
	NextLevelXP    int64 `json:"nextLevelXP"`
	Progress       int   `json:"progress"` // 0-100
}

type GamificationStats struct {
	Level            int        `json:"level"`
	XP               int64      `json:"xp"`
	Coins            int64      `json:"coins"`
	LongestStreak    int        `json:"longestStreak"`
	AchievementCount int        `json:"achievementCount"`
	XPProgress       XPProgress `json:"xpProgress"`
}

type PurchasePowerupRequest struct {
	PowerupKey string `json:"powerupKey"`
}
