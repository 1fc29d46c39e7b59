package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Challenge is a time-boxed group goal. The primary key is a slug derived
// from the title so seeding can upsert by a stable human-readable id.
type Challenge struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	GroupID        uuid.UUID      `json:"groupId" gorm:"type:uuid;index;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description"`
	TargetCategory string         `json:"targetCategory" gorm:"not null"` // habit category that counts toward progress
	StartDate      time.Time      `json:"startDate" gorm:"not null"`
	EndDate        time.Time      `json:"endDate" gorm:"not null"`
	GoalCount      int            `json:"goalCount" gorm:"not null"`
	XPReward       int64          `json:"xpReward" gorm:"default:0"`
	CoinReward     int64          `json:"coinReward" gorm:"default:0"`
	Closed         bool           `json:"closed" gorm:"default:false"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	Participants []ChallengeParticipant `json:"participants,omitempty" gorm:"foreignKey:ChallengeID"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = slug.Make(c.Title)
	}
	return nil
}

// ChallengeParticipant tracks one user's progress toward a challenge goal.
// ProgressCount only moves up and is clamped at the challenge GoalCount;
// RewardGranted flips once when the goal is first reached.
type ChallengeParticipant struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ChallengeID   string    `json:"challengeId" gorm:"not null;uniqueIndex:idx_challenge_user"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;index;not null;uniqueIndex:idx_challenge_user"`
	ProgressCount int       `json:"progressCount" gorm:"default:0"`
	RewardGranted bool      `json:"rewardGranted" gorm:"default:false"`
	JoinedAt      time.Time `json:"joinedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p *ChallengeParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}

type CreateChallengeRequest struct {
	GroupID        uuid.UUID `json:"groupId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	TargetCategory string    `json:"targetCategory"`
	StartDate      string    `json:"startDate"` // YYYY-MM-DD
	EndDate        string    `json:"endDate"`   // YYYY-MM-DD
	GoalCount      int       `json:"goalCount"`
	XPReward       int64     `json:"xpReward"`
	CoinReward     int64     `json:"coinReward"`
}
