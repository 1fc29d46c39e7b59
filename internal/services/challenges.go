package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeClosed   = errors.New("challenge is closed")
	ErrNotGroupMember    = errors.New("not a member of this group")
	ErrInvalidChallenge  = errors.New("challenge end date must be after start date")
)

// ChallengeService tracks per-participant progress toward group challenges
// and pays the challenge reward exactly once per (challenge, user).
type ChallengeService struct {
	db     *gorm.DB
	engine *gamification.Engine
}

func NewChallengeService(db *gorm.DB, engine *gamification.Engine) *ChallengeService {
	return &ChallengeService{db: db, engine: engine}
}

// Create adds a group challenge. Only group members can create one.
func (s *ChallengeService) Create(userID uuid.UUID, challenge *models.Challenge) error {
	if !challenge.EndDate.After(challenge.StartDate) {
		return ErrInvalidChallenge
	}
	if !s.isGroupMember(challenge.GroupID, userID) {
		return ErrNotGroupMember
	}
	return s.db.Create(challenge).Error
}

// Join enrolls the user as a participant (create-if-absent): joining twice
// returns the existing row instead of resetting progress.
func (s *ChallengeService) Join(userID uuid.UUID, challengeID string) (*models.ChallengeParticipant, error) {
	var challenge models.Challenge
	err := s.db.Where("id = ?", challengeID).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	if challenge.Closed || time.Now().After(challenge.EndDate) {
		return nil, ErrChallengeClosed
	}
	if !s.isGroupMember(challenge.GroupID, userID) {
		return nil, ErrNotGroupMember
	}

	var participant models.ChallengeParticipant
	err = s.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).First(&participant).Error
	if err == nil {
		return &participant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participant = models.ChallengeParticipant{ChallengeID: challengeID, UserID: userID}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, err
	}
	_ = logActivity(s.db, challenge.GroupID, userID, "challenge_joined", &challenge.ID, map[string]interface{}{
		"title": challenge.Title,
	})
	return &participant, nil
}

// Get returns one challenge with its participants.
func (s *ChallengeService) Get(challengeID string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.Preload("Participants").Where("id = ?", challengeID).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ListForUser returns open challenges in the user's groups.
func (s *ChallengeService) ListForUser(userID uuid.UUID) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.db.
		Joins("JOIN group_members ON group_members.group_id = challenges.group_id").
		Where("group_members.user_id = ? AND challenges.closed = ?", userID, false).
		Order("challenges.end_date ASC").
		Find(&challenges).Error
	return challenges, err
}

// applyCompletion advances every matching challenge the user participates
// in: category matches, the completion day falls inside the window and the
// challenge is open. Progress clamps at the goal; reaching it for the first
// time grants the reward once.
func (s *ChallengeService) applyCompletion(tx *gorm.DB, habit *models.Habit, completion *models.Completion) error {
	var participants []models.ChallengeParticipant
	err := tx.
		Joins("JOIN challenges ON challenges.id = challenge_participants.challenge_id").
		Where("challenge_participants.user_id = ?", completion.UserID).
		Where("challenges.closed = ? AND challenges.target_category = ?", false, habit.Category).
		Where("challenges.start_date <= ? AND challenges.end_date >= ?", completion.CompletedDate, completion.CompletedDate).
		Find(&participants).Error
	if err != nil {
		return err
	}

	for i := range participants {
		p := &participants[i]

		var challenge models.Challenge
		if err := tx.Where("id = ?", p.ChallengeID).First(&challenge).Error; err != nil {
			return err
		}

		if p.ProgressCount < challenge.GoalCount {
			p.ProgressCount++
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}

		if p.ProgressCount >= challenge.GoalCount && !p.RewardGranted {
			granted, err := s.engine.GrantChallengeReward(tx, p.UserID, &challenge)
			if err != nil {
				return err
			}
			p.RewardGranted = true
			if err := tx.Save(p).Error; err != nil {
				return err
			}
			if granted {
				if err := logActivity(tx, challenge.GroupID, p.UserID, "challenge_completed", &challenge.ID, map[string]interface{}{
					"title": challenge.Title,
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// FinalizeExpired closes challenges whose end date has passed. Run by the
// scheduled worker; reward grants stay request-driven.
func (s *ChallengeService) FinalizeExpired(now time.Time) (int64, error) {
	res := s.db.Model(&models.Challenge{}).
		Where("closed = ? AND end_date < ?", false, now).
		Update("closed", true)
	return res.RowsAffected, res.Error
}

func (s *ChallengeService) isGroupMember(groupID, userID uuid.UUID) bool {
	var count int64
	s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	return count > 0
}
