package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/lock"
	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/habitflow/habitflow-api/internal/streak"
	"gorm.io/gorm"
)

var (
	ErrDuplicateCompletion = errors.New("completion already recorded for this day")
	ErrCompletionNotFound  = errors.New("completion not found")
	ErrHabitNotFound       = errors.New("habit not found")
	ErrHabitInactive       = errors.New("habit is not active")
	ErrInvalidDate         = errors.New("invalid date")
)

// NormalizeDay truncates a timestamp to its calendar day at midnight UTC.
// The ledger compares completions at this granularity only.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CompletionService is the completion ledger plus the orchestration around
// it: every recorded or removed completion flows through streak
// recomputation, the reward engine and the challenge tracker in one
// transaction, serialized per user.
type CompletionService struct {
	db         *gorm.DB
	engine     *gamification.Engine
	challenges *ChallengeService
	locks      *lock.UserLock
}

func NewCompletionService(db *gorm.DB, engine *gamification.Engine, challenges *ChallengeService, locks *lock.UserLock) *CompletionService {
	return &CompletionService{db: db, engine: engine, challenges: challenges, locks: locks}
}

type CompletionResult struct {
	Completion *models.Completion         `json:"completion"`
	Rewards    *gamification.RewardResult `json:"rewards"`
	Streak     streak.Result              `json:"streak"`
}

// Record writes one completion for (habit, user, day). A zero day means the
// user's own today. A second record for the same day fails with
// ErrDuplicateCompletion and leaves the ledger unchanged.
func (s *CompletionService) Record(userID, habitID uuid.UUID, day time.Time) (*CompletionResult, error) {
	habit, err := s.ownedHabit(userID, habitID)
	if err != nil {
		return nil, err
	}
	if !habit.IsActive {
		return nil, ErrHabitInactive
	}
	today, err := s.userToday(userID)
	if err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = today
	} else {
		day = NormalizeDay(day)
	}

	var result CompletionResult
	err = s.locks.WithLock(userID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var existing models.Completion
			err := tx.Where("habit_id = ? AND user_id = ? AND completed_date = ?", habitID, userID, day).
				First(&existing).Error
			if err == nil {
				return ErrDuplicateCompletion
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			completion := models.Completion{HabitID: habitID, UserID: userID, CompletedDate: day}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}

			st, err := s.computeStreak(tx, habit, today)
			if err != nil {
				return err
			}

			rewards, err := s.engine.ApplyCompletionReward(tx, habit, &completion, st)
			if err != nil {
				return err
			}

			if err := s.challenges.applyCompletion(tx, habit, &completion); err != nil {
				return err
			}

			if err := s.logToGroups(tx, userID, "habit_completed", habit.ID.String(), habit.Title); err != nil {
				return err
			}

			result = CompletionResult{Completion: &completion, Rewards: rewards, Streak: st}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Remove deletes the completion for (habit, user, day) and symmetrically
// reverses its XP/coin reward. Achievements and challenge progress stay.
func (s *CompletionService) Remove(userID, habitID uuid.UUID, day time.Time) error {
	if _, err := s.ownedHabit(userID, habitID); err != nil {
		return err
	}
	if day.IsZero() {
		var err error
		day, err = s.userToday(userID)
		if err != nil {
			return err
		}
	} else {
		day = NormalizeDay(day)
	}

	return s.locks.WithLock(userID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var completion models.Completion
			err := tx.Where("habit_id = ? AND user_id = ? AND completed_date = ?", habitID, userID, day).
				First(&completion).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompletionNotFound
			}
			if err != nil {
				return err
			}

			if err := tx.Delete(&completion).Error; err != nil {
				return err
			}

			// Streak views recompute from the ledger on read, so nothing
			// else to update here. Challenge progress never decrements.
			return s.engine.ReverseCompletionReward(tx, userID, completion.ID)
		})
	})
}

// Streak recomputes the habit's streak from the full completion history.
func (s *CompletionService) Streak(userID, habitID uuid.UUID) (streak.Result, error) {
	habit, err := s.ownedHabit(userID, habitID)
	if err != nil {
		return streak.Result{}, err
	}
	today, err := s.userToday(userID)
	if err != nil {
		return streak.Result{}, err
	}
	return s.computeStreak(s.db, habit, today)
}

// List returns the habit's completions, newest first.
func (s *CompletionService) List(userID, habitID uuid.UUID) ([]models.Completion, error) {
	if _, err := s.ownedHabit(userID, habitID); err != nil {
		return nil, err
	}
	var completions []models.Completion
	err := s.db.Where("habit_id = ? AND user_id = ?", habitID, userID).
		Order("completed_date DESC").
		Find(&completions).Error
	return completions, err
}

// userToday resolves "today" in the user's profile timezone before bucketing
// it to the canonical midnight-UTC day key. A user in UTC+14 who completes a
// habit at their local midnight gets their own calendar day, not the server's.
func (s *CompletionService) userToday(userID uuid.UUID) (time.Time, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return time.Time{}, err
	}
	return NormalizeDay(time.Now().In(user.Location())), nil
}

func (s *CompletionService) ownedHabit(userID, habitID uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	err := s.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *CompletionService) computeStreak(tx *gorm.DB, habit *models.Habit, today time.Time) (streak.Result, error) {
	var completions []models.Completion
	err := tx.Where("habit_id = ? AND user_id = ?", habit.ID, habit.UserID).
		Find(&completions).Error
	if err != nil {
		return streak.Result{}, err
	}
	days := make([]time.Time, len(completions))
	for i, c := range completions {
		days[i] = c.CompletedDate
	}
	return streak.Compute(habit.Frequency, days, today), nil
}

// logToGroups fans an activity entry out to every group the user belongs to.
func (s *CompletionService) logToGroups(tx *gorm.DB, userID uuid.UUID, actionType, targetID, title string) error {
	var memberships []models.GroupMember
	if err := tx.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return err
	}
	for _, m := range memberships {
		if err := logActivity(tx, m.GroupID, userID, actionType, &targetID, map[string]interface{}{
			"title": title,
		}); err != nil {
			return err
		}
	}
	return nil
}
