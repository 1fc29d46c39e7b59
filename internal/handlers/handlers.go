package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/lock"
	"github.com/habitflow/habitflow-api/internal/services"
	"gorm.io/gorm"
)

// Set bundles every handler with its dependencies so routes can be wired
// from one place.
type Set struct {
	Auth         *AuthHandler
	Habits       *HabitHandler
	Completions  *CompletionHandler
	Gamification *GamificationHandler
	Challenges   *ChallengeHandler
	Groups       *GroupHandler
	Friends      *FriendHandler
}

func New(db *gorm.DB, engine *gamification.Engine, completions *services.CompletionService, challenges *services.ChallengeService, locks *lock.UserLock) *Set {
	return &Set{
		Auth:         &AuthHandler{db: db},
		Habits:       &HabitHandler{db: db},
		Completions:  &CompletionHandler{svc: completions},
		Gamification: &GamificationHandler{engine: engine, locks: locks},
		Challenges:   &ChallengeHandler{svc: challenges},
		Groups:       &GroupHandler{db: db},
		Friends:      &FriendHandler{db: db},
	}
}

// fail maps service errors to HTTP responses.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrDuplicateCompletion):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrCompletionNotFound),
		errors.Is(err, services.ErrHabitNotFound),
		errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, gamification.ErrPowerupNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrHabitInactive),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidChallenge):
		status = fiber.StatusBadRequest
	case errors.Is(err, gamification.ErrInsufficientFunds):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrChallengeClosed):
		status = fiber.StatusGone
	case errors.Is(err, services.ErrNotGroupMember):
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
