package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate completion", services.ErrDuplicateCompletion, fiber.StatusConflict},
		{"completion not found", services.ErrCompletionNotFound, fiber.StatusNotFound},
		{"habit not found", services.ErrHabitNotFound, fiber.StatusNotFound},
		{"powerup not found", gamification.ErrPowerupNotFound, fiber.StatusNotFound},
		{"inactive habit", services.ErrHabitInactive, fiber.StatusBadRequest},
		{"invalid date", services.ErrInvalidDate, fiber.StatusBadRequest},
		{"insufficient funds", gamification.ErrInsufficientFunds, fiber.StatusPaymentRequired},
		{"challenge closed", services.ErrChallengeClosed, fiber.StatusGone},
		{"not a group member", services.ErrNotGroupMember, fiber.StatusForbidden},
		{"unknown error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return fail(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
