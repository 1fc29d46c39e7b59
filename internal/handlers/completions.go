package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/middleware"
	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/habitflow/habitflow-api/internal/services"
)

type CompletionHandler struct {
	svc *services.CompletionService
}

// parseDay reads a YYYY-MM-DD body field. The zero value means "today",
// which the service resolves in the user's timezone.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, services.ErrInvalidDate
	}
	return day, nil
}

func (h *CompletionHandler) Record(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.HabitID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "habit_id is required",
		})
	}

	day, err := parseDay(req.CompletedDate)
	if err != nil {
		return fail(c, err)
	}

	result, err := h.svc.Record(userID, req.HabitID, day)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"completion": result.Completion,
		"rewards":    result.Rewards,
		"streak":     result.Streak,
	})
}

func (h *CompletionHandler) Remove(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.HabitID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "habit_id is required",
		})
	}

	day, err := parseDay(req.CompletedDate)
	if err != nil {
		return fail(c, err)
	}

	if err := h.svc.Remove(userID, req.HabitID, day); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{})
}

func (h *CompletionHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	completions, err := h.svc.List(userID, habitID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(completions)
}

func (h *CompletionHandler) Streak(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("habitId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	result, err := h.svc.Streak(userID, habitID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"streak": result})
}
