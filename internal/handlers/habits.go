package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/middleware"
	"github.com/habitflow/habitflow-api/internal/models"
	"gorm.io/gorm"
)

type HabitHandler struct {
	db *gorm.DB
}

func (h *HabitHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var habits []models.Habit
	h.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits)

	return c.JSON(habits)
}

func (h *HabitHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	if req.Frequency == "" {
		req.Frequency = models.FrequencyDaily
	}
	if !models.ValidFrequency(req.Frequency) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Frequency must be DAILY, WEEKLY or WEEKDAYS",
		})
	}

	if req.Category == "" {
		req.Category = "general"
	}

	habit := models.Habit{
		UserID:    userID,
		Title:     req.Title,
		Category:  req.Category,
		Frequency: req.Frequency,
		IsActive:  true,
	}

	if err := h.db.Create(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create habit",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (h *HabitHandler) Get(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	return c.JSON(habit)
}

func (h *HabitHandler) Update(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	var req models.UpdateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Category != nil {
		habit.Category = *req.Category
	}
	if req.Frequency != nil {
		if !models.ValidFrequency(*req.Frequency) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Frequency must be DAILY, WEEKLY or WEEKDAYS",
			})
		}
		habit.Frequency = *req.Frequency
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}

	if err := h.db.Save(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update habit",
		})
	}

	return c.JSON(habit)
}

// Delete deactivates a habit instead of removing it when completions still
// reference it, so history and rewards stay intact.
func (h *HabitHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	var completionCount int64
	h.db.Model(&models.Completion{}).Where("habit_id = ?", habitID).Count(&completionCount)

	if completionCount > 0 {
		habit.IsActive = false
		if err := h.db.Save(&habit).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to deactivate habit",
			})
		}
		return c.JSON(fiber.Map{"deactivated": true})
	}

	if err := h.db.Delete(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete habit",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}
