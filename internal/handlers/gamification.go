package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/lock"
	"github.com/habitflow/habitflow-api/internal/middleware"
	"github.com/habitflow/habitflow-api/internal/models"
)

type GamificationHandler struct {
	engine *gamification.Engine
	locks  *lock.UserLock
}

func (h *GamificationHandler) Stats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	stats, err := h.engine.Stats(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(stats)
}

func (h *GamificationHandler) Achievements(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	achievements, err := h.engine.Achievements(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(achievements)
}

func (h *GamificationHandler) ListPowerups(c *fiber.Ctx) error {
	powerups, err := h.engine.Powerups()
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(powerups)
}

func (h *GamificationHandler) PurchasePowerup(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.PurchasePowerupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.PowerupKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "powerupKey is required",
		})
	}

	var purchase *models.PowerupPurchase
	err := h.locks.WithLock(userID, func() error {
		var err error
		purchase, err = h.engine.PurchasePowerup(userID, req.PowerupKey)
		return err
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(purchase)
}
