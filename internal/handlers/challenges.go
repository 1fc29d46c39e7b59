package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/habitflow/habitflow-api/internal/middleware"
	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/habitflow/habitflow-api/internal/services"
)

type ChallengeHandler struct {
	svc *services.ChallengeService
}

func (h *ChallengeHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	challenges, err := h.svc.ListForUser(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(challenges)
}

func (h *ChallengeHandler) Get(c *fiber.Ctx) error {
	challenge, err := h.svc.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(challenge)
}

func (h *ChallengeHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" || req.GoalCount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and a positive goalCount are required",
		})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start date",
		})
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end date",
		})
	}

	if req.TargetCategory == "" {
		req.TargetCategory = "general"
	}

	challenge := models.Challenge{
		GroupID:        req.GroupID,
		Title:          req.Title,
		Description:    req.Description,
		TargetCategory: req.TargetCategory,
		StartDate:      startDate,
		EndDate:        endDate,
		GoalCount:      req.GoalCount,
		XPReward:       req.XPReward,
		CoinReward:     req.CoinReward,
	}

	if err := h.svc.Create(userID, &challenge); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(challenge)
}

func (h *ChallengeHandler) Join(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	participant, err := h.svc.Join(userID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(participant)
}
