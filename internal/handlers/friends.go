package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/middleware"
	"github.com/habitflow/habitflow-api/internal/models"
	"gorm.io/gorm"
)

type FriendHandler struct {
	db *gorm.DB
}

func (h *FriendHandler) Request(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	friendID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	if friendID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot friend yourself",
		})
	}

	var friend models.User
	if err := h.db.First(&friend, "id = ?", friendID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	// Either direction counts as an existing relationship
	var existing models.Friendship
	if err := h.db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Friend request already exists",
		})
	}

	friendship := models.Friendship{
		UserID:   userID,
		FriendID: friendID,
		Status:   models.FriendshipPending,
	}
	if err := h.db.Create(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send friend request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// Accept confirms a pending request sent to the current user.
func (h *FriendHandler) Accept(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	requesterID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var friendship models.Friendship
	if err := h.db.Where("user_id = ? AND friend_id = ? AND status = ?",
		requesterID, userID, models.FriendshipPending).First(&friendship).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Friend request not found",
		})
	}

	friendship.Status = models.FriendshipAccepted
	if err := h.db.Save(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to accept friend request",
		})
	}

	return c.JSON(friendship)
}

// List returns accepted friendships in both directions plus pending
// requests addressed to the current user.
func (h *FriendHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var accepted []models.Friendship
	h.db.Where("(user_id = ? OR friend_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted).Find(&accepted)

	var pending []models.Friendship
	h.db.Where("friend_id = ? AND status = ?", userID, models.FriendshipPending).Find(&pending)

	friendIDs := make([]uuid.UUID, 0, len(accepted))
	for _, f := range accepted {
		if f.UserID == userID {
			friendIDs = append(friendIDs, f.FriendID)
		} else {
			friendIDs = append(friendIDs, f.UserID)
		}
	}

	var friends []models.User
	if len(friendIDs) > 0 {
		h.db.Where("id IN ?", friendIDs).Find(&friends)
	}

	return c.JSON(fiber.Map{
		"friends": friends,
		"pending": pending,
	})
}
