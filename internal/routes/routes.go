package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/habitflow/habitflow-api/internal/handlers"
	"github.com/habitflow/habitflow-api/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Set) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", h.Auth.GetMe)
	protected.Put("/me", h.Auth.UpdateProfile)

	habits := protected.Group("/habits")
	habits.Get("/", h.Habits.List)
	habits.Post("/", h.Habits.Create)
	habits.Get("/:id", h.Habits.Get)
	habits.Put("/:id", h.Habits.Update)
	habits.Delete("/:id", h.Habits.Delete)
	habits.Get("/:id/completions", h.Completions.List)

	protected.Post("/completions", h.Completions.Record)
	protected.Delete("/completions", h.Completions.Remove)
	protected.Get("/streak/:habitId", h.Completions.Streak)

	gamification := protected.Group("/gamification")
	gamification.Get("/stats", h.Gamification.Stats)
	gamification.Get("/achievements", h.Gamification.Achievements)
	gamification.Get("/powerups", h.Gamification.ListPowerups)
	gamification.Post("/powerups/purchase", h.Gamification.PurchasePowerup)

	friends := protected.Group("/friends")
	friends.Get("/", h.Friends.List)
	friends.Post("/:id/request", h.Friends.Request)
	friends.Post("/:id/accept", h.Friends.Accept)

	groups := protected.Group("/groups")
	groups.Get("/", h.Groups.List)
	groups.Post("/", h.Groups.Create)
	groups.Post("/:id/join", h.Groups.Join)
	groups.Post("/:id/leave", h.Groups.Leave)
	groups.Get("/:id/members", h.Groups.Members)
	groups.Get("/:id/activity", h.Groups.Activity)

	challenges := protected.Group("/challenges")
	challenges.Get("/", h.Challenges.List)
	challenges.Post("/", h.Challenges.Create)
	challenges.Get("/:id", h.Challenges.Get)
	challenges.Post("/:id/join", h.Challenges.Join)
}
