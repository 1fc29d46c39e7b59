package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/habitflow/habitflow-api/internal/config"
	"github.com/habitflow/habitflow-api/internal/database"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/handlers"
	"github.com/habitflow/habitflow-api/internal/lock"
	"github.com/habitflow/habitflow-api/internal/routes"
	"github.com/habitflow/habitflow-api/internal/seed"
	"github.com/habitflow/habitflow-api/internal/services"
	"github.com/habitflow/habitflow-api/internal/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if cfg.SeedContent {
		if err := seed.Run(db); err != nil {
			log.Fatal("failed to seed content:", err)
		}
	}

	locks := lock.NewUserLock()
	engine := gamification.NewEngine(db, gamification.DefaultRewardConfig, gamification.DefaultCurve)
	challengeSvc := services.NewChallengeService(db, engine)
	completionSvc := services.NewCompletionService(db, engine, challengeSvc, locks)

	if _, err := workers.StartChallengeFinalizer(challengeSvc); err != nil {
		log.Fatal("failed to start challenge finalizer:", err)
	}

	app := fiber.New()
	app.Use(cors.New())

	routes.Setup(app, handlers.New(db, engine, completionSvc, challengeSvc, locks))

	log.Printf("HabitFlow API listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
