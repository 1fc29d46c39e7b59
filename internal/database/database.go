package database

import (
	"strings"

	"github.com/habitflow/habitflow-api/internal/config"
	"github.com/habitflow/habitflow-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database selected by the URL. PostgreSQL for postgres://
// URLs, SQLite otherwise. The handle is returned to the caller rather than
// stored globally so services receive it explicitly.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.Completion{},
		&models.GamificationProfile{},
		&models.RewardEvent{},
		&models.AchievementUnlock{},
		&models.Powerup{},
		&models.PowerupPurchase{},
		&models.Friendship{},
		&models.Group{},
		&models.GroupMember{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.Activity{},
	)
}
