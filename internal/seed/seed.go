// Package seed installs community content on startup. Every insert is
// create-if-absent keyed by a stable id (powerup key, group name, challenge
// slug) so reseeding an existing database changes nothing.
package seed

import (
	"errors"
	"log"
	"time"

	"github.com/gosimple/slug"
	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/habitflow/habitflow-api/internal/services"
	"gorm.io/gorm"
)

var powerups = []models.Powerup{
	{Key: "xp_boost", Name: "XP Boost", Description: "Double XP from completions for 24 hours", CostCoins: 100, Effect: "xp_boost", DurationHours: 24},
	{Key: "coin_boost", Name: "Coin Boost", Description: "Double coins from completions for 24 hours", CostCoins: 150, Effect: "coin_boost", DurationHours: 24},
	{Key: "mega_xp_boost", Name: "Mega XP Boost", Description: "Double XP from completions for 72 hours", CostCoins: 300, Effect: "xp_boost", DurationHours: 72},
}

type seedChallenge struct {
	Title          string
	Description    string
	TargetCategory string
	Days           int
	GoalCount      int
	XPReward       int64
	CoinReward     int64
}

var challenges = []seedChallenge{
	{
		Title:          "Move Every Day",
		Description:    "Log 20 fitness completions this month",
		TargetCategory: "fitness",
		Days:           30,
		GoalCount:      20,
		XPReward:       500,
		CoinReward:     100,
	},
	{
		Title:          "Mindful March",
		Description:    "Log 15 mindfulness completions",
		TargetCategory: "mindfulness",
		Days:           30,
		GoalCount:      15,
		XPReward:       400,
		CoinReward:     80,
	},
	{
		Title:          "Week of Learning",
		Description:    "Log 5 learning completions this week",
		TargetCategory: "learning",
		Days:           7,
		GoalCount:      5,
		XPReward:       150,
		CoinReward:     30,
	},
}

const communityGroupName = "HabitFlow Community"

// Run seeds the powerup catalog, the community group and its starter
// challenges.
func Run(db *gorm.DB) error {
	for _, p := range powerups {
		if err := createIfAbsent(db, &models.Powerup{}, "key = ?", p.Key, &p); err != nil {
			return err
		}
	}

	group, err := ensureCommunityGroup(db)
	if err != nil {
		return err
	}

	// Challenge windows are compared against day-bucketed completion dates,
	// so they must be day-granular themselves.
	today := services.NormalizeDay(time.Now())
	for _, sc := range challenges {
		id := slug.Make(sc.Title)
		challenge := models.Challenge{
			ID:             id,
			GroupID:        group.ID,
			Title:          sc.Title,
			Description:    sc.Description,
			TargetCategory: sc.TargetCategory,
			StartDate:      today,
			EndDate:        today.AddDate(0, 0, sc.Days),
			GoalCount:      sc.GoalCount,
			XPReward:       sc.XPReward,
			CoinReward:     sc.CoinReward,
		}
		if err := createIfAbsent(db, &models.Challenge{}, "id = ?", id, &challenge); err != nil {
			return err
		}
	}

	log.Println("Seed content ensured")
	return nil
}

func ensureCommunityGroup(db *gorm.DB) (*models.Group, error) {
	var group models.Group
	err := db.Where("name = ?", communityGroupName).First(&group).Error
	if err == nil {
		return &group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Owned by a dedicated system user so membership rules hold.
	system := models.User{
		Email: "community@habitflow.app",
		Name:  "HabitFlow",
	}
	if err := db.Where(models.User{Email: system.Email}).FirstOrCreate(&system).Error; err != nil {
		return nil, err
	}

	group = models.Group{
		OwnerID:     system.ID,
		Name:        communityGroupName,
		Description: "Community challenges open to everyone",
	}
	if err := db.Create(&group).Error; err != nil {
		return nil, err
	}
	member := models.GroupMember{GroupID: group.ID, UserID: system.ID, Role: "owner"}
	if err := db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func createIfAbsent(db *gorm.DB, model interface{}, query string, key interface{}, value interface{}) error {
	err := db.Where(query, key).First(model).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(value).Error
}
