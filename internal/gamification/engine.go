package gamification

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/habitflow/habitflow-api/internal/streak"
	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrPowerupNotFound   = errors.New("powerup not found")
)

// RewardConfig holds the tunable amounts. Base rewards are flat per
// completion; active boost powerups multiply the matching delta.
type RewardConfig struct {
	CompletionXP    int64
	CompletionCoins int64
	BoostMultiplier int64
}

var DefaultRewardConfig = RewardConfig{
	CompletionXP:    50,
	CompletionCoins: 10,
	BoostMultiplier: 2,
}

// RewardResult is what a single qualifying action earned.
type RewardResult struct {
	XPGained        int64    `json:"xpGained"`
	CoinsGained     int64    `json:"coinsGained"`
	LeveledUp       bool     `json:"leveledUp"`
	NewAchievements []string `json:"newAchievements"`
}

// Engine applies and reverses reward state transitions. Callers serialize
// per user (see the lock package) and run Engine methods inside their own
// transaction; the reward ledger's unique keys are the backstop if both
// guards fail.
type Engine struct {
	db    *gorm.DB
	cfg   RewardConfig
	curve Curve
}

func NewEngine(db *gorm.DB, cfg RewardConfig, curve Curve) *Engine {
	return &Engine{db: db, cfg: cfg, curve: curve}
}

// EnsureProfile fetches or creates the user's profile row (idempotent).
func (e *Engine) EnsureProfile(tx *gorm.DB, userID uuid.UUID) (*models.GamificationProfile, error) {
	var profile models.GamificationProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.GamificationProfile{UserID: userID, Level: 1}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ApplyCompletionReward credits XP and coins for a completion, recomputes
// the level, denormalizes the longest streak and evaluates achievements.
// The RewardEvent keyed by the completion ID makes the grant at-most-once.
func (e *Engine) ApplyCompletionReward(tx *gorm.DB, habit *models.Habit, completion *models.Completion, current streak.Result) (*RewardResult, error) {
	profile, err := e.EnsureProfile(tx, completion.UserID)
	if err != nil {
		return nil, err
	}

	xp := e.cfg.CompletionXP
	coins := e.cfg.CompletionCoins
	if boosted, err := e.hasActiveEffect(tx, completion.UserID, "xp_boost"); err != nil {
		return nil, err
	} else if boosted {
		xp *= e.cfg.BoostMultiplier
	}
	if boosted, err := e.hasActiveEffect(tx, completion.UserID, "coin_boost"); err != nil {
		return nil, err
	} else if boosted {
		coins *= e.cfg.BoostMultiplier
	}

	event := models.RewardEvent{
		UserID:     completion.UserID,
		SourceType: models.RewardSourceCompletion,
		SourceID:   completion.ID.String(),
		XPDelta:    xp,
		CoinsDelta: coins,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, err
	}

	oldLevel := profile.Level
	profile.XP += xp
	profile.Coins += coins
	profile.Level = e.curve.LevelForXP(profile.XP)
	if current.Longest > profile.LongestStreak {
		profile.LongestStreak = current.Longest
	}
	if err := tx.Save(profile).Error; err != nil {
		return nil, err
	}

	ctx, err := e.buildRuleContext(tx, completion.UserID, profile, current.Current)
	if err != nil {
		return nil, err
	}
	unlocked, err := e.evaluateAchievements(tx, completion.UserID, ctx)
	if err != nil {
		return nil, err
	}

	return &RewardResult{
		XPGained:        xp,
		CoinsGained:     coins,
		LeveledUp:       profile.Level > oldLevel,
		NewAchievements: unlocked,
	}, nil
}

// ReverseCompletionReward undoes the XP/coin deltas of a removed completion
// by deleting its ledger event. Achievements are never revoked. Reversing a
// completion that never earned a reward is a no-op, so retries are safe.
func (e *Engine) ReverseCompletionReward(tx *gorm.DB, userID, completionID uuid.UUID) error {
	var event models.RewardEvent
	err := tx.Where("user_id = ? AND source_type = ? AND source_id = ?",
		userID, models.RewardSourceCompletion, completionID.String()).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := tx.Delete(&event).Error; err != nil {
		return err
	}

	profile, err := e.EnsureProfile(tx, userID)
	if err != nil {
		return err
	}
	profile.XP -= event.XPDelta
	if profile.XP < 0 {
		profile.XP = 0
	}
	profile.Coins -= event.CoinsDelta
	if profile.Coins < 0 {
		profile.Coins = 0
	}
	profile.Level = e.curve.LevelForXP(profile.XP)
	return tx.Save(profile).Error
}

// GrantChallengeReward pays out a finished challenge exactly once per
// (challenge, user). Returns false when the ledger already holds the grant.
func (e *Engine) GrantChallengeReward(tx *gorm.DB, userID uuid.UUID, challenge *models.Challenge) (bool, error) {
	var existing models.RewardEvent
	err := tx.Where("user_id = ? AND source_type = ? AND source_id = ?",
		userID, models.RewardSourceChallenge, challenge.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	event := models.RewardEvent{
		UserID:     userID,
		SourceType: models.RewardSourceChallenge,
		SourceID:   challenge.ID,
		XPDelta:    challenge.XPReward,
		CoinsDelta: challenge.CoinReward,
	}
	if err := tx.Create(&event).Error; err != nil {
		return false, err
	}

	profile, err := e.EnsureProfile(tx, userID)
	if err != nil {
		return false, err
	}
	profile.XP += challenge.XPReward
	profile.Coins += challenge.CoinReward
	profile.Level = e.curve.LevelForXP(profile.XP)
	if err := tx.Save(profile).Error; err != nil {
		return false, err
	}
	return true, nil
}

// PurchasePowerup debits the powerup cost and records ownership. The caller
// holds the user's lock; the balance check and debit share one transaction.
func (e *Engine) PurchasePowerup(userID uuid.UUID, powerupKey string) (*models.PowerupPurchase, error) {
	var purchase *models.PowerupPurchase
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var powerup models.Powerup
		if err := tx.Where("key = ?", powerupKey).First(&powerup).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPowerupNotFound
			}
			return err
		}

		profile, err := e.EnsureProfile(tx, userID)
		if err != nil {
			return err
		}
		if profile.Coins < powerup.CostCoins {
			return ErrInsufficientFunds
		}

		purchase = &models.PowerupPurchase{
			UserID:     userID,
			PowerupKey: powerup.Key,
			ExpiresAt:  time.Now().Add(time.Duration(powerup.DurationHours) * time.Hour),
		}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		event := models.RewardEvent{
			UserID:     userID,
			SourceType: models.RewardSourcePurchase,
			SourceID:   purchase.ID.String(),
			CoinsDelta: -powerup.CostCoins,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		profile.Coins -= powerup.CostCoins
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// Stats projects the display view: stored profile fields plus the XP
// progress fraction recomputed from the curve.
func (e *Engine) Stats(userID uuid.UUID) (*models.GamificationStats, error) {
	profile, err := e.EnsureProfile(e.db, userID)
	if err != nil {
		return nil, err
	}

	var achievementCount int64
	if err := e.db.Model(&models.AchievementUnlock{}).Where("user_id = ?", userID).Count(&achievementCount).Error; err != nil {
		return nil, err
	}

	return &models.GamificationStats{
		Level:            profile.Level,
		XP:               profile.XP,
		Coins:            profile.Coins,
		LongestStreak:    profile.LongestStreak,
		AchievementCount: int(achievementCount),
		XPProgress:       e.curve.Progress(profile.XP),
	}, nil
}

// Achievements returns the full rule table with per-user unlock status.
func (e *Engine) Achievements(userID uuid.UUID) ([]AchievementStatus, error) {
	var unlocks []models.AchievementUnlock
	if err := e.db.Where("user_id = ?", userID).Find(&unlocks).Error; err != nil {
		return nil, err
	}
	byKey := make(map[string]models.AchievementUnlock, len(unlocks))
	for _, u := range unlocks {
		byKey[u.AchievementKey] = u
	}

	statuses := make([]AchievementStatus, 0, len(Rules))
	for _, rule := range Rules {
		status := AchievementStatus{
			Key:         rule.Key,
			Name:        rule.Name,
			Description: rule.Description,
		}
		if u, ok := byKey[rule.Key]; ok {
			status.Unlocked = true
			t := u.UnlockedAt
			status.UnlockedAt = &t
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Powerups lists the purchasable catalog, cheapest first.
func (e *Engine) Powerups() ([]models.Powerup, error) {
	var powerups []models.Powerup
	err := e.db.Order("cost_coins ASC").Find(&powerups).Error
	return powerups, err
}

func (e *Engine) hasActiveEffect(tx *gorm.DB, userID uuid.UUID, effect string) (bool, error) {
	var count int64
	err := tx.Model(&models.PowerupPurchase{}).
		Joins("JOIN powerups ON powerups.key = powerup_purchases.powerup_key").
		Where("powerup_purchases.user_id = ? AND powerups.effect = ? AND powerup_purchases.expires_at > ?",
			userID, effect, time.Now()).
		Count(&count).Error
	return count > 0, err
}

func (e *Engine) buildRuleContext(tx *gorm.DB, userID uuid.UUID, profile *models.GamificationProfile, currentStreak int) (RuleContext, error) {
	ctx := RuleContext{
		CurrentStreak:  currentStreak,
		LongestStreak:  profile.LongestStreak,
		Level:          profile.Level,
		CategoryCounts: make(map[string]int64),
	}

	if err := tx.Model(&models.Completion{}).Where("user_id = ?", userID).Count(&ctx.TotalCompletions).Error; err != nil {
		return ctx, err
	}

	type categoryCount struct {
		Category string
		Count    int64
	}
	var counts []categoryCount
	err := tx.Model(&models.Completion{}).
		Select("habits.category AS category, COUNT(*) AS count").
		Joins("JOIN habits ON habits.id = completions.habit_id").
		Where("completions.user_id = ?", userID).
		Group("habits.category").
		Find(&counts).Error
	if err != nil {
		return ctx, err
	}
	for _, cc := range counts {
		ctx.CategoryCounts[cc.Category] = cc.Count
	}
	return ctx, nil
}

// evaluateAchievements records an unlock for every rule whose condition now
// holds and has no prior unlock. Existing unlocks are left alone, which
// makes re-evaluation idempotent.
func (e *Engine) evaluateAchievements(tx *gorm.DB, userID uuid.UUID, ctx RuleContext) ([]string, error) {
	var existing []models.AchievementUnlock
	if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, u := range existing {
		have[u.AchievementKey] = true
	}

	unlocked := []string{}
	for _, rule := range Rules {
		if have[rule.Key] || !rule.Met(ctx) {
			continue
		}
		unlock := models.AchievementUnlock{UserID: userID, AchievementKey: rule.Key}
		if err := tx.Create(&unlock).Error; err != nil {
			return nil, err
		}
		unlocked = append(unlocked, rule.Key)
	}
	return unlocked, nil
}
