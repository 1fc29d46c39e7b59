package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/habitflow/habitflow-api/internal/gamification"
	"github.com/habitflow/habitflow-api/internal/lock"
	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db          *gorm.DB
	engine      *gamification.Engine
	completions *CompletionService
	challenges  *ChallengeService
	user        models.User
	habit       models.Habit
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.Completion{},
		&models.GamificationProfile{},
		&models.RewardEvent{},
		&models.AchievementUnlock{},
		&models.Powerup{},
		&models.PowerupPurchase{},
		&models.Group{},
		&models.GroupMember{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.Activity{},
	))

	user := models.User{Email: "test@habitflow.app", Name: "Tester"}
	require.NoError(t, db.Create(&user).Error)

	habit := models.Habit{UserID: user.ID, Title: "Morning run", Category: "general", Frequency: models.FrequencyDaily, IsActive: true}
	require.NoError(t, db.Create(&habit).Error)

	locks := lock.NewUserLock()
	engine := gamification.NewEngine(db, gamification.DefaultRewardConfig, gamification.Curve{0, 100, 250})
	challenges := NewChallengeService(db, engine)
	completions := NewCompletionService(db, engine, challenges, locks)

	return &fixture{
		db:          db,
		engine:      engine,
		completions: completions,
		challenges:  challenges,
		user:        user,
		habit:       habit,
	}
}

func (f *fixture) today() time.Time {
	return NormalizeDay(time.Now())
}

func TestRecordCompletionAwardsRewards(t *testing.T) {
	f := setup(t)

	result, err := f.completions.Record(f.user.ID, f.habit.ID, f.today())
	require.NoError(t, err)

	assert.Equal(t, int64(50), result.Rewards.XPGained)
	assert.Equal(t, int64(10), result.Rewards.CoinsGained)
	assert.False(t, result.Rewards.LeveledUp)
	assert.Contains(t, result.Rewards.NewAchievements, "first_step")
	assert.Equal(t, 1, result.Streak.Current)

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stats.XP)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 50, stats.XPProgress.Progress)
}

func TestDuplicateCompletionRejected(t *testing.T) {
	f := setup(t)
	day := f.today()

	_, err := f.completions.Record(f.user.ID, f.habit.ID, day)
	require.NoError(t, err)

	_, err = f.completions.Record(f.user.ID, f.habit.ID, day)
	assert.ErrorIs(t, err, ErrDuplicateCompletion)

	var count int64
	f.db.Model(&models.Completion{}).Count(&count)
	assert.Equal(t, int64(1), count, "ledger size unchanged")

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stats.XP, "no double award")
}

func TestRemoveCompletionReversesRewards(t *testing.T) {
	f := setup(t)
	day := f.today()

	_, err := f.completions.Record(f.user.ID, f.habit.ID, day)
	require.NoError(t, err)

	require.NoError(t, f.completions.Remove(f.user.ID, f.habit.ID, day))

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.XP)
	assert.Equal(t, int64(0), stats.Coins)

	// Achievements are a one-way ratchet
	var unlocks int64
	f.db.Model(&models.AchievementUnlock{}).Where("user_id = ?", f.user.ID).Count(&unlocks)
	assert.Equal(t, int64(1), unlocks)

	err = f.completions.Remove(f.user.ID, f.habit.ID, day)
	assert.ErrorIs(t, err, ErrCompletionNotFound)
}

func TestAchievementUnlocksAtMostOnce(t *testing.T) {
	f := setup(t)
	day := f.today()

	_, err := f.completions.Record(f.user.ID, f.habit.ID, day)
	require.NoError(t, err)
	require.NoError(t, f.completions.Remove(f.user.ID, f.habit.ID, day))

	// Condition re-triggers but the existing unlock must survive untouched.
	result, err := f.completions.Record(f.user.ID, f.habit.ID, day)
	require.NoError(t, err)
	assert.NotContains(t, result.Rewards.NewAchievements, "first_step")

	var unlocks int64
	f.db.Model(&models.AchievementUnlock{}).
		Where("user_id = ? AND achievement_key = ?", f.user.ID, "first_step").
		Count(&unlocks)
	assert.Equal(t, int64(1), unlocks)
}

func TestUncompleteReducesCurrentNotLongest(t *testing.T) {
	f := setup(t)
	today := f.today()

	for i := 2; i >= 0; i-- {
		_, err := f.completions.Record(f.user.ID, f.habit.ID, today.AddDate(0, 0, -i))
		require.NoError(t, err)
	}

	st, err := f.completions.Streak(f.user.ID, f.habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Current)

	require.NoError(t, f.completions.Remove(f.user.ID, f.habit.ID, today))

	st, err = f.completions.Streak(f.user.ID, f.habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Current)

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LongestStreak, "denormalized longest streak is never reduced")
}

func TestLevelUpOnThresholdCross(t *testing.T) {
	f := setup(t)
	today := f.today()

	first, err := f.completions.Record(f.user.ID, f.habit.ID, today.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.False(t, first.Rewards.LeveledUp)

	second, err := f.completions.Record(f.user.ID, f.habit.ID, today)
	require.NoError(t, err)
	assert.True(t, second.Rewards.LeveledUp, "crossing the 100 XP threshold levels up")

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Level)
}

func TestRecordDefaultsToUserLocalDay(t *testing.T) {
	f := setup(t)

	f.user.Timezone = "Pacific/Kiritimati" // UTC+14
	require.NoError(t, f.db.Save(&f.user).Error)

	loc, err := time.LoadLocation("Pacific/Kiritimati")
	require.NoError(t, err)
	want := NormalizeDay(time.Now().In(loc))

	result, err := f.completions.Record(f.user.ID, f.habit.ID, time.Time{})
	require.NoError(t, err)
	assert.True(t, result.Completion.CompletedDate.Equal(want),
		"zero day resolves to the user's local calendar day")
	assert.Equal(t, 1, result.Streak.Current)
}

func TestChallengeProgressClampAndSingleGrant(t *testing.T) {
	f := setup(t)
	today := f.today()

	group := models.Group{OwnerID: f.user.ID, Name: "Runners"}
	require.NoError(t, f.db.Create(&group).Error)
	require.NoError(t, f.db.Create(&models.GroupMember{GroupID: group.ID, UserID: f.user.ID, Role: "owner"}).Error)

	challenge := models.Challenge{
		GroupID:        group.ID,
		Title:          "Run Club Sprint",
		TargetCategory: "general",
		StartDate:      today.AddDate(0, 0, -10),
		EndDate:        today.AddDate(0, 0, 10),
		GoalCount:      2,
		XPReward:       100,
		CoinReward:     25,
	}
	require.NoError(t, f.db.Create(&challenge).Error)
	assert.Equal(t, "run-club-sprint", challenge.ID, "challenge id is the title slug")

	_, err := f.challenges.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	for i := 2; i >= 0; i-- {
		_, err := f.completions.Record(f.user.ID, f.habit.ID, today.AddDate(0, 0, -i))
		require.NoError(t, err)
	}

	var participant models.ChallengeParticipant
	require.NoError(t, f.db.Where("challenge_id = ? AND user_id = ?", challenge.ID, f.user.ID).First(&participant).Error)
	assert.Equal(t, 2, participant.ProgressCount, "progress clamps at the goal")
	assert.True(t, participant.RewardGranted)

	var grants int64
	f.db.Model(&models.RewardEvent{}).
		Where("user_id = ? AND source_type = ? AND source_id = ?", f.user.ID, models.RewardSourceChallenge, challenge.ID).
		Count(&grants)
	assert.Equal(t, int64(1), grants, "challenge reward granted exactly once")

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3*50+100), stats.XP)
}

func TestChallengeFirstDayCompletionCounts(t *testing.T) {
	f := setup(t)
	today := f.today()

	group := models.Group{OwnerID: f.user.ID, Name: "Kickoff"}
	require.NoError(t, f.db.Create(&group).Error)
	require.NoError(t, f.db.Create(&models.GroupMember{GroupID: group.ID, UserID: f.user.ID, Role: "owner"}).Error)

	// Window starts today: a completion logged on the first day must count.
	challenge := models.Challenge{
		GroupID:        group.ID,
		Title:          "Day One",
		TargetCategory: "general",
		StartDate:      today,
		EndDate:        today.AddDate(0, 0, 7),
		GoalCount:      5,
	}
	require.NoError(t, f.db.Create(&challenge).Error)

	_, err := f.challenges.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	_, err = f.completions.Record(f.user.ID, f.habit.ID, today)
	require.NoError(t, err)

	var participant models.ChallengeParticipant
	require.NoError(t, f.db.Where("challenge_id = ? AND user_id = ?", challenge.ID, f.user.ID).First(&participant).Error)
	assert.Equal(t, 1, participant.ProgressCount, "completion on the challenge's first day counts")
}

func TestJoinChallengeIsIdempotent(t *testing.T) {
	f := setup(t)
	today := f.today()

	group := models.Group{OwnerID: f.user.ID, Name: "Readers"}
	require.NoError(t, f.db.Create(&group).Error)
	require.NoError(t, f.db.Create(&models.GroupMember{GroupID: group.ID, UserID: f.user.ID, Role: "owner"}).Error)

	challenge := models.Challenge{
		GroupID:        group.ID,
		Title:          "Book Month",
		TargetCategory: "learning",
		StartDate:      today,
		EndDate:        today.AddDate(0, 0, 30),
		GoalCount:      10,
	}
	require.NoError(t, f.db.Create(&challenge).Error)

	first, err := f.challenges.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)

	second, err := f.challenges.Join(f.user.ID, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "rejoining returns the existing participant")
}

func TestPowerupPurchaseInsufficientFunds(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.db.Create(&models.Powerup{
		Key: "mega_boost", Name: "Mega Boost", CostCoins: 300, Effect: "xp_boost", DurationHours: 24,
	}).Error)

	profile, err := f.engine.EnsureProfile(f.db, f.user.ID)
	require.NoError(t, err)
	profile.Coins = 250
	require.NoError(t, f.db.Save(profile).Error)

	_, err = f.engine.PurchasePowerup(f.user.ID, "mega_boost")
	assert.ErrorIs(t, err, gamification.ErrInsufficientFunds)

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), stats.Coins, "balance unchanged on failed purchase")
}

func TestXPBoostDoublesCompletionXP(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.db.Create(&models.Powerup{
		Key: "xp_boost", Name: "XP Boost", CostCoins: 100, Effect: "xp_boost", DurationHours: 24,
	}).Error)

	profile, err := f.engine.EnsureProfile(f.db, f.user.ID)
	require.NoError(t, err)
	profile.Coins = 100
	require.NoError(t, f.db.Save(profile).Error)

	_, err = f.engine.PurchasePowerup(f.user.ID, "xp_boost")
	require.NoError(t, err)

	stats, err := f.engine.Stats(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Coins, "purchase debited the full cost")

	result, err := f.completions.Record(f.user.ID, f.habit.ID, f.today())
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Rewards.XPGained, "active boost doubles XP")
	assert.Equal(t, int64(10), result.Rewards.CoinsGained, "coin reward is not boosted by an xp boost")
}

func TestInactiveHabitRejectsCompletion(t *testing.T) {
	f := setup(t)

	f.habit.IsActive = false
	require.NoError(t, f.db.Save(&f.habit).Error)

	_, err := f.completions.Record(f.user.ID, f.habit.ID, f.today())
	assert.ErrorIs(t, err, ErrHabitInactive)
}

func TestRecordUnknownHabit(t *testing.T) {
	f := setup(t)

	_, err := f.completions.Record(f.user.ID, uuid.New(), f.today())
	assert.ErrorIs(t, err, ErrHabitNotFound)
}
