package gamification

import "time"

// RuleContext is the user state an achievement rule is evaluated against,
// captured after the triggering action has been applied.
type RuleContext struct {
	TotalCompletions int64
	CurrentStreak    int
	LongestStreak    int
	Level            int
	CategoryCounts   map[string]int64
}

type Rule struct {
	Key         string
	Name        string
	Description string
	Met         func(ctx RuleContext) bool
}

// Rules is the fixed achievement table. Rules only ever transition false to
// true from the unlock's point of view: once a key is recorded for a user it
// stays unlocked even if the condition later becomes false.
var Rules = []Rule{
	{
		Key:         "first_step",
		Name:        "First Step",
		Description: "Complete your first habit",
		Met:         func(ctx RuleContext) bool { return ctx.TotalCompletions >= 1 },
	},
	{
		Key:         "ten_strong",
		Name:        "Ten Strong",
		Description: "Log 10 completions",
		Met:         func(ctx RuleContext) bool { return ctx.TotalCompletions >= 10 },
	},
	{
		Key:         "half_century",
		Name:        "Half Century",
		Description: "Log 50 completions",
		Met:         func(ctx RuleContext) bool { return ctx.TotalCompletions >= 50 },
	},
	{
		Key:         "century_club",
		Name:        "Century Club",
		Description: "Log 100 completions",
		Met:         func(ctx RuleContext) bool { return ctx.TotalCompletions >= 100 },
	},
	{
		Key:         "week_of_fire",
		Name:        "Week of Fire",
		Description: "Hold a 7-day streak",
		Met:         func(ctx RuleContext) bool { return ctx.CurrentStreak >= 7 },
	},
	{
		Key:         "unstoppable",
		Name:        "Unstoppable",
		Description: "Hold a 30-day streak",
		Met:         func(ctx RuleContext) bool { return ctx.CurrentStreak >= 30 },
	},
	{
		Key:         "level_five",
		Name:        "High Five",
		Description: "Reach level 5",
		Met:         func(ctx RuleContext) bool { return ctx.Level >= 5 },
	},
	{
		Key:         "level_ten",
		Name:        "Double Digits",
		Description: "Reach level 10",
		Met:         func(ctx RuleContext) bool { return ctx.Level >= 10 },
	},
	{
		Key:         "iron_body",
		Name:        "Iron Body",
		Description: "Log 25 fitness completions",
		Met:         func(ctx RuleContext) bool { return ctx.CategoryCounts["fitness"] >= 25 },
	},
	{
		Key:         "clear_mind",
		Name:        "Clear Mind",
		Description: "Log 25 mindfulness completions",
		Met:         func(ctx RuleContext) bool { return ctx.CategoryCounts["mindfulness"] >= 25 },
	},
}

// AchievementStatus is the API view of one rule for one user.
type AchievementStatus struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}
