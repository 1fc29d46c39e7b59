package gamification

import (
	"math"

	"github.com/habitflow/habitflow-api/internal/models"
)

// Curve holds cumulative XP thresholds: Curve[i] is the XP required to hold
// level i+1. Curve[0] is 0 and values strictly increase, so the level for a
// given XP total is well defined and monotonic.
type Curve []int64

// BaseXPPerLevel feeds the default curve: reaching level n+1 from level n
// costs floor(100 * n^1.2) XP.
const BaseXPPerLevel = 100

const maxLevel = 100

var DefaultCurve = buildCurve(BaseXPPerLevel, maxLevel)

func buildCurve(base float64, levels int) Curve {
	c := make(Curve, levels)
	var total int64
	for n := 1; n < levels; n++ {
		total += int64(math.Floor(base * math.Pow(float64(n), 1.2)))
		c[n] = total
	}
	return c
}

// LevelForXP returns the level held at the given cumulative XP.
func (c Curve) LevelForXP(xp int64) int {
	level := 1
	for i := 1; i < len(c); i++ {
		if xp < c[i] {
			break
		}
		level = i + 1
	}
	return level
}

// Progress reports position within the current level, recomputed from XP on
// every call so it cannot drift from the ledger.
func (c Curve) Progress(xp int64) models.XPProgress {
	level := c.LevelForXP(xp)
	current := c[level-1]

	if level >= len(c) {
		return models.XPProgress{CurrentLevelXP: current, NextLevelXP: current, Progress: 100}
	}

	next := c[level]
	pct := int(float64(xp-current) / float64(next-current) * 100)
	return models.XPProgress{CurrentLevelXP: current, NextLevelXP: next, Progress: pct}
}
