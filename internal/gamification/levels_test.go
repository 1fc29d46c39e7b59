package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	curve := Curve{0, 100, 250}

	tests := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{9999, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, curve.LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestProgressHalfwayThroughFirstLevel(t *testing.T) {
	curve := Curve{0, 100, 250}

	p := curve.Progress(50)
	assert.Equal(t, int64(0), p.CurrentLevelXP)
	assert.Equal(t, int64(100), p.NextLevelXP)
	assert.Equal(t, 50, p.Progress)
}

func TestProgressAtMaxLevel(t *testing.T) {
	curve := Curve{0, 100}

	p := curve.Progress(500)
	assert.Equal(t, 100, p.Progress)
}

func TestDefaultCurveStrictlyIncreasing(t *testing.T) {
	for i := 1; i < len(DefaultCurve); i++ {
		assert.Greater(t, DefaultCurve[i], DefaultCurve[i-1], "threshold %d", i)
	}
}

func TestLevelMonotonicInXP(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 5000; xp += 37 {
		level := DefaultCurve.LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}
