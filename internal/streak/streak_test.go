package streak

import (
	"testing"
	"time"

	"github.com/habitflow/habitflow-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func days(ss ...string) []time.Time {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		out[i] = day(s)
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(models.FrequencyDaily, nil, day("2024-03-10"))
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 0, res.Longest)
	assert.Nil(t, res.LastCompleted)
}

func TestComputeDaily(t *testing.T) {
	tests := []struct {
		name        string
		completions []time.Time
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "five consecutive days ending today",
			completions: days("2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10"),
			today:       "2024-03-10",
			wantCurrent: 5,
			wantLongest: 5,
		},
		{
			name:        "gap resets current but not longest",
			completions: days("2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05"),
			today:       "2024-03-05",
			wantCurrent: 1,
			wantLongest: 3,
		},
		{
			name:        "today pending does not break the run",
			completions: days("2024-03-08", "2024-03-09"),
			today:       "2024-03-10",
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "completion after a break counts as one",
			completions: days("2024-03-01", "2024-03-10"),
			today:       "2024-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "stale history yields zero current",
			completions: days("2024-02-01", "2024-02-02"),
			today:       "2024-03-10",
			wantCurrent: 0,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(models.FrequencyDaily, tt.completions, day(tt.today))
			assert.Equal(t, tt.wantCurrent, res.Current, "current")
			assert.Equal(t, tt.wantLongest, res.Longest, "longest")
		})
	}
}

func TestComputeDailyUncompleteMostRecent(t *testing.T) {
	full := days("2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10")
	today := day("2024-03-10")

	before := Compute(models.FrequencyDaily, full, today)
	assert.Equal(t, 5, before.Current)

	after := Compute(models.FrequencyDaily, full[:4], today)
	assert.Equal(t, 4, after.Current, "removing the most recent day reduces current by exactly 1")
}

func TestComputeWeekdays(t *testing.T) {
	// 2024-03-07 Thu, 2024-03-08 Fri, 2024-03-11 Mon
	tests := []struct {
		name        string
		completions []time.Time
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "weekend does not break the chain",
			completions: days("2024-03-07", "2024-03-08", "2024-03-11"),
			today:       "2024-03-11",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "friday completion seen from sunday",
			completions: days("2024-03-08"),
			today:       "2024-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "missed friday breaks the chain",
			completions: days("2024-03-07", "2024-03-11"),
			today:       "2024-03-11",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "weekend completions are ignored",
			completions: days("2024-03-08", "2024-03-09", "2024-03-10"),
			today:       "2024-03-11",
			wantCurrent: 1,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(models.FrequencyWeekdays, tt.completions, day(tt.today))
			assert.Equal(t, tt.wantCurrent, res.Current, "current")
			assert.Equal(t, tt.wantLongest, res.Longest, "longest")
		})
	}
}

func TestComputeWeekly(t *testing.T) {
	tests := []struct {
		name        string
		completions []time.Time
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "three consecutive weeks then a gap",
			completions: days("2024-01-01", "2024-01-10", "2024-01-18", "2024-01-29"),
			today:       "2024-01-31",
			wantCurrent: 1,
			wantLongest: 3,
		},
		{
			name:        "multiple completions in one week count once",
			completions: days("2024-01-29", "2024-01-30", "2024-01-31"),
			today:       "2024-01-31",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "current week pending keeps last week's run",
			completions: days("2024-01-15", "2024-01-22"),
			today:       "2024-01-30",
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(models.FrequencyWeekly, tt.completions, day(tt.today))
			assert.Equal(t, tt.wantCurrent, res.Current, "current")
			assert.Equal(t, tt.wantLongest, res.Longest, "longest")
		})
	}
}

func TestComputeLastCompleted(t *testing.T) {
	res := Compute(models.FrequencyDaily, days("2024-03-01", "2024-03-05", "2024-03-03"), day("2024-03-10"))
	assert.NotNil(t, res.LastCompleted)
	assert.Equal(t, day("2024-03-05"), *res.LastCompleted)
}
