// Package streak derives current and longest streaks from a habit's
// completion history. Nothing here is stored; callers recompute from the
// completion ledger so streaks can never drift from it.
package streak

import (
	"time"

	"github.com/habitflow/habitflow-api/internal/models"
)

type Result struct {
	Current       int        `json:"current"`
	Longest       int        `json:"longest"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
}

// Compute walks the completion history with frequency-aware adjacency:
// one day at a time for DAILY, Monday-Friday only for WEEKDAYS (weekends
// neither break nor extend the run), one ISO week at a time for WEEKLY
// (any completion within a week satisfies it).
//
// The current period is allowed to be pending: if today has no completion
// yet, the walk starts at the previous period instead of reporting zero.
func Compute(frequency string, completions []time.Time, today time.Time) Result {
	periods := make(map[time.Time]bool)
	var last *time.Time
	for _, c := range completions {
		d := dayOf(c)
		if last == nil || d.After(*last) {
			t := d
			last = &t
		}
		p, ok := periodOf(frequency, d)
		if !ok {
			continue
		}
		periods[p] = true
	}

	res := Result{LastCompleted: last}
	if len(periods) == 0 {
		return res
	}

	// Current: start at today's period, falling back one period when today
	// is still pending.
	cur := currentPeriod(frequency, dayOf(today))
	if !periods[cur] {
		cur = prevPeriod(frequency, cur)
	}
	for periods[cur] {
		res.Current++
		cur = prevPeriod(frequency, cur)
	}

	// Longest: scan every run in the full history.
	for p := range periods {
		if periods[prevPeriod(frequency, p)] {
			continue // not a run start
		}
		n := 0
		for q := p; periods[q]; q = nextPeriod(frequency, q) {
			n++
		}
		if n > res.Longest {
			res.Longest = n
		}
	}

	return res
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// periodOf maps a completion day to its streak period. Weekend completions
// of a WEEKDAYS habit belong to no expected period.
func periodOf(frequency string, day time.Time) (time.Time, bool) {
	switch frequency {
	case models.FrequencyWeekly:
		return weekStart(day), true
	case models.FrequencyWeekdays:
		if isWeekend(day) {
			return time.Time{}, false
		}
		return day, true
	default:
		return day, true
	}
}

// currentPeriod is the most recent period that could hold a completion as of
// the given day.
func currentPeriod(frequency string, day time.Time) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return weekStart(day)
	case models.FrequencyWeekdays:
		for isWeekend(day) {
			day = day.AddDate(0, 0, -1)
		}
		return day
	default:
		return day
	}
}

func prevPeriod(frequency string, p time.Time) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return p.AddDate(0, 0, -7)
	case models.FrequencyWeekdays:
		p = p.AddDate(0, 0, -1)
		for isWeekend(p) {
			p = p.AddDate(0, 0, -1)
		}
		return p
	default:
		return p.AddDate(0, 0, -1)
	}
}

func nextPeriod(frequency string, p time.Time) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return p.AddDate(0, 0, 7)
	case models.FrequencyWeekdays:
		p = p.AddDate(0, 0, 1)
		for isWeekend(p) {
			p = p.AddDate(0, 0, 1)
		}
		return p
	default:
		return p.AddDate(0, 0, 1)
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// weekStart returns the Monday of the day's ISO week.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
