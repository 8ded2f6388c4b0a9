// Package stats derives read-only summaries from the persisted collections.
// Everything here is a pure function of its inputs — no I/O, no clock access
// (callers pass "now"), so the engine is testable without a store.
package stats

import (
	"math"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// WeeklySummary aggregates the current week's sessions.
type WeeklySummary struct {
	WorkoutsCount int     `json:"workoutsCount"`
	TotalCalories int     `json:"totalCalories"`
	TotalVolume   float64 `json:"totalVolume"`
}

// MonthlySummary counts the current month's sessions.
type MonthlySummary struct {
	WorkoutsCount int `json:"workoutsCount"`
}

// Weekly sums calories and volume over sessions dated on or after the start
// of the current week. The week starts on Sunday: midnight of now minus
// now.Weekday() days, in now's location.
func Weekly(workouts []models.WorkoutSession, now time.Time) WeeklySummary {
	start := weekStart(now)

	var sum WeeklySummary
	for _, w := range workouts {
		if w.Date.Before(start) {
			continue
		}
		sum.WorkoutsCount++
		sum.TotalCalories += w.Calories
		sum.TotalVolume += w.TotalVolume
	}
	return sum
}

// Monthly counts sessions dated on or after the first calendar day of the
// current month, in now's location.
func Monthly(workouts []models.WorkoutSession, now time.Time) MonthlySummary {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var sum MonthlySummary
	for _, w := range workouts {
		if !w.Date.Before(start) {
			sum.WorkoutsCount++
		}
	}
	return sum
}

// GoalProgress returns the goal's completion percentage, clamped into
// [0, 100]. A zero target is defined as 0% progress. The direction is always
// current/target — a weight-loss goal where lower is better is NOT inverted.
// That matches the behavior users have been shown since the first release;
// changing it would silently re-interpret existing goals.
func GoalProgress(g models.Goal) float64 {
	if g.Target == 0 {
		return 0
	}
	pct := g.Current / g.Target * 100
	return math.Min(100, math.Max(0, pct))
}

// DaysRemaining returns the calendar-day distance from now to the deadline,
// rounded up, and false when the goal has no deadline. Negative values mean
// the deadline passed that many days ago. Tomorrow's date yields 1,
// yesterday's -1.
func DaysRemaining(deadline string, now time.Time) (int, bool) {
	if deadline == "" {
		return 0, false
	}
	d, err := time.ParseInLocation("2006-01-02", deadline, now.Location())
	if err != nil {
		// Full timestamps are accepted too; the mobile client stored
		// whatever the date field held.
		d, err = time.Parse(time.RFC3339, deadline)
		if err != nil {
			return 0, false
		}
	}
	diff := d.Sub(now)
	return int(math.Ceil(diff.Hours() / 24)), true
}

func weekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(now.Weekday()))
}
