// Package review recomputes per-quiz review deadlines from a learner's score
// history using three independent multiplier tables.
package review

import (
	"time"

	"lingua-study-service/internal/domain"
)

// baseInterval is the interval scaled by the three multipliers.
const baseInterval = 3 * 24 * time.Hour

// recencyBucket maps an inclusive score range to a multiplier.
type recencyBucket struct {
	min, max   int
	multiplier float64
}

// recencyBuckets is contiguous and exhaustive over 0..100; kept ordered so
// lookup scans top-down.
var recencyBuckets = []recencyBucket{
	{90, 100, 3.0},
	{80, 89, 2.0},
	{60, 79, 1.0},
	{40, 59, 0.4},
	{0, 39, 0.2},
}

// Reschedule returns schedule with its deadline recomputed from the full
// score history for that quiz, most recent score last. An empty history
// leaves the schedule unchanged. All other fields are preserved.
func Reschedule(schedule domain.ReviewSchedule, scores []int, today time.Time) domain.ReviewSchedule {
	if len(scores) == 0 {
		return schedule
	}
	multiplier := recencyMultiplier(scores[len(scores)-1]) *
		streakMultiplier(scores) *
		averageMultiplier(scores)

	next := schedule
	next.ReviewDeadline = today.Add(time.Duration(float64(baseInterval) * multiplier))
	return next
}

// recencyMultiplier looks the latest score up in the ordered range table.
// Out-of-range input falls back to the lowest multiplier.
func recencyMultiplier(latest int) float64 {
	for _, b := range recencyBuckets {
		if latest >= b.min && latest <= b.max {
			return b.multiplier
		}
	}
	return recencyBuckets[len(recencyBuckets)-1].multiplier
}

// streakMultiplier rewards a trailing run of high scores (>=80) and penalizes
// a trailing run of low scores (<50). The two runs are counted independently
// from the most recent score backwards; high-run conditions are checked
// before low-run ones. A single-element history always yields 1.0.
func streakMultiplier(scores []int) float64 {
	if len(scores) < 2 {
		return 1.0
	}

	highRun := 0
	for i := len(scores) - 1; i >= 0 && scores[i] >= 80; i-- {
		highRun++
	}
	lowRun := 0
	for i := len(scores) - 1; i >= 0 && scores[i] < 50; i-- {
		lowRun++
	}

	switch {
	case highRun >= 4:
		return 2.0
	case highRun == 3:
		return 1.5
	case highRun == 2:
		return 1.2
	case lowRun >= 3:
		return 0.5
	case lowRun == 2:
		return 0.7
	}
	return 1.0
}

// averageMultiplier corrects for the overall level of the history.
func averageMultiplier(scores []int) float64 {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := float64(sum) / float64(len(scores))

	switch {
	case avg >= 80:
		return 1.2
	case avg >= 60:
		return 1.0
	case avg >= 40:
		return 0.8
	}
	return 0.6
}
