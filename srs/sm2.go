package srs

import (
	"math"
	"sort"
	"time"
)

// Default SRS values for new cards
const (
	DefaultInterval    = 0
	DefaultEaseFactor  = 2.5
	DefaultRepetitions = 0
	MinEaseFactor      = 1.3
)

// Quality is the self-graded recall quality of a review, 0 (blackout) to 5 (perfect).
type Quality int

// The UI exposes four buttons; 1 and 4 are valid but unused.
const (
	QualityAgain Quality = 0
	QualityHard  Quality = 2
	QualityGood  Quality = 3
	QualityEasy  Quality = 5
)

// PassThreshold is the lowest quality counted as a correct answer.
const PassThreshold Quality = 3

func (q Quality) Valid() bool {
	return q >= 0 && q <= 5
}

func (q Quality) Correct() bool {
	return q >= PassThreshold
}

// State is the per-card scheduling triple plus the next due time.
type State struct {
	Interval    int
	EaseFactor  float64
	Repetitions int
	NextReview  time.Time
}

// NewState returns the state of a freshly created card, due immediately.
func NewState(now time.Time) State {
	return State{
		Interval:    DefaultInterval,
		EaseFactor:  DefaultEaseFactor,
		Repetitions: DefaultRepetitions,
		NextReview:  now,
	}
}

// Review applies one SM-2 review to s and returns the updated state.
// The interval growth uses the ease factor from before this review.
func Review(s State, quality Quality, now time.Time) State {
	interval, repetitions := s.Interval, s.Repetitions

	if quality.Correct() {
		switch repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(math.Round(float64(interval) * s.EaseFactor))
		}
		repetitions++
	} else {
		repetitions = 0
		interval = 1
	}

	return State{
		Interval:    interval,
		EaseFactor:  NextEaseFactor(s.EaseFactor, quality),
		Repetitions: repetitions,
		NextReview:  now.AddDate(0, 0, interval),
	}
}

// NextEaseFactor is EF' = EF + (0.1 - (5-q)*(0.08+(5-q)*0.02)), floored at 1.3.
func NextEaseFactor(ef float64, quality Quality) float64 {
	d := 5.0 - float64(quality)
	return math.Max(MinEaseFactor, ef+(0.1-d*(0.08+d*0.02)))
}

// IsDue reports whether a card scheduled at nextReview should be shown at now.
func IsDue(nextReview, now time.Time) bool {
	return !nextReview.After(now)
}

// SortByDue orders items by their next review time, most overdue first.
func SortByDue[T any](items []T, nextReview func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return nextReview(items[i]).Before(nextReview(items[j]))
	})
}
