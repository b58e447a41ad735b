package goals

import (
	"math"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Targets are the thresholds a goal must reach within its period. Zero
// Accuracy or StreakDays means the target is not set.
type Targets struct {
	CardsToStudy int `json:"cardsToStudy"`
	Accuracy     int `json:"accuracy,omitempty"`
	StreakDays   int `json:"streakDays,omitempty"`
}

type Progress struct {
	CardsStudied  int `json:"cardsStudied"`
	Accuracy      int `json:"accuracy"`
	CurrentStreak int `json:"currentStreak"`
	DaysWithStudy int `json:"daysWithStudy"`
}

// Session is the slice of a study session the evaluator needs.
type Session struct {
	CardsStudied   int
	CorrectCount   int
	IncorrectCount int
	CompletedAt    time.Time
}

type Goal struct {
	Type    Type
	Period  string
	Targets Targets
}

type Result struct {
	Progress Progress
	Status   Status
}

// Evaluator recomputes goal progress in a fixed location so day boundaries
// are stable between runs.
type Evaluator struct {
	Location *time.Location
}

func NewEvaluator(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{Location: loc}
}

// Evaluate recomputes progress and status for g from the full session history.
// The result depends only on its inputs.
func (e *Evaluator) Evaluate(g Goal, sessions []Session, now time.Time) (Result, error) {
	start, end, err := PeriodRange(g.Type, g.Period, e.Location)
	if err != nil {
		return Result{}, err
	}
	progress := e.progress(start, end, sessions, now)
	return Result{Progress: progress, Status: EvaluateStatus(g.Targets, progress, end, now)}, nil
}

func (e *Evaluator) progress(start, end time.Time, sessions []Session, now time.Time) Progress {
	effectiveEnd := end
	if now.Before(end) {
		effectiveEnd = now
	}

	var cards, correct, incorrect int
	perDay := make(map[string]int)
	for _, s := range sessions {
		at := s.CompletedAt.In(e.Location)
		if at.Before(start) || at.After(effectiveEnd) {
			continue
		}
		cards += s.CardsStudied
		correct += s.CorrectCount
		incorrect += s.IncorrectCount
		perDay[dayKey(at)] += s.CardsStudied
	}

	days := 0
	for _, n := range perDay {
		if n > 0 {
			days++
		}
	}

	return Progress{
		CardsStudied:  cards,
		Accuracy:      Accuracy(correct, incorrect),
		CurrentStreak: e.streak(start, perDay, now),
		DaysWithStudy: days,
	}
}

// streak counts consecutive studied days walking back from today. An
// unstudied today does not break the streak; the walk stops at the period start.
func (e *Evaluator) streak(start time.Time, perDay map[string]int, now time.Time) int {
	today := now.In(e.Location)
	todayKey := dayKey(today)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, e.Location)

	streak := 0
	for !day.Before(start) {
		key := dayKey(day)
		if perDay[key] > 0 {
			streak++
		} else if key != todayKey {
			break
		}
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// EvaluateStatus is completed once every set target is met, failed once the
// period has ended without that, and active otherwise.
func EvaluateStatus(t Targets, p Progress, end, now time.Time) Status {
	cardsMet := p.CardsStudied >= t.CardsToStudy
	accuracyMet := t.Accuracy == 0 || p.Accuracy >= t.Accuracy
	streakMet := t.StreakDays == 0 || p.CurrentStreak >= t.StreakDays

	switch {
	case cardsMet && accuracyMet && streakMet:
		return StatusCompleted
	case now.After(end):
		return StatusFailed
	default:
		return StatusActive
	}
}

// Accuracy is the rounded percentage of correct answers, 0 with no answers.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
