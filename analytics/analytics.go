// Package analytics derives study statistics from session history and card
// scheduling state. Everything here is pure; loading rows is the caller's job.
package analytics

import (
	"math"
	"time"
)

// MasteredRepetitions is how many successful reviews in a row make a card
// count as mastered.
const MasteredRepetitions = 5

// DifficultEaseFactor marks reviewed cards whose ease has dropped below it.
const DifficultEaseFactor = 2.0

// PatternWindow and InsightWindow bound the history the pattern and insight
// views look at.
const (
	PatternWindow = 30
	InsightWindow = 30
)

type Session struct {
	DeckID          uint
	CardsStudied    int
	CorrectCount    int
	DurationSeconds int
	CompletedAt     time.Time
}

type Card struct {
	DeckID      uint
	Repetitions int
	EaseFactor  float64
}

// Percent rounds part/whole to a whole percentage, 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

type Mastery string

const (
	MasteryNew      Mastery = "new"
	MasteryLearning Mastery = "learning"
	MasteryMastered Mastery = "mastered"
)

func MasteryOf(repetitions int) Mastery {
	switch {
	case repetitions >= MasteredRepetitions:
		return MasteryMastered
	case repetitions > 0:
		return MasteryLearning
	default:
		return MasteryNew
	}
}

type CardCounts struct {
	Mastered int `json:"cardsMastered"`
	Learning int `json:"cardsLearning"`
	New      int `json:"cardsNew"`
}

func (c *CardCounts) Add(card Card) {
	switch MasteryOf(card.Repetitions) {
	case MasteryMastered:
		c.Mastered++
	case MasteryLearning:
		c.Learning++
	default:
		c.New++
	}
}

func (c CardCounts) Total() int {
	return c.Mastered + c.Learning + c.New
}

func CountCards(cards []Card) CardCounts {
	var out CardCounts
	for _, c := range cards {
		out.Add(c)
	}
	return out
}

type Totals struct {
	CardsStudied int
	CorrectCount int
	StudySeconds int
	Sessions     int
	LastStudied  *time.Time
}

func (t *Totals) Add(s Session) {
	t.CardsStudied += s.CardsStudied
	t.CorrectCount += s.CorrectCount
	t.StudySeconds += s.DurationSeconds
	t.Sessions++
	if t.LastStudied == nil || s.CompletedAt.After(*t.LastStudied) {
		at := s.CompletedAt
		t.LastStudied = &at
	}
}

// Accuracy is correct answers over cards studied.
func (t Totals) Accuracy() int {
	return Percent(t.CorrectCount, t.CardsStudied)
}

func Sum(sessions []Session) Totals {
	var out Totals
	for _, s := range sessions {
		out.Add(s)
	}
	return out
}

type Overall struct {
	TotalCardsStudied int `json:"totalCardsStudied"`
	TotalStudyTime    int `json:"totalStudyTime"`
	TotalSessions     int `json:"totalSessions"`
	AverageAccuracy   int `json:"averageAccuracy"`
	BestStreak        int `json:"bestStreak"`
	CurrentStreak     int `json:"currentStreak"`
	CardCounts
}

// OverallStats covers the whole history. Streaks are filled in by the caller.
func OverallStats(sessions []Session, cards []Card) Overall {
	t := Sum(sessions)
	return Overall{
		TotalCardsStudied: t.CardsStudied,
		TotalStudyTime:    t.StudySeconds,
		TotalSessions:     t.Sessions,
		AverageAccuracy:   t.Accuracy(),
		CardCounts:        CountCards(cards),
	}
}
