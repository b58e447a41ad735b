package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var today = time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return today.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

func TestMasteryOf(t *testing.T) {
	assert.Equal(t, MasteryNew, MasteryOf(0))
	assert.Equal(t, MasteryLearning, MasteryOf(1))
	assert.Equal(t, MasteryLearning, MasteryOf(4))
	assert.Equal(t, MasteryMastered, MasteryOf(5))
}

func TestOverallStats(t *testing.T) {
	sessions := []Session{
		{DeckID: 1, CardsStudied: 20, CorrectCount: 15, DurationSeconds: 300, CompletedAt: at(-2, 9)},
		{DeckID: 2, CardsStudied: 10, CorrectCount: 10, DurationSeconds: 120, CompletedAt: at(0, 9)},
	}
	cards := []Card{{Repetitions: 0}, {Repetitions: 2}, {Repetitions: 6}, {Repetitions: 5}}

	got := OverallStats(sessions, cards)
	assert.Equal(t, 30, got.TotalCardsStudied)
	assert.Equal(t, 420, got.TotalStudyTime)
	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, 83, got.AverageAccuracy)
	assert.Equal(t, CardCounts{Mastered: 2, Learning: 1, New: 1}, got.CardCounts)
	assert.Equal(t, 4, got.CardCounts.Total())

	empty := OverallStats(nil, nil)
	assert.Zero(t, empty.AverageAccuracy)
}

func TestPeriodStart(t *testing.T) {
	assert.Equal(t, today.AddDate(0, 0, -7), Week.Start(today, nil))
	assert.Equal(t, time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC), Month.Start(today, nil))
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), Year.Start(today, nil))
	assert.Equal(t, today, All.Start(today, nil))
	first := at(-3, 15)
	assert.Equal(t, today.AddDate(0, 0, -3), All.Start(today, &first))

	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, Week, p)
	_, err = ParsePeriod("decade")
	assert.Error(t, err)
}

func TestDaily_FillsEmptyDays(t *testing.T) {
	sessions := []Session{
		{CardsStudied: 10, CorrectCount: 8, DurationSeconds: 60, CompletedAt: at(-2, 9)},
		{CardsStudied: 10, CorrectCount: 10, DurationSeconds: 60, CompletedAt: at(-2, 20)},
		{CardsStudied: 4, CorrectCount: 1, DurationSeconds: 30, CompletedAt: at(0, 8)},
	}
	got := Daily(sessions, today.AddDate(0, 0, -3), today)
	require.Len(t, got, 4)
	assert.Equal(t, "2026-03-08", got[0].Period)
	assert.Zero(t, got[0].SessionsCount)
	assert.Equal(t, TimeStats{Period: "2026-03-09", CardsStudied: 20, StudyTime: 120, Accuracy: 90, SessionsCount: 2}, got[1])
	assert.Zero(t, got[2].CardsStudied)
	assert.Equal(t, 25, got[3].Accuracy)
}

func TestPatterns(t *testing.T) {
	sessions := []Session{
		{CardsStudied: 5, CompletedAt: at(0, 9)},
		{CardsStudied: 12, CompletedAt: at(-3, 21)},
		{CardsStudied: 3, CompletedAt: at(-7, 9)},
	}
	got := Patterns(sessions, time.UTC)
	assert.Equal(t, 8, got.HourOfDay[9])
	assert.Equal(t, 12, got.HourOfDay[21])
	assert.Equal(t, 21, got.BestHour)
	assert.Equal(t, 8, got.DayOfWeek[time.Wednesday])
	assert.Equal(t, 12, got.DayOfWeek[time.Sunday])
	assert.Equal(t, int(time.Sunday), got.BestDay)

	none := Patterns(nil, time.UTC)
	assert.Zero(t, none.BestHour)
	assert.Zero(t, none.BestDay)
}

func TestLearningInsights(t *testing.T) {
	sessions := []Session{
		{CardsStudied: 20, CorrectCount: 10, DurationSeconds: 100, CompletedAt: at(-5, 9)},
		{CardsStudied: 20, CorrectCount: 12, DurationSeconds: 200, CompletedAt: at(-4, 9)},
		{CardsStudied: 20, CorrectCount: 18, DurationSeconds: 300, CompletedAt: at(-1, 9)},
		{CardsStudied: 30, CorrectCount: 27, DurationSeconds: 400, CompletedAt: at(-1, 18)},
	}
	cards := []Card{
		{Repetitions: 2, EaseFactor: 1.7},
		{Repetitions: 0, EaseFactor: 1.3},
		{Repetitions: 4, EaseFactor: 2.5},
	}

	got := LearningInsights(sessions, cards, time.UTC)
	assert.Equal(t, 3, got.LearningVelocity)
	assert.Equal(t, 74, got.RetentionRate)
	assert.Equal(t, Improving, got.ImprovementTrend)
	assert.Equal(t, 10, got.StreakConsistency)
	assert.Equal(t, 250, got.AverageSessionLength)
	assert.Equal(t, 1, got.DifficultCardsCount)

	reversed := []Session{sessions[3], sessions[2], sessions[1], sessions[0]}
	assert.Equal(t, Declining, LearningInsights(reversed, nil, time.UTC).ImprovementTrend)

	empty := LearningInsights(nil, cards, time.UTC)
	assert.Equal(t, Stable, empty.ImprovementTrend)
	assert.Zero(t, empty.DifficultCardsCount)
}
