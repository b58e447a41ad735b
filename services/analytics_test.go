package services

import (
	"context"
	"testing"
	"time"

	"github.com/andrewpaige1/lingodeck-api/analytics"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics(t *testing.T) {
	s, clk := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|stats")
	a := newTestDeck(t, s, u.ID, "A", 4)
	b := newTestDeck(t, s, u.ID, "B", 2)

	// two cards of A reviewed a few times, one mastered
	var cards []models.Card
	require.NoError(t, s.DB.Where("deck_id = ?", a.ID).Order("id asc").Find(&cards).Error)
	require.NoError(t, s.DB.Model(&cards[0]).Updates(map[string]interface{}{"repetitions": 5, "ease_factor": 2.6}).Error)
	require.NoError(t, s.DB.Model(&cards[1]).Updates(map[string]interface{}{"repetitions": 2, "ease_factor": 1.8}).Error)

	clk.advance(-48 * time.Hour)
	_, err := s.RecordSession(ctx, u.ID, SessionInput{DeckID: a.PublicID, CardsStudied: 10, CorrectCount: 6, IncorrectCount: 4, DurationSeconds: 300})
	require.NoError(t, err)
	clk.advance(24 * time.Hour)
	_, err = s.RecordSession(ctx, u.ID, SessionInput{DeckID: a.PublicID, CardsStudied: 10, CorrectCount: 7, IncorrectCount: 3, DurationSeconds: 200})
	require.NoError(t, err)
	clk.advance(24 * time.Hour)
	_, err = s.RecordSession(ctx, u.ID, SessionInput{DeckID: b.PublicID, CardsStudied: 20, CorrectCount: 19, IncorrectCount: 1, DurationSeconds: 100})
	require.NoError(t, err)

	overall, err := s.OverallStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, overall.TotalCardsStudied)
	assert.Equal(t, 600, overall.TotalStudyTime)
	assert.Equal(t, 3, overall.TotalSessions)
	assert.Equal(t, 80, overall.AverageAccuracy)
	assert.Equal(t, 3, overall.CurrentStreak)
	assert.Equal(t, 3, overall.BestStreak)
	assert.Equal(t, analytics.CardCounts{Mastered: 1, Learning: 1, New: 4}, overall.CardCounts)

	days, err := s.TimeStats(ctx, u.ID, analytics.Week)
	require.NoError(t, err)
	require.Len(t, days, 8)
	assert.Equal(t, "2026-03-04", days[0].Period)
	assert.Equal(t, analytics.TimeStats{Period: "2026-03-11", CardsStudied: 20, StudyTime: 100, Accuracy: 95, SessionsCount: 1}, days[7])

	all, err := s.TimeStats(ctx, u.ID, analytics.All)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-09", all[0].Period)

	decks, err := s.DeckStats(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	byName := map[string]DeckStats{}
	for _, d := range decks {
		byName[d.DeckName] = d
	}
	assert.Equal(t, 4, byName["A"].TotalCards)
	assert.Equal(t, 20, byName["A"].CardsStudied)
	assert.Equal(t, 65, byName["A"].AverageAccuracy)
	assert.Equal(t, 500, byName["A"].StudyTime)
	assert.Equal(t, 1, byName["A"].Mastered)
	require.NotNil(t, byName["A"].LastStudied)
	assert.True(t, byName["A"].LastStudied.Equal(wednesday.AddDate(0, 0, -1)))
	assert.Equal(t, 2, byName["B"].New)

	patterns, err := s.StudyPatterns(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, patterns.HourOfDay[10])
	assert.Equal(t, 10, patterns.BestHour)
	assert.Equal(t, int(time.Wednesday), patterns.BestDay)

	insights, err := s.LearningInsights(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, insights.RetentionRate)
	assert.Equal(t, analytics.Improving, insights.ImprovementTrend)
	assert.Equal(t, 10, insights.StreakConsistency)
	assert.Equal(t, 1, insights.DifficultCardsCount)

	combined, err := s.Analytics(ctx, u.ID, analytics.Month)
	require.NoError(t, err)
	assert.Len(t, combined.TimeStats, 29)
	assert.Equal(t, overall, combined.Overall)
}

func TestOverallStats_BestStreakSurvivesReset(t *testing.T) {
	s, clk := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|best")
	deck := newTestDeck(t, s, u.ID, "D", 1)
	in := SessionInput{DeckID: deck.PublicID, CardsStudied: 1, CorrectCount: 1}

	for i := 0; i < 3; i++ {
		_, err := s.RecordSession(ctx, u.ID, in)
		require.NoError(t, err)
		clk.advance(24 * time.Hour)
	}
	clk.advance(72 * time.Hour)
	_, err := s.RecordSession(ctx, u.ID, in)
	require.NoError(t, err)

	overall, err := s.OverallStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overall.CurrentStreak)
	assert.Equal(t, 3, overall.BestStreak)
}
