package services

import (
	"context"
	"testing"

	"github.com/andrewpaige1/lingodeck-api/achievements"
	"github.com/andrewpaige1/lingodeck-api/goals"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(records []models.UserAchievement) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.AchievementID
	}
	return out
}

func TestUserStats(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|stats")
	done := newTestDeck(t, s, u.ID, "Done", 5)
	newTestDeck(t, s, u.ID, "Untouched", 5)
	newTestDeck(t, s, u.ID, "Empty", 0)

	study(t, s, u.ID, done.PublicID, 60, 50, 10)
	study(t, s, u.ID, done.PublicID, 60, 55, 5)
	_, err := s.CreateGoal(ctx, u.ID, GoalInput{Type: goals.Weekly, Targets: goals.Targets{CardsToStudy: 10}})
	require.NoError(t, err)

	stats, err := s.UserStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 120, stats.TotalCardsStudied)
	assert.Equal(t, 88, stats.OverallAccuracy)
	assert.Equal(t, 1, stats.DecksCompleted)
	assert.Equal(t, 1, stats.GoalsCompleted)
	assert.Equal(t, 0, stats.PathsCompleted)
	assert.Equal(t, 120, stats.TodayCardsStudied)
	assert.True(t, stats.HasStudiedCard)
	assert.True(t, stats.HasCreatedDeck)
	assert.True(t, stats.HasCreatedGoal)
	assert.False(t, stats.HasCreatedPath)
}

func TestCheckAndUnlock(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|ach")
	deck := newTestDeck(t, s, u.ID, "Deck", 30)

	got, err := s.CheckAndUnlock(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-deck"}, ids(got))
	assert.Equal(t, models.UserAchievementID(u.ID, "first-deck"), got[0].ID)

	study(t, s, u.ID, deck.PublicID, 30, 30, 0)
	got, err = s.CheckAndUnlock(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first-card", "deck-1", "speed-25"}, ids(got))

	again, err := s.CheckAndUnlock(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again)

	// Deleting the deck drops the stats but not the unlocks.
	_, err = s.DeleteUserDecks(ctx, u.ID)
	require.NoError(t, err)
	_, err = s.CheckAndUnlock(ctx, u.ID)
	require.NoError(t, err)

	all, err := s.WithStatus(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, all, len(achievements.Definitions))
	byID := map[string]AchievementStatus{}
	for _, a := range all {
		byID[a.ID] = a
	}
	assert.True(t, byID["deck-1"].Unlocked)
	assert.Equal(t, 1, byID["deck-1"].Progress)
	assert.False(t, byID["streak-3"].Unlocked)
	assert.Equal(t, 1, byID["streak-3"].Progress)
	assert.Equal(t, 3, byID["streak-3"].MaxProgress)
}

func TestRecordUnlocks_SkipsRowsAlreadyStored(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|race")
	newTestDeck(t, s, u.ID, "Deck", 1)

	first, err := s.CheckAndUnlock(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"first-deck"}, ids(first))

	// a second check that evaluated before the first one wrote its rows
	var firstDeck, firstCard achievements.Definition
	for _, d := range achievements.Definitions {
		switch d.ID {
		case "first-deck":
			firstDeck = d
		case "first-card":
			firstCard = d
		}
	}
	got, err := s.recordUnlocks(ctx, u.ID, []achievements.Unlock{
		{Definition: firstDeck, Progress: 1},
		{Definition: firstCard, Progress: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first-card"}, ids(got))

	pending, err := s.Unnotified(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestNotified(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|note")
	newTestDeck(t, s, u.ID, "Deck", 1)
	_, err := s.CheckAndUnlock(ctx, u.ID)
	require.NoError(t, err)

	pending, err := s.Unnotified(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "first-deck", pending[0].ID)
	assert.True(t, pending[0].Unlocked)

	require.NoError(t, s.MarkNotified(ctx, u.ID, "first-deck"))
	pending, err = s.Unnotified(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, s.MarkNotified(ctx, u.ID, "streak-100"), ErrNotFound)

	sum, err := s.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalUnlocked)
	assert.Equal(t, len(achievements.Definitions), sum.TotalAchievements)
	require.NotNil(t, sum.RecentUnlock)
	assert.True(t, sum.RecentUnlock.Notified)
}
