package services

import (
	"context"
	"testing"

	"github.com/andrewpaige1/lingodeck-api/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func study(t *testing.T, s *Store, userID uint, deckPublicID string, cards, correct, incorrect int) {
	t.Helper()
	_, err := s.RecordSession(context.Background(), userID, SessionInput{
		DeckID:         deckPublicID,
		CardsStudied:   cards,
		CorrectCount:   correct,
		IncorrectCount: incorrect,
	})
	require.NoError(t, err)
}

func TestCreatePath(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|lp")
	a := newTestDeck(t, s, u.ID, "A", 10)
	b := newTestDeck(t, s, u.ID, "B", 5)

	lp, err := s.CreatePath(ctx, u.ID, PathInput{Name: "Starter", DeckIDs: []string{b.PublicID, "missing", a.PublicID}})
	require.NoError(t, err)
	require.Len(t, lp.Stages, 2)
	assert.Equal(t, paths.PathActive, lp.Status)
	assert.Equal(t, "B", lp.Stages[0].DeckName)
	assert.Equal(t, paths.StageActive, lp.Stages[0].Status)
	assert.Equal(t, paths.StageLocked, lp.Stages[1].Status)
	assert.Equal(t, paths.DefaultTargetAccuracy, lp.Stages[1].TargetAccuracy)
	assert.Equal(t, 5, lp.Stages[0].TotalCards)

	_, err = s.CreatePath(ctx, u.ID, PathInput{Name: "Empty", DeckIDs: []string{"missing"}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.CreatePath(ctx, u.ID, PathInput{DeckIDs: []string{a.PublicID}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: name, deckIds", verr.Error())
}

func TestSyncPath_UnlocksInOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|sync")
	a := newTestDeck(t, s, u.ID, "A", 10)
	b := newTestDeck(t, s, u.ID, "B", 10)
	c := newTestDeck(t, s, u.ID, "C", 10)

	lp, err := s.CreatePath(ctx, u.ID, PathInput{Name: "Three", DeckIDs: []string{a.PublicID, b.PublicID, c.PublicID}})
	require.NoError(t, err)

	study(t, s, u.ID, a.PublicID, 10, 9, 1)
	lp, err = s.SyncPath(ctx, u.ID, lp.PublicID)
	require.NoError(t, err)
	assert.Equal(t, paths.StageCompleted, lp.Stages[0].Status)
	assert.NotNil(t, lp.Stages[0].CompletedAt)
	assert.Equal(t, paths.StageActive, lp.Stages[1].Status)
	assert.Equal(t, paths.StageLocked, lp.Stages[2].Status)
	assert.Equal(t, 1, lp.CurrentStageIndex)
	assert.Equal(t, 90, lp.Stages[0].Accuracy)

	stored, err := s.GetPath(ctx, u.ID, lp.PublicID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStageIndex)
	assert.Equal(t, paths.StageActive, stored.Stages[1].Status)
	assert.Equal(t, 33, stored.OverallProgress())

	// Below target accuracy: B stays active.
	study(t, s, u.ID, b.PublicID, 10, 5, 5)
	lp, err = s.SyncPath(ctx, u.ID, lp.PublicID)
	require.NoError(t, err)
	assert.Equal(t, paths.StageActive, lp.Stages[1].Status)
	assert.Equal(t, 50, lp.Stages[1].Accuracy)

	study(t, s, u.ID, b.PublicID, 20, 20, 0)
	study(t, s, u.ID, c.PublicID, 10, 10, 0)
	lp, err = s.SyncPath(ctx, u.ID, lp.PublicID)
	require.NoError(t, err)
	for _, st := range lp.Stages {
		assert.Equal(t, paths.StageCompleted, st.Status)
	}
	assert.Equal(t, paths.PathCompleted, lp.Status)

	paused := paths.PathPaused
	_, err = s.UpdatePath(ctx, u.ID, lp.PublicID, PathPatch{Status: &paused})
	assert.Error(t, err, "completed paths keep their status")
}

func TestSyncPath_DeletedDecks(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|gone")
	a := newTestDeck(t, s, u.ID, "A", 10)
	b := newTestDeck(t, s, u.ID, "B", 5)

	lp, err := s.CreatePath(ctx, u.ID, PathInput{Name: "Two", DeckIDs: []string{a.PublicID, b.PublicID}})
	require.NoError(t, err)

	study(t, s, u.ID, a.PublicID, 10, 9, 1)
	require.NoError(t, s.DeleteDeck(ctx, u.ID, a.PublicID))

	lp, err = s.SyncPath(ctx, u.ID, lp.PublicID)
	require.NoError(t, err)
	assert.Equal(t, paths.StageCompleted, lp.Stages[0].Status)
	assert.Equal(t, 10, lp.Stages[0].TotalCards)
	assert.Equal(t, 10, lp.Stages[0].CardsStudied)
	assert.Equal(t, paths.StageActive, lp.Stages[1].Status)
	assert.Equal(t, 1, lp.CurrentStageIndex)

	// hard deletes through the bulk wipe behave the same
	study(t, s, u.ID, b.PublicID, 5, 5, 0)
	_, err = s.DeleteUserDecks(ctx, u.ID)
	require.NoError(t, err)

	lp, err = s.SyncPath(ctx, u.ID, lp.PublicID)
	require.NoError(t, err)
	assert.Equal(t, 5, lp.Stages[1].TotalCards)
	assert.Equal(t, paths.StageCompleted, lp.Stages[1].Status)
	assert.Equal(t, paths.PathCompleted, lp.Status)
}

func TestUpdatePath(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|up")
	other := newTestUser(t, s, "auth0|up2")
	a := newTestDeck(t, s, u.ID, "A", 1)
	lp, err := s.CreatePath(ctx, u.ID, PathInput{Name: "Path", DeckIDs: []string{a.PublicID}})
	require.NoError(t, err)

	paused := paths.PathPaused
	name := "Renamed"
	got, err := s.UpdatePath(ctx, u.ID, lp.PublicID, PathPatch{Name: &name, Status: &paused})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, paths.PathPaused, got.Status)

	completed := paths.PathCompleted
	_, err = s.UpdatePath(ctx, u.ID, lp.PublicID, PathPatch{Status: &completed})
	assert.Error(t, err)

	_, err = s.UpdatePath(ctx, other.ID, lp.PublicID, PathPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetPath(ctx, AnyUser, lp.PublicID)
	assert.NoError(t, err)

	list, err := s.ListPaths(ctx, u.ID, paths.PathPaused)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.ListPaths(ctx, u.ID, paths.PathActive)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeletePaths(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "auth0|del")
	a := newTestDeck(t, s, u.ID, "A", 1)
	var ids []string
	for i := 0; i < 3; i++ {
		lp, err := s.CreatePath(ctx, u.ID, PathInput{Name: "P", DeckIDs: []string{a.PublicID}})
		require.NoError(t, err)
		ids = append(ids, lp.PublicID)
	}

	require.NoError(t, s.DeletePath(ctx, u.ID, ids[0]))
	_, err := s.GetPath(ctx, u.ID, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.DeleteAllPaths(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, err := s.ListPaths(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}
