package paths

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func threeStagePath() Path {
	return Path{
		Stages: NewStages([]Stage{
			{DeckID: 1, DeckName: "Greetings"},
			{DeckID: 2, DeckName: "Food", TargetAccuracy: 90},
			{DeckID: 3, DeckName: "Travel"},
		}),
		Status: PathActive,
	}
}

func TestNewStages(t *testing.T) {
	p := threeStagePath()
	assert.Equal(t, StageActive, p.Stages[0].Status)
	assert.Equal(t, StageLocked, p.Stages[1].Status)
	assert.Equal(t, StageLocked, p.Stages[2].Status)
	assert.Equal(t, DefaultTargetAccuracy, p.Stages[0].TargetAccuracy)
	assert.Equal(t, 90, p.Stages[1].TargetAccuracy)
}

func TestSync_FirstStageUnlocksSecond(t *testing.T) {
	p := threeStagePath()
	totals := map[uint]DeckTotals{
		1: {CardsStudied: 20, CorrectCount: 17, IncorrectCount: 3, TotalCards: 20},
		2: {CardsStudied: 4, CorrectCount: 2, IncorrectCount: 2, TotalCards: 30},
	}

	got := Sync(p, totals, now)
	assert.Equal(t, StageCompleted, got.Stages[0].Status)
	require.NotNil(t, got.Stages[0].Progress.CompletedAt)
	assert.Equal(t, now, *got.Stages[0].Progress.CompletedAt)
	assert.Equal(t, StageActive, got.Stages[1].Status)
	assert.Equal(t, StageLocked, got.Stages[2].Status)
	assert.Equal(t, 1, got.CurrentStageIndex)
	assert.Equal(t, PathActive, got.Status)

	// the promoted stage was evaluated in the same pass
	assert.Equal(t, 4, got.Stages[1].Progress.CardsStudied)
	assert.Equal(t, 30, got.Stages[1].Progress.TotalCards)

	// the input is not mutated
	assert.Equal(t, StageActive, p.Stages[0].Status)
}

func TestSync_AccuracyBelowTarget(t *testing.T) {
	p := threeStagePath()
	got := Sync(p, map[uint]DeckTotals{1: {CardsStudied: 20, CorrectCount: 10, IncorrectCount: 10, TotalCards: 20}}, now)
	assert.Equal(t, StageActive, got.Stages[0].Status)
	assert.Equal(t, 50, got.Stages[0].Progress.Accuracy)
	assert.Equal(t, 0, got.CurrentStageIndex)
}

func TestSync_EmptyDeckNeverCompletes(t *testing.T) {
	p := threeStagePath()
	got := Sync(p, map[uint]DeckTotals{1: {}}, now)
	assert.Equal(t, StageActive, got.Stages[0].Status)
}

func TestSync_MissingDeckKeepsStoredSize(t *testing.T) {
	p := threeStagePath()
	p.Stages[0].Progress.TotalCards = 10

	got := Sync(p, map[uint]DeckTotals{1: {CardsStudied: 10, CorrectCount: 9, IncorrectCount: 1, DeckMissing: true}}, now)
	assert.Equal(t, 10, got.Stages[0].Progress.TotalCards)
	assert.Equal(t, StageCompleted, got.Stages[0].Status)
	assert.Equal(t, StageActive, got.Stages[1].Status)
}

func TestSync_CascadeIsIdempotent(t *testing.T) {
	p := threeStagePath()
	totals := map[uint]DeckTotals{
		1: {CardsStudied: 10, CorrectCount: 10, TotalCards: 10},
		2: {CardsStudied: 10, CorrectCount: 10, TotalCards: 10},
	}

	first := Sync(p, totals, now)
	assert.Equal(t, StageCompleted, first.Stages[0].Status)
	assert.Equal(t, StageCompleted, first.Stages[1].Status)
	assert.Equal(t, StageActive, first.Stages[2].Status)
	assert.Equal(t, 2, first.CurrentStageIndex)

	second := Sync(first, totals, now.Add(time.Hour))
	assert.Equal(t, first, second)
}

func TestSync_CompletedStagesNeverRegress(t *testing.T) {
	p := threeStagePath()
	p = Sync(p, map[uint]DeckTotals{1: {CardsStudied: 10, CorrectCount: 10, TotalCards: 10}}, now)
	require.Equal(t, StageCompleted, p.Stages[0].Status)
	completedAt := *p.Stages[0].Progress.CompletedAt

	// deck grew and accuracy fell
	later := now.Add(48 * time.Hour)
	p = Sync(p, map[uint]DeckTotals{1: {CardsStudied: 10, CorrectCount: 10, IncorrectCount: 30, TotalCards: 50}}, later)
	assert.Equal(t, StageCompleted, p.Stages[0].Status)
	assert.Equal(t, completedAt, *p.Stages[0].Progress.CompletedAt)
	assert.Equal(t, 1, ActiveStages(p.Stages))
}

func TestSync_ExactlyOneActiveStage(t *testing.T) {
	p := threeStagePath()
	steps := []map[uint]DeckTotals{
		{},
		{1: {CardsStudied: 5, CorrectCount: 5, TotalCards: 10}},
		{1: {CardsStudied: 10, CorrectCount: 9, IncorrectCount: 1, TotalCards: 10}},
		{1: {CardsStudied: 10, CorrectCount: 9, IncorrectCount: 1, TotalCards: 10}, 2: {CardsStudied: 3, CorrectCount: 3, TotalCards: 8}},
	}
	for i, totals := range steps {
		p = Sync(p, totals, now)
		require.Equal(t, PathActive, p.Status, "step %d", i)
		assert.Equal(t, 1, ActiveStages(p.Stages), "step %d", i)
	}
}

func TestSync_AllCompletedCompletesPath(t *testing.T) {
	p := threeStagePath()
	totals := map[uint]DeckTotals{
		1: {CardsStudied: 10, CorrectCount: 10, TotalCards: 10},
		2: {CardsStudied: 10, CorrectCount: 10, TotalCards: 10},
		3: {CardsStudied: 12, CorrectCount: 11, IncorrectCount: 1, TotalCards: 10},
	}
	got := Sync(p, totals, now)
	assert.Equal(t, PathCompleted, got.Status)
	assert.Equal(t, 0, ActiveStages(got.Stages))
	assert.Equal(t, 100, OverallProgress(got))
}

func TestSync_PausedPathKeepsStatus(t *testing.T) {
	p := threeStagePath()
	p.Status = PathPaused
	got := Sync(p, map[uint]DeckTotals{1: {CardsStudied: 10, CorrectCount: 10, TotalCards: 10}}, now)
	assert.Equal(t, PathPaused, got.Status)
	assert.Equal(t, StageActive, got.Stages[1].Status)
}

func TestOverallProgress(t *testing.T) {
	p := Path{Stages: []Stage{
		{Progress: StageProgress{CardsStudied: 20, TotalCards: 10}},
		{Progress: StageProgress{CardsStudied: 5, TotalCards: 10}},
		{Progress: StageProgress{}},
	}}
	assert.Equal(t, 50, OverallProgress(p))
	assert.Equal(t, 0, OverallProgress(Path{}))
}

func typingPath() TypingPath {
	return TypingPath{
		Stages: NewTypingStages([]TypingStage{
			{SnippetID: 1, TargetWPM: 35, TargetAccuracy: 95},
			{SnippetID: 2},
		}),
		Status: PathActive,
	}
}

func TestRecordAttempt_KeepsBestAndUnlocks(t *testing.T) {
	p := typingPath()
	assert.Equal(t, DefaultTargetWPM, p.Stages[1].TargetWPM)

	p, err := RecordAttempt(p, 0, 30.4, 97, now)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stages[0].Progress.Attempts)
	assert.Equal(t, 30, p.Stages[0].Progress.BestWPM)
	assert.Equal(t, StageActive, p.Stages[0].Status)

	p, err = RecordAttempt(p, 0, 41, 93, now)
	require.NoError(t, err)
	assert.Equal(t, 41, p.Stages[0].Progress.BestWPM)
	assert.Equal(t, 97, p.Stages[0].Progress.BestAccuracy)
	assert.Equal(t, StageActive, p.Stages[0].Status, "no single attempt met both targets")

	p, err = RecordAttempt(p, 0, 42, 96, now)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stages[0].Progress.Attempts)
	assert.Equal(t, StageCompleted, p.Stages[0].Status)
	assert.Equal(t, StageActive, p.Stages[1].Status)
	assert.Equal(t, 1, p.CurrentStageIndex)

	p, err = RecordAttempt(p, 1, 40, 95, now)
	require.NoError(t, err)
	assert.Equal(t, PathCompleted, p.Status)
}

func TestRecordAttempt_Rejects(t *testing.T) {
	p := typingPath()
	var aerr *AttemptError

	_, err := RecordAttempt(p, 1, 50, 100, now)
	assert.ErrorAs(t, err, &aerr)
	_, err = RecordAttempt(p, 5, 50, 100, now)
	assert.ErrorAs(t, err, &aerr)
	_, err = RecordAttempt(p, -1, 50, 100, now)
	assert.ErrorAs(t, err, &aerr)
	_, err = RecordAttempt(p, 0, 50, 120, now)
	assert.ErrorAs(t, err, &aerr)
}
