package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions(t *testing.T) {
	assert.Len(t, Definitions, 25)

	seen := make(map[string]bool)
	for _, d := range Definitions {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.Positive(t, d.Criteria.Value, d.ID)
	}

	d, ok := ByID("path-3")
	require.True(t, ok)
	assert.Equal(t, Platinum, d.Tier)
	_, ok = ByID("nope")
	assert.False(t, ok)

	assert.Len(t, ByCategory(CategoryFirst), 4)
	assert.Len(t, ByCategory(CategorySpeed), 3)
}

func TestCalculate_CapsAtValue(t *testing.T) {
	d, _ := ByID("streak-7")
	p := Calculate(d, Stats{Streak: 12})
	assert.Equal(t, Progress{Progress: 7, MaxProgress: 7, IsCompleted: true}, p)

	p = Calculate(d, Stats{Streak: 4})
	assert.Equal(t, 4, p.Progress)
	assert.False(t, p.IsCompleted)
}

func TestCalculate_AccuracyNeedsHundredCards(t *testing.T) {
	d, _ := ByID("accuracy-90")
	assert.False(t, Calculate(d, Stats{TotalCardsStudied: 99, OverallAccuracy: 100}).IsCompleted)
	assert.True(t, Calculate(d, Stats{TotalCardsStudied: 100, OverallAccuracy: 91}).IsCompleted)
}

func TestCalculate_FirstActions(t *testing.T) {
	s := Stats{HasCreatedDeck: true}
	deck, _ := ByID("first-deck")
	card, _ := ByID("first-card")
	assert.True(t, Calculate(deck, s).IsCompleted)
	assert.False(t, Calculate(card, s).IsCompleted)
}

func TestOverallAccuracy(t *testing.T) {
	assert.Equal(t, 0, OverallAccuracy(50, 50))
	assert.Equal(t, 83, OverallAccuracy(120, 100))
}

func TestEvaluate_SkipsUnlocked(t *testing.T) {
	s := Stats{Streak: 8, TotalCardsStudied: 150, OverallAccuracy: 72, HasStudiedCard: true, TodayCardsStudied: 30}

	got := Evaluate(Definitions, s, map[string]bool{"streak-3": true})
	var ids []string
	for _, u := range got {
		ids = append(ids, u.Definition.ID)
	}
	assert.ElementsMatch(t, []string{"streak-7", "cards-100", "accuracy-70", "first-card", "speed-25"}, ids)
}

func TestEvaluate_UnlocksArePermanent(t *testing.T) {
	unlocked := map[string]bool{}
	for _, u := range Evaluate(Definitions, Stats{TotalCardsStudied: 200, OverallAccuracy: 96}, unlocked) {
		unlocked[u.Definition.ID] = true
	}
	require.True(t, unlocked["accuracy-95"])

	// accuracy falls: nothing new, and the caller's set is untouched
	got := Evaluate(Definitions, Stats{TotalCardsStudied: 400, OverallAccuracy: 60}, unlocked)
	assert.Empty(t, got)
	assert.True(t, unlocked["accuracy-95"])
}
