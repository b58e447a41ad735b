package achievements

import "math"

// MinCardsForAccuracy is how many cards must be studied before accuracy
// counts toward accuracy achievements.
const MinCardsForAccuracy = 100

// Stats is the per-user snapshot every criterion is checked against.
type Stats struct {
	Streak            int  `json:"streak"`
	TotalCardsStudied int  `json:"totalCardsStudied"`
	OverallAccuracy   int  `json:"overallAccuracy"`
	DecksCompleted    int  `json:"decksCompleted"`
	GoalsCompleted    int  `json:"goalsCompleted"`
	PathsCompleted    int  `json:"pathsCompleted"`
	TodayCardsStudied int  `json:"todayCardsStudied"`
	HasStudiedCard    bool `json:"hasStudiedCard"`
	HasCreatedDeck    bool `json:"hasCreatedDeck"`
	HasCreatedGoal    bool `json:"hasCreatedGoal"`
	HasCreatedPath    bool `json:"hasCreatedPath"`
}

// OverallAccuracy is correct answers over cards studied, 0 until the user has
// studied MinCardsForAccuracy cards.
func OverallAccuracy(totalCards, totalCorrect int) int {
	if totalCards < MinCardsForAccuracy {
		return 0
	}
	return int(math.Round(float64(totalCorrect) / float64(totalCards) * 100))
}

type Progress struct {
	Progress    int  `json:"progress"`
	MaxProgress int  `json:"maxProgress"`
	IsCompleted bool `json:"isCompleted"`
}

func stat(c Criterion, s Stats) int {
	switch c.Type {
	case CriterionStreak:
		return s.Streak
	case CriterionTotalCards:
		return s.TotalCardsStudied
	case CriterionAccuracy:
		if s.TotalCardsStudied < MinCardsForAccuracy {
			return 0
		}
		return s.OverallAccuracy
	case CriterionDecksCompleted:
		return s.DecksCompleted
	case CriterionGoalsCompleted:
		return s.GoalsCompleted
	case CriterionPathsCompleted:
		return s.PathsCompleted
	case CriterionDailyCards:
		return s.TodayCardsStudied
	case CriterionFirstAction:
		var done bool
		switch c.Action {
		case ActionStudyCard:
			done = s.HasStudiedCard
		case ActionCreateDeck:
			done = s.HasCreatedDeck
		case ActionCreateGoal:
			done = s.HasCreatedGoal
		case ActionCreatePath:
			done = s.HasCreatedPath
		}
		if done {
			return 1
		}
	}
	return 0
}

// Calculate returns progress toward d, capped at the criterion value.
func Calculate(d Definition, s Stats) Progress {
	p := min(stat(d.Criteria, s), d.Criteria.Value)
	return Progress{
		Progress:    p,
		MaxProgress: d.Criteria.Value,
		IsCompleted: p >= d.Criteria.Value,
	}
}

// Unlock is a definition that has just been earned, with its progress at
// the moment of unlock.
type Unlock struct {
	Definition Definition
	Progress   int
}

// Evaluate returns the definitions in defs that s satisfies and that are not
// already in unlocked. Existing unlocks are never reconsidered.
func Evaluate(defs []Definition, s Stats, unlocked map[string]bool) []Unlock {
	var out []Unlock
	for _, d := range defs {
		if unlocked[d.ID] {
			continue
		}
		if p := Calculate(d, s); p.IsCompleted {
			out = append(out, Unlock{Definition: d, Progress: p.Progress})
		}
	}
	return out
}
