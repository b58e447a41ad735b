package paths

import (
	"math"
	"time"

	"github.com/andrewpaige1/lingodeck-api/goals"
)

type StageStatus string

const (
	StageLocked    StageStatus = "locked"
	StageActive    StageStatus = "active"
	StageCompleted StageStatus = "completed"
)

type PathStatus string

const (
	PathActive    PathStatus = "active"
	PathCompleted PathStatus = "completed"
	PathPaused    PathStatus = "paused"
)

func (s PathStatus) Valid() bool {
	return s == PathActive || s == PathCompleted || s == PathPaused
}

// DefaultTargetAccuracy applies to stages created without an explicit target.
const DefaultTargetAccuracy = 80

type StageProgress struct {
	CardsStudied int        `json:"cardsStudied"`
	TotalCards   int        `json:"totalCards"`
	Accuracy     int        `json:"accuracy"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type Stage struct {
	DeckID         uint          `json:"deckId"`
	DeckName       string        `json:"deckName"`
	TargetAccuracy int           `json:"targetAccuracy"`
	Progress       StageProgress `json:"progress"`
	Status         StageStatus   `json:"status"`
}

type Path struct {
	Stages            []Stage    `json:"stages"`
	CurrentStageIndex int        `json:"currentStageIndex"`
	Status            PathStatus `json:"status"`
}

// DeckTotals is the study history for one deck plus its current size.
type DeckTotals struct {
	CardsStudied   int
	CorrectCount   int
	IncorrectCount int
	TotalCards     int
	// DeckMissing means the deck is gone; the stage keeps its stored size.
	DeckMissing bool
}

// NewStages lays out a fresh path: the first stage is active, the rest locked.
func NewStages(decks []Stage) []Stage {
	stages := make([]Stage, len(decks))
	for i, d := range decks {
		if d.TargetAccuracy <= 0 {
			d.TargetAccuracy = DefaultTargetAccuracy
		}
		d.Progress = StageProgress{TotalCards: d.Progress.TotalCards}
		d.Status = StageLocked
		if i == 0 {
			d.Status = StageActive
		}
		stages[i] = d
	}
	return stages
}

// Sync recomputes stage progress from per-deck totals in one ordered pass.
// Completed stages keep their status and completion time. A stage promoted out
// of locked is evaluated in the same pass, so running Sync twice on the same
// totals changes nothing the second time.
func Sync(p Path, totals map[uint]DeckTotals, now time.Time) Path {
	out := p
	out.Stages = make([]Stage, len(p.Stages))
	copy(out.Stages, p.Stages)

	for i := range out.Stages {
		stage := &out.Stages[i]
		if stage.Status == StageLocked {
			continue
		}

		t := totals[stage.DeckID]
		stage.Progress.CardsStudied = t.CardsStudied
		if !t.DeckMissing {
			stage.Progress.TotalCards = t.TotalCards
		}
		stage.Progress.Accuracy = goals.Accuracy(t.CorrectCount, t.IncorrectCount)

		if stage.Status != StageCompleted && stageDone(stage) {
			stage.Status = StageCompleted
			if stage.Progress.CompletedAt == nil {
				at := now
				stage.Progress.CompletedAt = &at
			}
		}

		if stage.Status == StageCompleted && i+1 < len(out.Stages) && out.Stages[i+1].Status == StageLocked {
			out.Stages[i+1].Status = StageActive
			out.CurrentStageIndex = i + 1
		}
	}

	if len(out.Stages) > 0 && allCompleted(out.Stages) {
		out.Status = PathCompleted
		out.CurrentStageIndex = len(out.Stages) - 1
	}
	return out
}

func stageDone(s *Stage) bool {
	return s.Progress.TotalCards > 0 &&
		s.Progress.CardsStudied >= s.Progress.TotalCards &&
		s.Progress.Accuracy >= s.TargetAccuracy
}

func allCompleted(stages []Stage) bool {
	for _, s := range stages {
		if s.Status != StageCompleted {
			return false
		}
	}
	return true
}

// OverallProgress is the rounded mean of per-stage completion, each capped at 100.
func OverallProgress(p Path) int {
	if len(p.Stages) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range p.Stages {
		if s.Progress.TotalCards > 0 {
			sum += math.Min(100, float64(s.Progress.CardsStudied)/float64(s.Progress.TotalCards)*100)
		}
	}
	return int(math.Round(sum / float64(len(p.Stages))))
}

// ActiveStages counts stages currently marked active.
func ActiveStages(stages []Stage) int {
	n := 0
	for _, s := range stages {
		if s.Status == StageActive {
			n++
		}
	}
	return n
}
