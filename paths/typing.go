package paths

import (
	"fmt"
	"math"
	"time"
)

// Defaults for typing stages created without targets.
const (
	DefaultTargetWPM      = 40
	DefaultTypingAccuracy = 95
)

type TypingProgress struct {
	BestWPM      int        `json:"bestWpm"`
	BestAccuracy int        `json:"bestAccuracy"`
	Attempts     int        `json:"attempts"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type TypingStage struct {
	SnippetID      uint           `json:"snippetId"`
	Title          string         `json:"title"`
	TargetWPM      int            `json:"targetWpm"`
	TargetAccuracy int            `json:"targetAccuracy"`
	Progress       TypingProgress `json:"progress"`
	Status         StageStatus    `json:"status"`
}

type TypingPath struct {
	Stages            []TypingStage `json:"stages"`
	CurrentStageIndex int           `json:"currentStageIndex"`
	Status            PathStatus    `json:"status"`
}

// AttemptError rejects an attempt that cannot be recorded against a stage.
type AttemptError struct {
	Stage  int
	Reason string
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("stage %d: %s", e.Stage, e.Reason)
}

// NewTypingStages lays out a fresh typing path with the first stage active.
func NewTypingStages(snippets []TypingStage) []TypingStage {
	stages := make([]TypingStage, len(snippets))
	for i, s := range snippets {
		if s.TargetWPM <= 0 {
			s.TargetWPM = DefaultTargetWPM
		}
		if s.TargetAccuracy <= 0 {
			s.TargetAccuracy = DefaultTypingAccuracy
		}
		s.Progress = TypingProgress{}
		s.Status = StageLocked
		if i == 0 {
			s.Status = StageActive
		}
		stages[i] = s
	}
	return stages
}

// RecordAttempt folds one typing attempt into the stage at index. Best values
// only ever rise and a completed stage stays completed.
func RecordAttempt(p TypingPath, index int, wpm, accuracy float64, now time.Time) (TypingPath, error) {
	if index < 0 || index >= len(p.Stages) {
		return p, &AttemptError{Stage: index, Reason: "out of range"}
	}
	if p.Stages[index].Status == StageLocked {
		return p, &AttemptError{Stage: index, Reason: "stage is locked"}
	}
	if wpm < 0 || accuracy < 0 || accuracy > 100 {
		return p, &AttemptError{Stage: index, Reason: "wpm and accuracy must be non-negative, accuracy at most 100"}
	}

	out := p
	out.Stages = make([]TypingStage, len(p.Stages))
	copy(out.Stages, p.Stages)

	stage := &out.Stages[index]
	w, a := int(math.Round(wpm)), int(math.Round(accuracy))
	stage.Progress.Attempts++
	if w > stage.Progress.BestWPM {
		stage.Progress.BestWPM = w
	}
	if a > stage.Progress.BestAccuracy {
		stage.Progress.BestAccuracy = a
	}

	if stage.Status != StageCompleted && w >= stage.TargetWPM && a >= stage.TargetAccuracy {
		stage.Status = StageCompleted
		at := now
		stage.Progress.CompletedAt = &at
		if next := index + 1; next < len(out.Stages) && out.Stages[next].Status == StageLocked {
			out.Stages[next].Status = StageActive
			out.CurrentStageIndex = next
		}
	}

	done := true
	for _, s := range out.Stages {
		if s.Status != StageCompleted {
			done = false
			break
		}
	}
	if done {
		out.Status = PathCompleted
	}
	return out, nil
}
