package models

import (
	"time"

	"github.com/andrewpaige1/lingodeck-api/paths"
	"gorm.io/gorm"
)

// TypingSnippet is a passage of text used for typing practice.
type TypingSnippet struct {
	gorm.Model
	PublicID   string `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID     uint   `gorm:"not null;index" json:"-"`
	Title      string `gorm:"not null;size:200" json:"title"`
	Language   string `gorm:"size:10" json:"language"`
	Difficulty string `gorm:"size:20" json:"difficulty"`
	Content    string `gorm:"not null;type:text" json:"content"`
	Source     string `gorm:"size:200" json:"source,omitempty"`
}

type TypingPath struct {
	gorm.Model
	PublicID          string           `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID            uint             `gorm:"not null;index" json:"-"`
	Name              string           `gorm:"not null;size:100" json:"name"`
	Description       string           `gorm:"size:500" json:"description"`
	CurrentStageIndex int              `json:"currentStageIndex"`
	Status            paths.PathStatus `gorm:"not null;size:20;index" json:"status"`

	Stages []TypingStage `gorm:"foreignKey:PathID" json:"stages"`
}

type TypingStage struct {
	ID              uint              `gorm:"primaryKey" json:"-"`
	PathID          uint              `gorm:"not null;index" json:"-"`
	Position        int               `gorm:"not null" json:"order"`
	SnippetID       uint              `gorm:"not null" json:"-"`
	SnippetPublicID string            `gorm:"size:100" json:"snippetId"`
	Title           string            `gorm:"size:200" json:"title"`
	TargetWPM       int               `json:"targetWpm"`
	TargetAccuracy  int               `json:"targetAccuracy"`
	BestWPM         int               `json:"bestWpm"`
	BestAccuracy    int               `json:"bestAccuracy"`
	Attempts        int               `json:"attempts"`
	CompletedAt     *time.Time        `json:"completedAt,omitempty"`
	Status          paths.StageStatus `gorm:"not null;size:20" json:"status"`
}

func (tp *TypingPath) ToPath() paths.TypingPath {
	p := paths.TypingPath{
		Stages:            make([]paths.TypingStage, len(tp.Stages)),
		CurrentStageIndex: tp.CurrentStageIndex,
		Status:            tp.Status,
	}
	for i, s := range tp.Stages {
		p.Stages[i] = paths.TypingStage{
			SnippetID:      s.SnippetID,
			Title:          s.Title,
			TargetWPM:      s.TargetWPM,
			TargetAccuracy: s.TargetAccuracy,
			Progress: paths.TypingProgress{
				BestWPM:      s.BestWPM,
				BestAccuracy: s.BestAccuracy,
				Attempts:     s.Attempts,
				CompletedAt:  s.CompletedAt,
			},
			Status: s.Status,
		}
	}
	return p
}

func (tp *TypingPath) Apply(p paths.TypingPath) {
	tp.CurrentStageIndex = p.CurrentStageIndex
	tp.Status = p.Status
	for i := range tp.Stages {
		if i >= len(p.Stages) {
			break
		}
		s := p.Stages[i]
		tp.Stages[i].BestWPM = s.Progress.BestWPM
		tp.Stages[i].BestAccuracy = s.Progress.BestAccuracy
		tp.Stages[i].Attempts = s.Progress.Attempts
		tp.Stages[i].CompletedAt = s.Progress.CompletedAt
		tp.Stages[i].Status = s.Status
	}
}

// TypingResult is one finished typing test. Kind is "code" for snippet
// practice, where SourceID is the language, or "deck" for typing a deck's
// cards, where SourceID is the deck's public id.
type TypingResult struct {
	gorm.Model
	PublicID       string `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID         uint   `gorm:"not null;index" json:"-"`
	Kind           string `gorm:"not null;size:10;index" json:"type"`
	SourceID       string `gorm:"not null;size:100;index" json:"sourceId"`
	SourceName     string `gorm:"size:100" json:"sourceName"`
	SnippetTitle   string `gorm:"size:200" json:"snippetTitle,omitempty"`
	WPM            int    `gorm:"index" json:"wpm"`
	Accuracy       int    `json:"accuracy"`
	CorrectChars   int    `json:"correctChars"`
	IncorrectChars int    `json:"incorrectChars"`
	TotalChars     int    `json:"totalChars"`
	ElapsedSeconds int    `json:"elapsedTime"`
}
