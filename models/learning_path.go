package models

import (
	"time"

	"github.com/andrewpaige1/lingodeck-api/paths"
	"gorm.io/gorm"
)

type LearningPath struct {
	gorm.Model
	PublicID          string           `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID            uint             `gorm:"not null;index" json:"-"`
	Name              string           `gorm:"not null;size:100" json:"name"`
	Description       string           `gorm:"size:500" json:"description"`
	CurrentStageIndex int              `json:"currentStageIndex"`
	Status            paths.PathStatus `gorm:"not null;size:20;index" json:"status"`

	Stages []PathStage `gorm:"foreignKey:PathID" json:"stages"`
}

// PathStage is one deck of a learning path. Position fixes the unlock order.
type PathStage struct {
	ID             uint              `gorm:"primaryKey" json:"-"`
	PathID         uint              `gorm:"not null;index" json:"-"`
	Position       int               `gorm:"not null" json:"order"`
	DeckID         uint              `gorm:"not null" json:"-"`
	DeckPublicID   string            `gorm:"size:100" json:"deckId"`
	DeckName       string            `gorm:"size:100" json:"deckName"`
	TargetAccuracy int               `json:"targetAccuracy"`
	CardsStudied   int               `json:"cardsStudied"`
	TotalCards     int               `json:"totalCards"`
	Accuracy       int               `json:"accuracy"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
	Status         paths.StageStatus `gorm:"not null;size:20" json:"status"`
}

// ToPath converts the stored rows into the evaluator's view. Stages must
// already be sorted by Position.
func (lp *LearningPath) ToPath() paths.Path {
	p := paths.Path{
		Stages:            make([]paths.Stage, len(lp.Stages)),
		CurrentStageIndex: lp.CurrentStageIndex,
		Status:            lp.Status,
	}
	for i, s := range lp.Stages {
		p.Stages[i] = paths.Stage{
			DeckID:         s.DeckID,
			DeckName:       s.DeckName,
			TargetAccuracy: s.TargetAccuracy,
			Progress: paths.StageProgress{
				CardsStudied: s.CardsStudied,
				TotalCards:   s.TotalCards,
				Accuracy:     s.Accuracy,
				CompletedAt:  s.CompletedAt,
			},
			Status: s.Status,
		}
	}
	return p
}

// Apply copies evaluator output back onto the stored rows, stage by stage.
func (lp *LearningPath) Apply(p paths.Path) {
	lp.CurrentStageIndex = p.CurrentStageIndex
	lp.Status = p.Status
	for i := range lp.Stages {
		if i >= len(p.Stages) {
			break
		}
		s := p.Stages[i]
		lp.Stages[i].TargetAccuracy = s.TargetAccuracy
		lp.Stages[i].CardsStudied = s.Progress.CardsStudied
		lp.Stages[i].TotalCards = s.Progress.TotalCards
		lp.Stages[i].Accuracy = s.Progress.Accuracy
		lp.Stages[i].CompletedAt = s.Progress.CompletedAt
		lp.Stages[i].Status = s.Status
	}
}

// OverallProgress is exposed alongside the stored row in API responses.
func (lp *LearningPath) OverallProgress() int {
	return paths.OverallProgress(lp.ToPath())
}
