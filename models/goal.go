package models

import (
	"time"

	"github.com/andrewpaige1/lingodeck-api/goals"
	"gorm.io/gorm"
)

type Goal struct {
	gorm.Model
	PublicID string         `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID   uint           `gorm:"not null;index" json:"-"`
	Type     goals.Type     `gorm:"not null;size:10" json:"type"`
	Period   string         `gorm:"not null;size:10" json:"period"`
	Targets  goals.Targets  `gorm:"embedded;embeddedPrefix:target_" json:"targets"`
	Progress goals.Progress `gorm:"embedded;embeddedPrefix:progress_" json:"progress"`
	Status   goals.Status   `gorm:"not null;size:20;index" json:"status"`

	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

func (g *Goal) Definition() goals.Goal {
	return goals.Goal{Type: g.Type, Period: g.Period, Targets: g.Targets}
}
