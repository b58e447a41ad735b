package models

import (
	"time"

	"github.com/andrewpaige1/lingodeck-api/srs"
	"gorm.io/gorm"
)

// Card represents an individual vocabulary flashcard. Vocab is the front,
// Meaning the back.
type Card struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex" json:"publicId"`
	DeckID   uint   `gorm:"not null;index" json:"-"`
	Deck     Deck   `gorm:"foreignKey:DeckID" json:"-"`
	UserID   uint   `gorm:"not null;index" json:"-"`

	Vocab              string `gorm:"not null;size:200" json:"vocab"`
	Pronunciation      string `gorm:"size:200" json:"pronunciation"`
	Meaning            string `gorm:"not null;size:1000" json:"meaning"`
	Example            string `gorm:"size:1000" json:"example"`
	ExampleTranslation string `gorm:"size:1000" json:"exampleTranslation"`

	Interval     int        `json:"interval"`
	EaseFactor   float64    `json:"easeFactor"`
	Repetitions  int        `json:"repetitions"`
	NextReview   time.Time  `gorm:"index" json:"nextReview"`
	LastReviewed *time.Time `gorm:"default:null" json:"lastReviewed,omitempty"`
}

func (c *Card) SRS() srs.State {
	return srs.State{
		Interval:    c.Interval,
		EaseFactor:  c.EaseFactor,
		Repetitions: c.Repetitions,
		NextReview:  c.NextReview,
	}
}

func (c *Card) SetSRS(s srs.State) {
	c.Interval = s.Interval
	c.EaseFactor = s.EaseFactor
	c.Repetitions = s.Repetitions
	c.NextReview = s.NextReview
}
