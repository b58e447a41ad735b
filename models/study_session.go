package models

import (
	"time"

	"gorm.io/gorm"
)

// StudySession is an append-only record of one finished study run. Every
// progress figure in the system is derived from these rows.
type StudySession struct {
	gorm.Model
	PublicID        string    `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID          uint      `gorm:"not null;index" json:"-"`
	DeckID          uint      `gorm:"not null;index" json:"-"`
	CardsStudied    int       `gorm:"not null" json:"cardsStudied"`
	CorrectCount    int       `gorm:"not null" json:"correctCount"`
	IncorrectCount  int       `gorm:"not null" json:"incorrectCount"`
	DurationSeconds int       `json:"duration"`
	CompletedAt     time.Time `gorm:"not null;index" json:"completedAt"`
}
