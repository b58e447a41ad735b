package models

import (
	"time"

	"gorm.io/gorm"
)

// Deck represents a collection of vocabulary cards
type Deck struct {
	gorm.Model
	PublicID    string   `gorm:"size:100;uniqueIndex" json:"publicId"`
	UserID      uint     `gorm:"not null;index" json:"-"`
	User        User     `gorm:"foreignKey:UserID" json:"-"`
	Name        string   `gorm:"not null;size:100" json:"name"`
	Description string   `gorm:"size:500" json:"description"`
	Category    string   `gorm:"size:50" json:"category"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	SourceLang  string   `gorm:"size:10" json:"sourceLang"`
	TargetLang  string   `gorm:"size:10" json:"targetLang"`

	// Kept in step with the card rows on create, delete and import.
	CardCount int `gorm:"default:0" json:"cardCount"`

	Cards []Card `gorm:"foreignKey:DeckID" json:"-"`

	IsPublic    bool       `gorm:"default:false" json:"isPublic"`
	LastStudied *time.Time `gorm:"default:null" json:"lastStudied,omitempty"`

	// Moderation only matters once the deck is public.
	ModerationStatus ModerationStatus `gorm:"size:20;default:pending;index" json:"moderationStatus"`
	ModeratedAt      *time.Time       `gorm:"default:null" json:"moderatedAt,omitempty"`
}

type ModerationStatus string

const (
	DeckPending  ModerationStatus = "pending"
	DeckApproved ModerationStatus = "approved"
	DeckRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	return s == DeckPending || s == DeckApproved || s == DeckRejected
}
