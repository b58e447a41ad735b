package models

import (
	"time"
)

// GameScore is one finished mini-game round played against a deck.
type GameScore struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"-"`
	User            User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`
	DeckID          uint      `gorm:"not null;index:idx_game_scores_deck_game" json:"-"`
	Deck            Deck      `gorm:"foreignKey:DeckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Game            string    `gorm:"not null;size:30;index:idx_game_scores_deck_game" json:"game"`
	TimeSeconds     int       `gorm:"not null" json:"timeSeconds"`
	CorrectAttempts int       `gorm:"not null" json:"correctAttempts"`
	TotalAttempts   int       `gorm:"not null" json:"totalAttempts"`
	PlayedAt        time.Time `gorm:"autoCreateTime" json:"playedAt"`
}
