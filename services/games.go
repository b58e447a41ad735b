package services

import (
	"context"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/pkg/errors"
)

// Games that keep a leaderboard.
var Games = map[string]bool{"blocks": true, "matching": true, "quiz": true}

// LeaderboardSize caps how many scores a leaderboard returns.
const LeaderboardSize = 50

type ScoreInput struct {
	TimeSeconds     int `json:"timeSeconds"`
	CorrectAttempts int `json:"correctAttempts"`
	TotalAttempts   int `json:"totalAttempts"`
}

// CreateScore stores one finished round. Any deck the user can read can be
// played.
func (s *Store) CreateScore(ctx context.Context, userID uint, deckPublicID, game string, in ScoreInput) (*models.GameScore, error) {
	if !Games[game] {
		return nil, invalid("game", "unknown game %q", game)
	}
	if in.TimeSeconds <= 0 {
		return nil, invalid("timeSeconds", "timeSeconds must be positive")
	}
	if in.CorrectAttempts < 0 || in.TotalAttempts < in.CorrectAttempts {
		return nil, invalid("totalAttempts", "totalAttempts must be at least correctAttempts")
	}
	deck, err := s.ReadableDeck(ctx, userID, deckPublicID)
	if err != nil {
		return nil, err
	}

	score := models.GameScore{
		UserID:          userID,
		DeckID:          deck.ID,
		Game:            game,
		TimeSeconds:     in.TimeSeconds,
		CorrectAttempts: in.CorrectAttempts,
		TotalAttempts:   in.TotalAttempts,
		PlayedAt:        s.now(),
	}
	if err := s.db(ctx).Omit("User", "Deck").Create(&score).Error; err != nil {
		return nil, errors.Wrap(err, "create score")
	}
	return &score, nil
}

// Leaderboard lists the fastest rounds of a game on a deck, fewer mistakes
// breaking ties.
func (s *Store) Leaderboard(ctx context.Context, userID uint, deckPublicID, game string) ([]models.GameScore, error) {
	if !Games[game] {
		return nil, invalid("game", "unknown game %q", game)
	}
	deck, err := s.ReadableDeck(ctx, userID, deckPublicID)
	if err != nil {
		return nil, err
	}
	var scores []models.GameScore
	err = s.db(ctx).Preload("User").
		Where("deck_id = ? AND game = ?", deck.ID, game).
		Order("time_seconds asc").
		Order("total_attempts - correct_attempts asc").
		Order("played_at asc").
		Limit(LeaderboardSize).
		Find(&scores).Error
	return scores, errors.Wrap(err, "load leaderboard")
}
