package services

import (
	"context"
	"time"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/srs"
	"github.com/pkg/errors"
)

// ReviewCard grades one card and stores its next schedule.
func (s *Store) ReviewCard(ctx context.Context, userID uint, cardPublicID string, q srs.Quality) (*models.Card, error) {
	if !q.Valid() {
		return nil, invalid("quality", "quality must be between 0 and 5, got %d", q)
	}

	var card models.Card
	if err := first(s.db(ctx).Where("public_id = ? AND user_id = ?", cardPublicID, userID), &card, "card"); err != nil {
		return nil, err
	}

	now := s.now()
	card.SetSRS(srs.Review(card.SRS(), q, now))
	card.LastReviewed = &now

	err := s.db(ctx).Model(&card).Select("interval", "ease_factor", "repetitions", "next_review", "last_reviewed").Updates(&card).Error
	if err != nil {
		return nil, errors.Wrap(err, "save review")
	}
	return &card, nil
}

// DueCards returns the user's cards whose review time has come, most overdue
// first. deckPublicID narrows the queue to one deck; limit <= 0 means no limit.
func (s *Store) DueCards(ctx context.Context, userID uint, deckPublicID string, limit int) ([]models.Card, error) {
	q := s.db(ctx).Where("cards.user_id = ? AND cards.next_review <= ?", userID, s.now())
	if deckPublicID != "" {
		deck, err := s.GetDeck(ctx, userID, deckPublicID)
		if err != nil {
			return nil, err
		}
		q = q.Where("cards.deck_id = ?", deck.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var cards []models.Card
	if err := q.Order("cards.next_review asc").Find(&cards).Error; err != nil {
		return nil, errors.Wrap(err, "load due cards")
	}
	srs.SortByDue(cards, func(c models.Card) time.Time { return c.NextReview })
	return cards, nil
}
