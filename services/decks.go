package services

import (
	"context"
	"strings"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/srs"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Languages a deck is created with when none are given.
const (
	DefaultSourceLang = "en"
	DefaultTargetLang = "th"
)

type DeckInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	SourceLang  string   `json:"sourceLang"`
	TargetLang  string   `json:"targetLang"`
	IsPublic    bool     `json:"isPublic"`
}

// DeckPatch holds the fields of an update; nil means unchanged.
type DeckPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	SourceLang  *string   `json:"sourceLang,omitempty"`
	TargetLang  *string   `json:"targetLang,omitempty"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
}

func (p DeckPatch) apply(d *models.Deck) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Tags != nil {
		d.Tags = *p.Tags
	}
	if p.SourceLang != nil {
		d.SourceLang = *p.SourceLang
	}
	if p.TargetLang != nil {
		d.TargetLang = *p.TargetLang
	}
	if p.IsPublic != nil {
		d.IsPublic = *p.IsPublic
	}
}

type CardInput struct {
	Vocab              string `json:"vocab"`
	Pronunciation      string `json:"pronunciation"`
	Meaning            string `json:"meaning"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"exampleTranslation"`
}

func (c CardInput) valid() bool {
	return strings.TrimSpace(c.Vocab) != "" && strings.TrimSpace(c.Meaning) != ""
}

// CardPatch updates card text. The SRS fields are only writable through the
// data API, which sets AllowSRS.
type CardPatch struct {
	Vocab              *string  `json:"vocab,omitempty"`
	Pronunciation      *string  `json:"pronunciation,omitempty"`
	Meaning            *string  `json:"meaning,omitempty"`
	Example            *string  `json:"example,omitempty"`
	ExampleTranslation *string  `json:"exampleTranslation,omitempty"`
	Interval           *int     `json:"interval,omitempty"`
	EaseFactor         *float64 `json:"easeFactor,omitempty"`
	Repetitions        *int     `json:"repetitions,omitempty"`
	NextReview         *string  `json:"nextReview,omitempty"`
}

func (s *Store) CreateDeck(ctx context.Context, userID uint, in DeckInput) (*models.Deck, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, missing("name")
	}
	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate deck id")
	}
	deck := models.Deck{
		PublicID:    publicID,
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Tags:        in.Tags,
		SourceLang:  orDefault(in.SourceLang, DefaultSourceLang),
		TargetLang:  orDefault(in.TargetLang, DefaultTargetLang),
		IsPublic:    in.IsPublic,

		ModerationStatus: models.DeckPending,
	}
	if deck.Tags == nil {
		deck.Tags = []string{}
	}
	if err := s.db(ctx).Create(&deck).Error; err != nil {
		return nil, errors.Wrap(err, "create deck")
	}
	return &deck, nil
}

func (s *Store) ListDecks(ctx context.Context, userID uint) ([]models.Deck, error) {
	var decks []models.Deck
	err := s.db(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&decks).Error
	return decks, errors.Wrap(err, "list decks")
}

// GetDeck returns a deck the user owns.
func (s *Store) GetDeck(ctx context.Context, userID uint, publicID string) (*models.Deck, error) {
	q := s.db(ctx).Where("public_id = ?", publicID)
	if userID != AnyUser {
		q = q.Where("user_id = ?", userID)
	}
	var deck models.Deck
	if err := first(q, &deck, "deck"); err != nil {
		return nil, err
	}
	return &deck, nil
}

// ReadableDeck returns a deck the user owns or that is public and was not
// rejected by a moderator.
func (s *Store) ReadableDeck(ctx context.Context, userID uint, publicID string) (*models.Deck, error) {
	var deck models.Deck
	if err := first(s.db(ctx).Where("public_id = ?", publicID), &deck, "deck"); err != nil {
		return nil, err
	}
	if deck.UserID == userID {
		return &deck, nil
	}
	if !deck.IsPublic {
		return nil, errors.WithMessage(ErrForbidden, "deck is not public")
	}
	if deck.ModerationStatus == models.DeckRejected {
		return nil, errors.WithMessage(ErrForbidden, "deck was rejected by a moderator")
	}
	return &deck, nil
}

func (s *Store) UpdateDeck(ctx context.Context, userID uint, publicID string, patch DeckPatch) (*models.Deck, error) {
	deck, err := s.GetDeck(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	patch.apply(deck)
	if strings.TrimSpace(deck.Name) == "" {
		return nil, missing("name")
	}
	if err := s.db(ctx).Save(deck).Error; err != nil {
		return nil, errors.Wrap(err, "update deck")
	}
	return deck, nil
}

// DeleteDeck removes a deck with all of its cards.
func (s *Store) DeleteDeck(ctx context.Context, userID uint, publicID string) error {
	deck, err := s.GetDeck(ctx, userID, publicID)
	if err != nil {
		return err
	}
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.Card{}).Error; err != nil {
			return errors.Wrap(err, "delete deck cards")
		}
		return errors.Wrap(tx.Delete(deck).Error, "delete deck")
	})
}

func (s *Store) ListCards(ctx context.Context, userID uint, deckPublicID string) ([]models.Card, error) {
	deck, err := s.ReadableDeck(ctx, userID, deckPublicID)
	if err != nil {
		return nil, err
	}
	var cards []models.Card
	err = s.db(ctx).Where("deck_id = ?", deck.ID).Order("id asc").Find(&cards).Error
	return cards, errors.Wrap(err, "list cards")
}

func (s *Store) newCard(deck *models.Deck, in CardInput) (models.Card, error) {
	publicID, err := utils.NewPublicID()
	if err != nil {
		return models.Card{}, errors.Wrap(err, "generate card id")
	}
	card := models.Card{
		PublicID:           publicID,
		DeckID:             deck.ID,
		UserID:             deck.UserID,
		Vocab:              strings.TrimSpace(in.Vocab),
		Pronunciation:      in.Pronunciation,
		Meaning:            strings.TrimSpace(in.Meaning),
		Example:            in.Example,
		ExampleTranslation: in.ExampleTranslation,
	}
	card.SetSRS(srs.NewState(s.now()))
	return card, nil
}

// CreateCards adds cards to a deck and bumps its card count in the same
// transaction. Every card needs vocab and meaning.
func (s *Store) CreateCards(ctx context.Context, userID uint, deckPublicID string, in []CardInput) ([]models.Card, error) {
	if len(in) == 0 {
		return nil, missing("cards")
	}
	for _, c := range in {
		if !c.valid() {
			return nil, missing("vocab", "meaning")
		}
	}
	deck, err := s.GetDeck(ctx, userID, deckPublicID)
	if err != nil {
		return nil, err
	}

	cards := make([]models.Card, 0, len(in))
	for _, c := range in {
		card, err := s.newCard(deck, c)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&cards, BatchSize).Error; err != nil {
			return errors.Wrap(err, "create cards")
		}
		return errors.Wrap(adjustCardCount(tx, deck.ID, len(cards)), "update card count")
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func adjustCardCount(tx *gorm.DB, deckID uint, delta int) error {
	return tx.Model(&models.Deck{}).Where("id = ?", deckID).
		UpdateColumn("card_count", gorm.Expr("card_count + ?", delta)).Error
}

func (s *Store) ownedCard(ctx context.Context, userID uint, deckPublicID, cardPublicID string) (*models.Deck, *models.Card, error) {
	deck, err := s.GetDeck(ctx, userID, deckPublicID)
	if err != nil {
		return nil, nil, err
	}
	var card models.Card
	if err := first(s.db(ctx).Where("public_id = ? AND deck_id = ?", cardPublicID, deck.ID), &card, "card"); err != nil {
		return nil, nil, err
	}
	return deck, &card, nil
}

func (s *Store) UpdateCard(ctx context.Context, userID uint, deckPublicID, cardPublicID string, patch CardPatch) (*models.Card, error) {
	_, card, err := s.ownedCard(ctx, userID, deckPublicID, cardPublicID)
	if err != nil {
		return nil, err
	}
	if err := applyCardPatch(card, patch, false); err != nil {
		return nil, err
	}
	if err := s.db(ctx).Save(card).Error; err != nil {
		return nil, errors.Wrap(err, "update card")
	}
	return card, nil
}

func applyCardPatch(c *models.Card, p CardPatch, allowSRS bool) error {
	if p.Vocab != nil {
		c.Vocab = *p.Vocab
	}
	if p.Pronunciation != nil {
		c.Pronunciation = *p.Pronunciation
	}
	if p.Meaning != nil {
		c.Meaning = *p.Meaning
	}
	if p.Example != nil {
		c.Example = *p.Example
	}
	if p.ExampleTranslation != nil {
		c.ExampleTranslation = *p.ExampleTranslation
	}
	if strings.TrimSpace(c.Vocab) == "" || strings.TrimSpace(c.Meaning) == "" {
		return missing("vocab", "meaning")
	}

	hasSRS := p.Interval != nil || p.EaseFactor != nil || p.Repetitions != nil || p.NextReview != nil
	if !hasSRS {
		return nil
	}
	if !allowSRS {
		return invalid("interval", "scheduling fields can only be changed by reviewing the card")
	}
	if p.Interval != nil {
		if *p.Interval < 0 {
			return invalid("interval", "interval must be non-negative")
		}
		c.Interval = *p.Interval
	}
	if p.EaseFactor != nil {
		if *p.EaseFactor < srs.MinEaseFactor {
			return invalid("easeFactor", "easeFactor must be at least %.1f", srs.MinEaseFactor)
		}
		c.EaseFactor = *p.EaseFactor
	}
	if p.Repetitions != nil {
		if *p.Repetitions < 0 {
			return invalid("repetitions", "repetitions must be non-negative")
		}
		c.Repetitions = *p.Repetitions
	}
	if p.NextReview != nil {
		t, err := parseTime(*p.NextReview)
		if err != nil {
			return invalid("nextReview", "nextReview must be an ISO date: %v", err)
		}
		c.NextReview = t
	}
	return nil
}

// DeleteCard removes a card and keeps the deck's card count in step.
func (s *Store) DeleteCard(ctx context.Context, userID uint, deckPublicID, cardPublicID string) error {
	deck, card, err := s.ownedCard(ctx, userID, deckPublicID, cardPublicID)
	if err != nil {
		return err
	}
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(card).Error; err != nil {
			return errors.Wrap(err, "delete card")
		}
		return errors.Wrap(adjustCardCount(tx, deck.ID, -1), "update card count")
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
