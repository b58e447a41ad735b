package services

import (
	"context"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/pkg/errors"
)

const (
	DefaultAdminUsers = 50
	MaxAdminUsers     = 500
)

// AdminUser is a user as moderators see it, including the identity subject
// the user API never exposes.
type AdminUser struct {
	models.User
	Subject    string `json:"userId"`
	DecksCount *int64 `json:"decksCount,omitempty"`
	CardsCount *int64 `json:"cardsCount,omitempty"`
}

// ListUsers returns the newest users first.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]AdminUser, error) {
	if limit <= 0 {
		limit = DefaultAdminUsers
	}
	if limit > MaxAdminUsers {
		limit = MaxAdminUsers
	}
	var users []models.User
	if err := s.db(ctx).Order("created_at desc, id desc").Limit(limit).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	out := make([]AdminUser, len(users))
	for i, u := range users {
		out[i] = AdminUser{User: u, Subject: u.Auth0ID}
	}
	return out, nil
}

// UserDetail loads one user with deck and card counts.
func (s *Store) UserDetail(ctx context.Context, subject string) (*AdminUser, error) {
	user, err := s.UserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	var decks, cards int64
	if err := s.db(ctx).Model(&models.Deck{}).Where("user_id = ?", user.ID).Count(&decks).Error; err != nil {
		return nil, errors.Wrap(err, "count decks")
	}
	if err := s.db(ctx).Model(&models.Card{}).Where("user_id = ?", user.ID).Count(&cards).Error; err != nil {
		return nil, errors.Wrap(err, "count cards")
	}
	return &AdminUser{User: *user, Subject: user.Auth0ID, DecksCount: &decks, CardsCount: &cards}, nil
}

func (s *Store) SetUserRole(ctx context.Context, subject, role string) (*models.User, error) {
	if role == "" {
		return nil, missing("role")
	}
	if !models.ValidRole(role) {
		return nil, invalid("role", `Invalid role. Must be "user" or "admin"`)
	}
	user, err := s.UserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.db(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, errors.Wrap(err, "update role")
	}
	s.Log.Info("changed user role", "user", user.ID, "role", role)
	return user, nil
}

// SetUserBanned blocks or restores access to the user API. Stored data is
// kept either way.
func (s *Store) SetUserBanned(ctx context.Context, subject string, banned bool) (*models.User, error) {
	user, err := s.UserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	user.IsBanned = banned
	if err := s.db(ctx).Model(user).Update("is_banned", banned).Error; err != nil {
		return nil, errors.Wrap(err, "update ban")
	}
	s.Log.Info("changed user ban", "user", user.ID, "banned", banned)
	return user, nil
}

type PublicDeck struct {
	models.Deck
	OwnerName string `json:"ownerName"`
}

// PublicDecks lists public decks for moderation, newest first. status
// filters when set.
func (s *Store) PublicDecks(ctx context.Context, status models.ModerationStatus) ([]PublicDeck, error) {
	q := s.db(ctx).Preload("User").Where("is_public = ?", true)
	if status != "" {
		if !status.Valid() {
			return nil, invalid("status", "status must be pending, approved or rejected")
		}
		q = q.Where("moderation_status = ?", status)
	}
	var decks []models.Deck
	if err := q.Order("created_at desc, id desc").Find(&decks).Error; err != nil {
		return nil, errors.Wrap(err, "list public decks")
	}
	out := make([]PublicDeck, len(decks))
	for i, d := range decks {
		out[i] = PublicDeck{Deck: d, OwnerName: d.User.Nickname}
	}
	return out, nil
}

func (s *Store) SetDeckStatus(ctx context.Context, deckPublicID string, status models.ModerationStatus) (*models.Deck, error) {
	if status == "" {
		return nil, missing("status")
	}
	if !status.Valid() {
		return nil, invalid("status", "status must be pending, approved or rejected")
	}
	deck, err := s.GetDeck(ctx, AnyUser, deckPublicID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	deck.ModerationStatus = status
	deck.ModeratedAt = &now
	err = s.db(ctx).Model(deck).Select("moderation_status", "moderated_at").Updates(deck).Error
	if err != nil {
		return nil, errors.Wrap(err, "update deck status")
	}
	return deck, nil
}

type AdminStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalDecks         int64 `json:"totalDecks"`
	TotalCards         int64 `json:"totalCards"`
	TotalStudySessions int64 `json:"totalStudySessions"`
	PendingDecks       int64 `json:"pendingDecks"`
	NewUsersToday      int64 `json:"newUsersToday"`
	ActiveUsersToday   int64 `json:"activeUsersToday"`
}

func (s *Store) AdminStats(ctx context.Context) (AdminStats, error) {
	var out AdminStats
	today := s.startOfDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dest  *int64
	}{
		{&models.User{}, "", nil, &out.TotalUsers},
		{&models.Deck{}, "", nil, &out.TotalDecks},
		{&models.Card{}, "", nil, &out.TotalCards},
		{&models.StudySession{}, "", nil, &out.TotalStudySessions},
		{&models.Deck{}, "is_public = ? AND moderation_status = ?", []interface{}{true, models.DeckPending}, &out.PendingDecks},
		{&models.User{}, "created_at >= ? AND created_at < ?", []interface{}{today, tomorrow}, &out.NewUsersToday},
	}
	for _, c := range counts {
		q := s.db(ctx).Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return out, errors.Wrap(err, "count records")
		}
	}

	err := s.db(ctx).Model(&models.StudySession{}).
		Where("completed_at >= ? AND completed_at < ?", today, tomorrow).
		Distinct("user_id").
		Count(&out.ActiveUsersToday).Error
	return out, errors.Wrap(err, "count active users")
}
