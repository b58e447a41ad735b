package services

import (
	"context"
	"time"

	"github.com/andrewpaige1/lingodeck-api/goals"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SessionInput struct {
	DeckID          string `json:"deckId"`
	CardsStudied    int    `json:"cardsStudied"`
	CorrectCount    int    `json:"correctCount"`
	IncorrectCount  int    `json:"incorrectCount"`
	DurationSeconds int    `json:"duration"`
}

// RecordSession appends a study session and advances the user's streak.
func (s *Store) RecordSession(ctx context.Context, userID uint, in SessionInput) (*models.StudySession, error) {
	if in.DeckID == "" {
		return nil, missing("deckId")
	}
	if in.CardsStudied < 0 || in.CorrectCount < 0 || in.IncorrectCount < 0 || in.DurationSeconds < 0 {
		return nil, invalid("cardsStudied", "session counts must be non-negative")
	}
	deck, err := s.GetDeck(ctx, userID, in.DeckID)
	if err != nil {
		return nil, err
	}
	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate session id")
	}

	now := s.now()
	session := models.StudySession{
		PublicID:        publicID,
		UserID:          userID,
		DeckID:          deck.ID,
		CardsStudied:    in.CardsStudied,
		CorrectCount:    in.CorrectCount,
		IncorrectCount:  in.IncorrectCount,
		DurationSeconds: in.DurationSeconds,
		CompletedAt:     now,
	}

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return errors.Wrap(err, "create session")
		}
		if err := tx.Model(&models.Deck{}).Where("id = ?", deck.ID).Update("last_studied", now).Error; err != nil {
			return errors.Wrap(err, "touch deck")
		}
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return errors.Wrap(err, "load user")
		}
		s.advanceStreak(&user, now)
		return errors.Wrap(tx.Model(&user).Select("streak", "best_streak", "last_study_date").Updates(&user).Error, "update streak")
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// sessions loads the user's study history, optionally from a point in time.
func (s *Store) sessions(ctx context.Context, userID uint, since *time.Time) ([]models.StudySession, error) {
	q := s.db(ctx).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("completed_at >= ?", *since)
	}
	var out []models.StudySession
	err := q.Order("completed_at asc").Find(&out).Error
	return out, errors.Wrap(err, "load study sessions")
}

func goalSessions(in []models.StudySession) []goals.Session {
	out := make([]goals.Session, len(in))
	for i, s := range in {
		out[i] = goals.Session{
			CardsStudied:   s.CardsStudied,
			CorrectCount:   s.CorrectCount,
			IncorrectCount: s.IncorrectCount,
			CompletedAt:    s.CompletedAt,
		}
	}
	return out
}

type DayProgress struct {
	Date           string `json:"date"`
	CardsStudied   int    `json:"cardsStudied"`
	CorrectCount   int    `json:"correctCount"`
	IncorrectCount int    `json:"incorrectCount"`
	Sessions       int    `json:"sessions"`
}

func (d *DayProgress) add(s models.StudySession) {
	d.CardsStudied += s.CardsStudied
	d.CorrectCount += s.CorrectCount
	d.IncorrectCount += s.IncorrectCount
	d.Sessions++
}

// MaxProgressDays bounds the daily progress window.
const MaxProgressDays = 365

// DailyProgress returns one entry per day from days ago through today,
// oldest first, with empty days filled in.
func (s *Store) DailyProgress(ctx context.Context, userID uint, days int) ([]DayProgress, error) {
	if days < 0 || days > MaxProgressDays {
		return nil, invalid("days", "days must be between 0 and %d", MaxProgressDays)
	}
	today := s.startOfDay(s.now())
	start := today.AddDate(0, 0, -days)

	sessions, err := s.sessions(ctx, userID, &start)
	if err != nil {
		return nil, err
	}

	out := make([]DayProgress, days+1)
	index := make(map[string]int, days+1)
	for i := range out {
		key := start.AddDate(0, 0, i).Format(time.DateOnly)
		out[i].Date = key
		index[key] = i
	}
	for _, session := range sessions {
		if i, ok := index[session.CompletedAt.In(s.Location).Format(time.DateOnly)]; ok {
			out[i].add(session)
		}
	}
	return out, nil
}

// TodayStats sums today's sessions.
func (s *Store) TodayStats(ctx context.Context, userID uint) (DayProgress, error) {
	days, err := s.DailyProgress(ctx, userID, 0)
	if err != nil {
		return DayProgress{}, err
	}
	return days[0], nil
}

// StudiedToday reports whether the user has any session today.
func (s *Store) StudiedToday(ctx context.Context, userID uint) (bool, error) {
	today, err := s.TodayStats(ctx, userID)
	return today.Sessions > 0, err
}
