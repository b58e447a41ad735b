package services

import (
	"context"
	"time"

	"github.com/andrewpaige1/lingodeck-api/analytics"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/pkg/errors"
)

func (s *Store) analyticsSessions(ctx context.Context, userID uint, since *time.Time) ([]analytics.Session, error) {
	rows, err := s.sessions(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	out := make([]analytics.Session, len(rows))
	for i, r := range rows {
		out[i] = analytics.Session{
			DeckID:          r.DeckID,
			CardsStudied:    r.CardsStudied,
			CorrectCount:    r.CorrectCount,
			DurationSeconds: r.DurationSeconds,
			CompletedAt:     r.CompletedAt,
		}
	}
	return out, nil
}

func (s *Store) analyticsCards(ctx context.Context, userID uint) ([]analytics.Card, error) {
	var out []analytics.Card
	err := s.db(ctx).Model(&models.Card{}).
		Select("deck_id", "repetitions", "ease_factor").
		Where("user_id = ?", userID).
		Scan(&out).Error
	return out, errors.Wrap(err, "load card states")
}

func (s *Store) OverallStats(ctx context.Context, userID uint) (analytics.Overall, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return analytics.Overall{}, err
	}
	sessions, err := s.analyticsSessions(ctx, userID, nil)
	if err != nil {
		return analytics.Overall{}, err
	}
	cards, err := s.analyticsCards(ctx, userID)
	if err != nil {
		return analytics.Overall{}, err
	}
	out := analytics.OverallStats(sessions, cards)
	out.CurrentStreak = s.CurrentStreak(user)
	out.BestStreak = max(user.BestStreak, user.Streak)
	return out, nil
}

// TimeStats returns one row per day of the period, oldest first.
func (s *Store) TimeStats(ctx context.Context, userID uint, period analytics.Period) ([]analytics.TimeStats, error) {
	today := s.startOfDay(s.now())
	var first *time.Time
	if period == analytics.All {
		var earliest models.StudySession
		err := s.db(ctx).Where("user_id = ?", userID).Order("completed_at asc").Limit(1).Find(&earliest).Error
		if err != nil {
			return nil, errors.Wrap(err, "load first session")
		}
		if earliest.ID != 0 {
			first = &earliest.CompletedAt
		}
	}
	start := period.Start(today, first)
	sessions, err := s.analyticsSessions(ctx, userID, &start)
	if err != nil {
		return nil, err
	}
	return analytics.Daily(sessions, start, today), nil
}

type DeckStats struct {
	DeckID          string     `json:"deckId"`
	DeckName        string     `json:"deckName"`
	TotalCards      int        `json:"totalCards"`
	CardsStudied    int        `json:"cardsStudied"`
	AverageAccuracy int        `json:"averageAccuracy"`
	StudyTime       int        `json:"studyTime"`
	LastStudied     *time.Time `json:"lastStudied,omitempty"`

	analytics.CardCounts
}

// DeckStats reports study totals and card mastery for each of the user's
// decks.
func (s *Store) DeckStats(ctx context.Context, userID uint) ([]DeckStats, error) {
	decks, err := s.ListDecks(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.analyticsSessions(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	cards, err := s.analyticsCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := map[uint]*analytics.Totals{}
	for _, session := range sessions {
		t, ok := totals[session.DeckID]
		if !ok {
			t = &analytics.Totals{}
			totals[session.DeckID] = t
		}
		t.Add(session)
	}
	counts := map[uint]*analytics.CardCounts{}
	for _, c := range cards {
		cc, ok := counts[c.DeckID]
		if !ok {
			cc = &analytics.CardCounts{}
			counts[c.DeckID] = cc
		}
		cc.Add(c)
	}

	out := make([]DeckStats, 0, len(decks))
	for _, d := range decks {
		row := DeckStats{DeckID: d.PublicID, DeckName: d.Name}
		if cc, ok := counts[d.ID]; ok {
			row.CardCounts = *cc
		}
		row.TotalCards = row.CardCounts.Total()
		if t, ok := totals[d.ID]; ok {
			row.CardsStudied = t.CardsStudied
			row.AverageAccuracy = t.Accuracy()
			row.StudyTime = t.StudySeconds
			row.LastStudied = t.LastStudied
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) windowStart(days int) time.Time {
	return s.startOfDay(s.now()).AddDate(0, 0, -days)
}

// StudyPatterns looks at the last analytics.PatternWindow days.
func (s *Store) StudyPatterns(ctx context.Context, userID uint) (analytics.StudyPattern, error) {
	since := s.windowStart(analytics.PatternWindow)
	sessions, err := s.analyticsSessions(ctx, userID, &since)
	if err != nil {
		return analytics.StudyPattern{}, err
	}
	return analytics.Patterns(sessions, s.Location), nil
}

func (s *Store) LearningInsights(ctx context.Context, userID uint) (analytics.Insights, error) {
	since := s.windowStart(analytics.InsightWindow)
	sessions, err := s.analyticsSessions(ctx, userID, &since)
	if err != nil {
		return analytics.Insights{}, err
	}
	cards, err := s.analyticsCards(ctx, userID)
	if err != nil {
		return analytics.Insights{}, err
	}
	return analytics.LearningInsights(sessions, cards, s.Location), nil
}

type Analytics struct {
	Overall   analytics.Overall      `json:"overall"`
	TimeStats []analytics.TimeStats  `json:"timeStats"`
	DeckStats []DeckStats            `json:"deckStats"`
	Patterns  analytics.StudyPattern `json:"patterns"`
	Insights  analytics.Insights     `json:"insights"`
}

// Analytics gathers every view in one call.
func (s *Store) Analytics(ctx context.Context, userID uint, period analytics.Period) (*Analytics, error) {
	var out Analytics
	var err error
	if out.Overall, err = s.OverallStats(ctx, userID); err != nil {
		return nil, err
	}
	if out.TimeStats, err = s.TimeStats(ctx, userID, period); err != nil {
		return nil, err
	}
	if out.DeckStats, err = s.DeckStats(ctx, userID); err != nil {
		return nil, err
	}
	if out.Patterns, err = s.StudyPatterns(ctx, userID); err != nil {
		return nil, err
	}
	if out.Insights, err = s.LearningInsights(ctx, userID); err != nil {
		return nil, err
	}
	return &out, nil
}
