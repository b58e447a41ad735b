package services

import (
	"context"
	"sort"
	"time"

	"github.com/andrewpaige1/lingodeck-api/achievements"
	"github.com/andrewpaige1/lingodeck-api/goals"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/paths"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// AchievementStatus is a definition joined with the user's record of it.
type AchievementStatus struct {
	achievements.Definition
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
	Notified    bool       `json:"notified"`
	Progress    int        `json:"progress"`
	MaxProgress int        `json:"maxProgress"`
}

type AchievementSummary struct {
	TotalUnlocked     int                `json:"totalUnlocked"`
	TotalAchievements int                `json:"totalAchievements"`
	RecentUnlock      *AchievementStatus `json:"recentUnlock,omitempty"`
}

// UserStats builds the snapshot achievements are checked against. Every
// figure comes from stored sessions and entity statuses.
func (s *Store) UserStats(ctx context.Context, userID uint) (achievements.Stats, error) {
	var stats achievements.Stats
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.Streak = s.CurrentStreak(user)

	var totals struct {
		CardsStudied int
		CorrectCount int
	}
	err = s.db(ctx).Model(&models.StudySession{}).
		Select("COALESCE(SUM(cards_studied), 0) AS cards_studied, COALESCE(SUM(correct_count), 0) AS correct_count").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return stats, errors.Wrap(err, "sum sessions")
	}
	stats.TotalCardsStudied = totals.CardsStudied
	stats.OverallAccuracy = achievements.OverallAccuracy(totals.CardsStudied, totals.CorrectCount)
	stats.HasStudiedCard = totals.CardsStudied > 0

	if stats.DecksCompleted, err = s.decksCompleted(ctx, userID); err != nil {
		return stats, err
	}

	counts := []struct {
		model interface{}
		where string
		arg   interface{}
		dest  *int64
	}{
		{&models.Deck{}, "", nil, new(int64)},
		{&models.Goal{}, "", nil, new(int64)},
		{&models.LearningPath{}, "", nil, new(int64)},
		{&models.Goal{}, "status = ?", goals.StatusCompleted, new(int64)},
		{&models.LearningPath{}, "status = ?", paths.PathCompleted, new(int64)},
	}
	for _, c := range counts {
		q := s.db(ctx).Model(c.model).Where("user_id = ?", userID)
		if c.where != "" {
			q = q.Where(c.where, c.arg)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return stats, errors.Wrap(err, "count user records")
		}
	}
	stats.HasCreatedDeck = *counts[0].dest > 0
	stats.HasCreatedGoal = *counts[1].dest > 0
	stats.HasCreatedPath = *counts[2].dest > 0
	stats.GoalsCompleted = int(*counts[3].dest)
	stats.PathsCompleted = int(*counts[4].dest)

	today, err := s.TodayStats(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.TodayCardsStudied = today.CardsStudied
	return stats, nil
}

// decksCompleted counts non-empty decks whose studied total has reached their
// card count.
func (s *Store) decksCompleted(ctx context.Context, userID uint) (int, error) {
	var decks []models.Deck
	if err := s.db(ctx).Select("id", "card_count").Where("user_id = ? AND card_count > 0", userID).Find(&decks).Error; err != nil {
		return 0, errors.Wrap(err, "load decks")
	}
	if len(decks) == 0 {
		return 0, nil
	}
	ids := make([]uint, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}
	totals, err := s.deckTotals(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range totals {
		if t.TotalCards > 0 && t.CardsStudied >= t.TotalCards {
			n++
		}
	}
	return n, nil
}

func (s *Store) userAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	err := s.db(ctx).Where("user_id = ?", userID).Order("unlocked_at desc").Find(&out).Error
	return out, errors.Wrap(err, "load user achievements")
}

// CheckAndUnlock records every achievement the user now qualifies for and
// returns only the records this call inserted. Existing records are left
// alone.
func (s *Store) CheckAndUnlock(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	stats, err := s.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.userAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(existing))
	for _, ua := range existing {
		unlocked[ua.AchievementID] = true
	}

	return s.recordUnlocks(ctx, userID, achievements.Evaluate(achievements.Definitions, stats, unlocked))
}

// recordUnlocks inserts one row per unlock. Rows another request already
// inserted are skipped and left out of the result.
func (s *Store) recordUnlocks(ctx context.Context, userID uint, earned []achievements.Unlock) ([]models.UserAchievement, error) {
	if len(earned) == 0 {
		return nil, nil
	}
	now := s.now()
	var records []models.UserAchievement
	for _, u := range earned {
		record := models.UserAchievement{
			ID:            models.UserAchievementID(userID, u.Definition.ID),
			UserID:        userID,
			AchievementID: u.Definition.ID,
			UnlockedAt:    now,
			Progress:      u.Progress,
		}
		res := s.db(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if res.Error != nil {
			return records, errors.Wrap(res.Error, "record achievement")
		}
		if res.RowsAffected == 1 {
			records = append(records, record)
		}
	}
	if len(records) > 0 {
		s.Log.Info("unlocked achievements", "user", userID, "count", len(records))
	}
	return records, nil
}

// WithStatus lists every definition with the user's progress and unlock state.
func (s *Store) WithStatus(ctx context.Context, userID uint) ([]AchievementStatus, error) {
	stats, err := s.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.userAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.UserAchievement, len(existing))
	for _, ua := range existing {
		byID[ua.AchievementID] = ua
	}

	out := make([]AchievementStatus, len(achievements.Definitions))
	for i, d := range achievements.Definitions {
		p := achievements.Calculate(d, stats)
		st := AchievementStatus{Definition: d, Progress: p.Progress, MaxProgress: p.MaxProgress}
		if ua, ok := byID[d.ID]; ok {
			at := ua.UnlockedAt
			st.Unlocked = true
			st.UnlockedAt = &at
			st.Notified = ua.Notified
			st.Progress = d.Criteria.Value
		}
		out[i] = st
	}
	return out, nil
}

// Unnotified returns unlocked achievements the user has not been told about.
func (s *Store) Unnotified(ctx context.Context, userID uint) ([]AchievementStatus, error) {
	var records []models.UserAchievement
	if err := s.db(ctx).Where("user_id = ? AND notified = ?", userID, false).Order("unlocked_at asc").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "load unnotified achievements")
	}
	out := make([]AchievementStatus, 0, len(records))
	for _, ua := range records {
		if st, ok := unlockedStatus(ua); ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func unlockedStatus(ua models.UserAchievement) (AchievementStatus, bool) {
	d, ok := achievements.ByID(ua.AchievementID)
	if !ok {
		return AchievementStatus{}, false
	}
	at := ua.UnlockedAt
	return AchievementStatus{
		Definition:  d,
		Unlocked:    true,
		UnlockedAt:  &at,
		Notified:    ua.Notified,
		Progress:    ua.Progress,
		MaxProgress: d.Criteria.Value,
	}, true
}

// MarkNotified sets the one-way notified flag on an unlocked achievement.
func (s *Store) MarkNotified(ctx context.Context, userID uint, achievementID string) error {
	res := s.db(ctx).Model(&models.UserAchievement{}).
		Where("id = ?", models.UserAchievementID(userID, achievementID)).
		Update("notified", true)
	if res.Error != nil {
		return errors.Wrap(res.Error, "mark achievement notified")
	}
	if res.RowsAffected == 0 {
		return notFound("achievement " + achievementID)
	}
	return nil
}

func (s *Store) Summary(ctx context.Context, userID uint) (AchievementSummary, error) {
	records, err := s.userAchievements(ctx, userID)
	if err != nil {
		return AchievementSummary{}, err
	}
	sum := AchievementSummary{
		TotalUnlocked:     len(records),
		TotalAchievements: len(achievements.Definitions),
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UnlockedAt.After(records[j].UnlockedAt)
	})
	for _, ua := range records {
		if st, ok := unlockedStatus(ua); ok {
			sum.RecentUnlock = &st
			break
		}
	}
	return sum, nil
}
