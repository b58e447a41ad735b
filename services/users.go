package services

import (
	"context"
	"time"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SyncUser makes sure the identity provider subject has a user row and keeps
// the nickname current.
func (s *Store) SyncUser(ctx context.Context, auth0ID, nickname string) (*models.User, error) {
	if auth0ID == "" {
		return nil, missing("sub")
	}

	var user models.User
	err := s.db(ctx).Where("auth0_id = ?", auth0ID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Auth0ID: auth0ID, Nickname: nickname}
		user.CreatedAt = s.now()
		if err := s.db(ctx).Create(&user).Error; err != nil {
			return nil, errors.Wrap(err, "create user")
		}
		s.Log.Info("created user", "user", user.ID, "nickname", nickname)
	case err != nil:
		return nil, errors.Wrap(err, "load user")
	case nickname != "" && user.Nickname != nickname:
		user.Nickname = nickname
		if err := s.db(ctx).Model(&user).Update("nickname", nickname).Error; err != nil {
			return nil, errors.Wrap(err, "update nickname")
		}
	}
	return &user, nil
}

// UserBySubject resolves the external user id the data API is called with.
func (s *Store) UserBySubject(ctx context.Context, auth0ID string) (*models.User, error) {
	var user models.User
	if err := first(s.db(ctx).Where("auth0_id = ?", auth0ID), &user, "user "+auth0ID); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := first(s.db(ctx).Where("id = ?", id), &user, "user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateNotifications validates and stores reminder preferences.
func (s *Store) UpdateNotifications(ctx context.Context, userID uint, settings models.NotificationSettings) (*models.User, error) {
	for field, v := range map[string]string{
		"studyReminderTime":  settings.StudyReminderTime,
		"streakReminderTime": settings.StreakReminderTime,
	} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return nil, invalid(field, "%s must be HH:mm, got %q", field, v)
		}
	}
	if settings.StudyReminder && settings.StudyReminderTime == "" {
		return nil, missing("studyReminderTime")
	}
	if settings.StreakReminder && settings.StreakReminderTime == "" {
		return nil, missing("streakReminderTime")
	}

	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Notifications = settings
	if err := s.db(ctx).Save(user).Error; err != nil {
		return nil, errors.Wrap(err, "save notification settings")
	}
	return user, nil
}

// UsersWithReminders lists users that have at least one reminder enabled.
func (s *Store) UsersWithReminders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db(ctx).Where("notify_study_reminder = ? OR notify_streak_reminder = ?", true, true).Find(&users).Error
	return users, errors.Wrap(err, "load users with reminders")
}

// advanceStreak applies one study day to the user's streak: the same day
// changes nothing, the next day extends it and any gap restarts it at 1.
func (s *Store) advanceStreak(u *models.User, at time.Time) {
	defer func() {
		if u.Streak > u.BestStreak {
			u.BestStreak = u.Streak
		}
	}()
	day := s.startOfDay(at)
	if u.LastStudyDate == nil {
		u.Streak = 1
		u.LastStudyDate = &day
		return
	}

	last := s.startOfDay(*u.LastStudyDate)
	switch {
	case !day.After(last):
		return
	case last.AddDate(0, 0, 1).Equal(day):
		u.Streak++
	default:
		u.Streak = 1
	}
	u.LastStudyDate = &day
}

// CurrentStreak is the stored streak, or 0 once a full day has passed
// without study.
func (s *Store) CurrentStreak(u *models.User) int {
	if u.LastStudyDate == nil {
		return 0
	}
	today := s.startOfDay(s.now())
	last := s.startOfDay(*u.LastStudyDate)
	if last.Before(today.AddDate(0, 0, -1)) {
		return 0
	}
	return u.Streak
}

// StreakStatus reports the user's live streak and whether they studied today.
func (s *Store) StreakStatus(ctx context.Context, userID uint) (int, bool, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	studied, err := s.StudiedToday(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	return s.CurrentStreak(user), studied, nil
}
