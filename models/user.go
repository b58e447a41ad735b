package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the system, keyed by the identity provider subject
type User struct {
	gorm.Model
	Auth0ID       string     `gorm:"uniqueIndex;not null;size:100" json:"-"`
	Nickname      string     `gorm:"size:100" json:"nickname"`
	Role          string     `gorm:"size:20;default:user" json:"role"`
	IsBanned      bool       `gorm:"default:false" json:"isBanned"`
	Streak        int        `gorm:"default:0" json:"streak"`
	BestStreak    int        `gorm:"default:0" json:"bestStreak"`
	LastStudyDate *time.Time `json:"lastStudyDate,omitempty"`

	Notifications NotificationSettings `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`

	Decks []Deck `gorm:"foreignKey:UserID" json:"-"`
}

// NotificationSettings holds the daily reminder preferences. Times are "HH:mm"
// in the server's configured time zone.
type NotificationSettings struct {
	StudyReminder      bool   `json:"studyReminder"`
	StudyReminderTime  string `gorm:"size:5" json:"studyReminderTime"`
	StreakReminder     bool   `json:"streakReminder"`
	StreakReminderTime string `gorm:"size:5" json:"streakReminderTime"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
