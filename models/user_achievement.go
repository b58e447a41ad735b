package models

import (
	"fmt"
	"time"
)

// UserAchievement records that a user earned an achievement. Rows are written
// once and never deleted or recomputed; only Notified ever changes.
//
// The achievement id column is named odachievement_id to stay compatible
// with previously exported records.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;size:200" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"-"`
	AchievementID string    `gorm:"column:odachievement_id;not null;size:50" json:"odachievementId"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlockedAt"`
	Progress      int       `json:"progress"`
	Notified      bool      `gorm:"default:false" json:"notified"`
}

func UserAchievementID(userID uint, achievementID string) string {
	return fmt.Sprintf("%d_%s", userID, achievementID)
}
