package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

type meResponse struct {
	*models.User
	// CurrentStreak is zero once a day has been missed, whatever the stored
	// streak says.
	CurrentStreak int  `json:"currentStreak"`
	StudiedToday  bool `json:"studiedToday"`
}

func (db *DBHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	streak, studied, err := db.Store.StreakStatus(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, meResponse{User: user, CurrentStreak: streak, StudiedToday: studied})
}

// UpdateNotifications stores reminder settings and reschedules the user's
// reminders to match.
func (db *DBHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var settings models.NotificationSettings
	if err := decode(r, &settings); err != nil {
		badRequest(w, err)
		return
	}

	updated, err := db.Store.UpdateNotifications(r.Context(), user.ID, settings)
	if err != nil {
		db.fail(w, err, "Failed to update notifications")
		return
	}
	if db.Reminders != nil {
		if err := db.Reminders.Apply(updated.ID, updated.Notifications); err != nil {
			db.fail(w, err, "Failed to schedule reminders")
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}
