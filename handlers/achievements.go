package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/achievements"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

// GetAchievements lists the whole catalogue with the user's progress on
// each entry.
func (db *DBHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	all, err := db.Store.WithStatus(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load achievements")
		return
	}
	utils.WriteJSON(w, http.StatusOK, all)
}

func (db *DBHandler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	unlocked, err := db.Store.CheckAndUnlock(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to check achievements")
		return
	}
	defs := []achievements.Definition{}
	for _, ua := range unlocked {
		if def, ok := achievements.ByID(ua.AchievementID); ok {
			defs = append(defs, def)
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"unlocked": defs})
}

func (db *DBHandler) GetUnnotifiedAchievements(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	pending, err := db.Store.Unnotified(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load achievements")
		return
	}
	if pending == nil {
		pending = []services.AchievementStatus{}
	}
	utils.WriteJSON(w, http.StatusOK, pending)
}

func (db *DBHandler) MarkAchievementNotified(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.MarkNotified(r.Context(), user.ID, r.PathValue("achievementID")); err != nil {
		db.fail(w, err, "Failed to update achievement")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

func (db *DBHandler) GetAchievementSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	summary, err := db.Store.Summary(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load achievements")
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}
