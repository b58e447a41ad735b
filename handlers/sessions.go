package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/achievements"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/reminders"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

type sessionResponse struct {
	Session  *models.StudySession      `json:"session"`
	Streak   int                       `json:"streak"`
	Unlocked []achievements.Definition `json:"unlocked"`
}

// RecordSession stores a finished study session, then checks achievements.
// An achievement check failure does not fail the request.
func (db *DBHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.SessionInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	session, err := db.Store.RecordSession(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to record session")
		return
	}

	resp := sessionResponse{Session: session, Unlocked: []achievements.Definition{}}
	if streak, _, err := db.Store.StreakStatus(r.Context(), user.ID); err == nil {
		resp.Streak = streak
	}
	unlocked, err := db.Store.CheckAndUnlock(r.Context(), user.ID)
	if err != nil {
		db.Log.Warn("check achievements", "user", user.ID, "error", err)
	}
	for _, ua := range unlocked {
		def, ok := achievements.ByID(ua.AchievementID)
		if !ok {
			continue
		}
		resp.Unlocked = append(resp.Unlocked, def)
		if db.Notifier != nil {
			if err := db.Notifier.Notify(r.Context(), user.ID, reminders.AchievementMessage(def.Name)); err != nil {
				db.Log.Warn("notify achievement", "user", user.ID, "error", err)
			}
		}
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

func (db *DBHandler) GetDailyProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", 7)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	progress, err := db.Store.DailyProgress(r.Context(), user.ID, days)
	if err != nil {
		db.fail(w, err, "Failed to load progress")
		return
	}
	utils.WriteJSON(w, http.StatusOK, progress)
}

func (db *DBHandler) GetTodayProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	today, err := db.Store.TodayStats(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load progress")
		return
	}
	utils.WriteJSON(w, http.StatusOK, today)
}
