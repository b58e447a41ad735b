package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/analytics"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func period(w http.ResponseWriter, r *http.Request) (analytics.Period, bool) {
	p, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return "", false
	}
	return p, true
}

// GetAnalytics returns every analytics view in one response.
func (db *DBHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, ok := period(w, r)
	if !ok {
		return
	}
	out, err := db.Store.Analytics(r.Context(), user.ID, p)
	if err != nil {
		db.fail(w, err, "Failed to load analytics")
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (db *DBHandler) GetOverallStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := db.Store.OverallStats(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load analytics")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (db *DBHandler) GetTimeStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	p, ok := period(w, r)
	if !ok {
		return
	}
	stats, err := db.Store.TimeStats(r.Context(), user.ID, p)
	if err != nil {
		db.fail(w, err, "Failed to load analytics")
		return
	}
	if stats == nil {
		stats = []analytics.TimeStats{}
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (db *DBHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := db.Store.DeckStats(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load analytics")
		return
	}
	if stats == nil {
		stats = []services.DeckStats{}
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (db *DBHandler) GetStudyPatterns(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	patterns, err := db.Store.StudyPatterns(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load analytics")
		return
	}
	utils.WriteJSON(w, http.StatusOK, patterns)
}

func (db *DBHandler) GetLearningInsights(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	insights, err := db.Store.LearningInsights(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load analytics")
		return
	}
	utils.WriteJSON(w, http.StatusOK, insights)
}
