package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func (db *DBHandler) SaveTypingResult(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.TypingResultInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	result, err := db.Store.SaveTypingResult(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to save typing result")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, result)
}

func (db *DBHandler) GetTypingResults(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", services.DefaultTypingHistory)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	results, err := db.Store.TypingResults(r.Context(), user.ID, limit)
	if err != nil {
		db.fail(w, err, "Failed to load typing results")
		return
	}
	if results == nil {
		results = []models.TypingResult{}
	}
	utils.WriteJSON(w, http.StatusOK, results)
}

// GetLanguageResults returns recent code typing results for one language.
func (db *DBHandler) GetLanguageResults(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	results, err := db.Store.LanguageResults(r.Context(), user.ID, r.PathValue("language"))
	if err != nil {
		db.fail(w, err, "Failed to load typing results")
		return
	}
	if results == nil {
		results = []models.TypingResult{}
	}
	utils.WriteJSON(w, http.StatusOK, results)
}

func (db *DBHandler) GetTypingSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	summary, err := db.Store.TypingSummary(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to load typing results")
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}
