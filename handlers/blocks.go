package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func (db *DBHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	scores, err := db.Store.Leaderboard(r.Context(), user.ID, r.PathValue("deckID"), r.PathValue("game"))
	if err != nil {
		db.fail(w, err, "Failed to load leaderboard")
		return
	}
	if scores == nil {
		scores = []models.GameScore{}
	}
	utils.WriteJSON(w, http.StatusOK, scores)
}

func (db *DBHandler) CreateScore(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.ScoreInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	score, err := db.Store.CreateScore(r.Context(), user.ID, r.PathValue("deckID"), r.PathValue("game"), in)
	if err != nil {
		db.fail(w, err, "Failed to save score")
		return
	}
	score.User = *user
	utils.WriteJSON(w, http.StatusCreated, score)
}
