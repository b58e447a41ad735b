package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

// Admin handlers run behind middleware.RequireAdmin, so none of them look at
// the calling user.

func (db *DBHandler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", services.DefaultAdminUsers)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	users, err := db.Store.ListUsers(r.Context(), limit)
	if err != nil {
		db.fail(w, err, "Failed to list users")
		return
	}
	if users == nil {
		users = []services.AdminUser{}
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

func (db *DBHandler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := db.Store.UserDetail(r.Context(), r.PathValue("userID"))
	if err != nil {
		db.fail(w, err, "Failed to load user")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (db *DBHandler) AdminSetUserRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	user, err := db.Store.SetUserRole(r.Context(), r.PathValue("userID"), body.Role)
	if err != nil {
		db.fail(w, err, "Failed to update user role")
		return
	}
	db.Log.Info("changed user role", "user", user.ID, "role", user.Role)
	utils.WriteJSON(w, http.StatusOK, user)
}

func (db *DBHandler) AdminSetUserBanned(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Banned *bool `json:"banned"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Banned == nil {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: banned", "")
		return
	}
	user, err := db.Store.SetUserBanned(r.Context(), r.PathValue("userID"), *body.Banned)
	if err != nil {
		db.fail(w, err, "Failed to update user")
		return
	}
	db.Log.Info("changed user ban", "user", user.ID, "banned", user.IsBanned)
	utils.WriteJSON(w, http.StatusOK, user)
}

// AdminListDecks lists public decks awaiting or past moderation.
func (db *DBHandler) AdminListDecks(w http.ResponseWriter, r *http.Request) {
	status := models.ModerationStatus(r.URL.Query().Get("status"))
	decks, err := db.Store.PublicDecks(r.Context(), status)
	if err != nil {
		db.fail(w, err, "Failed to list decks")
		return
	}
	if decks == nil {
		decks = []services.PublicDeck{}
	}
	utils.WriteJSON(w, http.StatusOK, decks)
}

func (db *DBHandler) AdminSetDeckStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.ModerationStatus `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	deck, err := db.Store.SetDeckStatus(r.Context(), r.PathValue("deckID"), body.Status)
	if err != nil {
		db.fail(w, err, "Failed to update deck")
		return
	}
	utils.WriteJSON(w, http.StatusOK, deck)
}

func (db *DBHandler) AdminGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := db.Store.AdminStats(r.Context())
	if err != nil {
		db.fail(w, err, "Failed to load stats")
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
