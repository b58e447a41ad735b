package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/srs"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func (db *DBHandler) GetCardsForDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	cards, err := db.Store.ListCards(r.Context(), user.ID, r.PathValue("deckID"))
	if err != nil {
		db.fail(w, err, "Failed to list cards")
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	utils.WriteJSON(w, http.StatusOK, cards)
}

// CreateCards accepts either one card or {"cards": [...]}.
func (db *DBHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body struct {
		services.CardInput
		Cards []services.CardInput `json:"cards"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	in := body.Cards
	if len(in) == 0 {
		in = []services.CardInput{body.CardInput}
	}

	cards, err := db.Store.CreateCards(r.Context(), user.ID, r.PathValue("deckID"), in)
	if err != nil {
		db.fail(w, err, "Failed to create cards")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, cards)
}

func (db *DBHandler) UpdateCardByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var patch services.CardPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	card, err := db.Store.UpdateCard(r.Context(), user.ID, r.PathValue("deckID"), r.PathValue("cardID"), patch)
	if err != nil {
		db.fail(w, err, "Failed to update card")
		return
	}
	utils.WriteJSON(w, http.StatusOK, card)
}

func (db *DBHandler) DeleteCardByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.DeleteCard(r.Context(), user.ID, r.PathValue("deckID"), r.PathValue("cardID")); err != nil {
		db.fail(w, err, "Failed to delete card")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

// GetReviewQueue lists due cards, optionally for one deck.
func (db *DBHandler) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	cards, err := db.Store.DueCards(r.Context(), user.ID, r.URL.Query().Get("deckId"), limit)
	if err != nil {
		db.fail(w, err, "Failed to load review queue")
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	utils.WriteJSON(w, http.StatusOK, cards)
}

func (db *DBHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Quality *int `json:"quality"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Quality == nil {
		utils.WriteError(w, http.StatusBadRequest, "Missing required field: quality", "")
		return
	}
	card, err := db.Store.ReviewCard(r.Context(), user.ID, r.PathValue("cardID"), srs.Quality(*body.Quality))
	if err != nil {
		db.fail(w, err, "Failed to review card")
		return
	}
	utils.WriteJSON(w, http.StatusOK, card)
}
