package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func (db *DBHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	decks, err := db.Store.ListDecks(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to list decks")
		return
	}
	// If no decks found, return an empty array instead of null
	if decks == nil {
		decks = []models.Deck{}
	}
	utils.WriteJSON(w, http.StatusOK, decks)
}

// GetDeckByID returns a deck the user owns or one that is public.
func (db *DBHandler) GetDeckByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	deck, err := db.Store.ReadableDeck(r.Context(), user.ID, r.PathValue("deckID"))
	if err != nil {
		db.fail(w, err, "Failed to load deck")
		return
	}
	utils.WriteJSON(w, http.StatusOK, deck)
}

func (db *DBHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.DeckInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	deck, err := db.Store.CreateDeck(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to create deck")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, deck)
}

func (db *DBHandler) UpdateDeckByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var patch services.DeckPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	deck, err := db.Store.UpdateDeck(r.Context(), user.ID, r.PathValue("deckID"), patch)
	if err != nil {
		db.fail(w, err, "Failed to update deck")
		return
	}
	utils.WriteJSON(w, http.StatusOK, deck)
}

func (db *DBHandler) DeleteDeckByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.DeleteDeck(r.Context(), user.ID, r.PathValue("deckID")); err != nil {
		db.fail(w, err, "Failed to delete deck")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}
