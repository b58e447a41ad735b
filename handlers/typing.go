package handlers

import (
	"net/http"
	"strconv"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func (db *DBHandler) GetSnippets(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := db.Store.ListSnippets(r.Context(), user.ID, r.URL.Query().Get("language"))
	if err != nil {
		db.fail(w, err, "Failed to list snippets")
		return
	}
	if list == nil {
		list = []models.TypingSnippet{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (db *DBHandler) GetSnippetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	snippet, err := db.Store.GetSnippet(r.Context(), user.ID, r.PathValue("snippetID"))
	if err != nil {
		db.fail(w, err, "Failed to load snippet")
		return
	}
	utils.WriteJSON(w, http.StatusOK, snippet)
}

func (db *DBHandler) CreateSnippet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.SnippetInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	snippet, err := db.Store.CreateSnippet(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to create snippet")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, snippet)
}

func (db *DBHandler) UpdateSnippetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.SnippetInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	snippet, err := db.Store.UpdateSnippet(r.Context(), user.ID, r.PathValue("snippetID"), in)
	if err != nil {
		db.fail(w, err, "Failed to update snippet")
		return
	}
	utils.WriteJSON(w, http.StatusOK, snippet)
}

func (db *DBHandler) DeleteSnippetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.DeleteSnippet(r.Context(), user.ID, r.PathValue("snippetID")); err != nil {
		db.fail(w, err, "Failed to delete snippet")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

func (db *DBHandler) GetTypingPaths(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	status, ok := statusParam(w, r)
	if !ok {
		return
	}
	list, err := db.Store.ListTypingPaths(r.Context(), user.ID, status)
	if err != nil {
		db.fail(w, err, "Failed to list typing paths")
		return
	}
	if list == nil {
		list = []models.TypingPath{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (db *DBHandler) GetTypingPathByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	tp, err := db.Store.GetTypingPath(r.Context(), user.ID, r.PathValue("pathID"))
	if err != nil {
		db.fail(w, err, "Failed to load typing path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, tp)
}

func (db *DBHandler) CreateTypingPath(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.TypingPathInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	tp, err := db.Store.CreateTypingPath(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to create typing path")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, tp)
}

func (db *DBHandler) UpdateTypingPathByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var patch services.PathPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	tp, err := db.Store.UpdateTypingPath(r.Context(), user.ID, r.PathValue("pathID"), patch)
	if err != nil {
		db.fail(w, err, "Failed to update typing path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, tp)
}

func (db *DBHandler) DeleteTypingPathByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.DeleteTypingPath(r.Context(), user.ID, r.PathValue("pathID")); err != nil {
		db.fail(w, err, "Failed to delete typing path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

// RecordTypingAttempt scores one run of a stage's snippet.
func (db *DBHandler) RecordTypingAttempt(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	stage, err := strconv.Atoi(r.PathValue("stage"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid stage index", "")
		return
	}
	var in services.AttemptInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	tp, err := db.Store.RecordTypingAttempt(r.Context(), user.ID, r.PathValue("pathID"), stage, in)
	if err != nil {
		db.fail(w, err, "Failed to record attempt")
		return
	}
	utils.WriteJSON(w, http.StatusOK, tp)
}
