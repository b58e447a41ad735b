package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
)

// Handlers for /api/data/*. Callers hold the import API key and act on any
// user, named by identity provider subject.

// dataFail is fail with the caller's wording for a missing record.
func (db *DBHandler) dataFail(w http.ResponseWriter, err error, notFound, action string) {
	if errors.Is(err, services.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, notFound, "")
		return
	}
	db.fail(w, err, action)
}

// dataUser resolves the userId a data API request names.
func (db *DBHandler) dataUser(w http.ResponseWriter, r *http.Request, subject, action string) (*models.User, bool) {
	user, err := db.Store.UserBySubject(r.Context(), subject)
	if err != nil {
		db.dataFail(w, err, "User not found: "+subject, action)
		return nil, false
	}
	return user, true
}

func success(w http.ResponseWriter, message string, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

// ListImportFiles describes the deck files under DATA_DIR/?path=.
func (db *DBHandler) ListImportFiles(w http.ResponseWriter, r *http.Request) {
	sub := r.URL.Query().Get("path")
	if sub == "" {
		sub = services.DefaultImportPath
	}
	files, err := services.ListImportFiles(db.DataDir, sub)
	if err != nil {
		db.dataFail(w, err, "Directory not found: "+sub, "Failed to list files")
		return
	}
	if files == nil {
		files = []services.ImportFileInfo{}
	}
	success(w, "", map[string]interface{}{
		"path":       sub,
		"files":      files,
		"totalFiles": len(files),
	})
}

func (db *DBHandler) ImportFlashcards(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path     string `json:"path"`
		Filename string `json:"filename"`
		UserID   string `json:"userId"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Filename == "" || body.UserID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: filename, userId", "")
		return
	}
	user, ok := db.dataUser(w, r, body.UserID, "Failed to import file")
	if !ok {
		return
	}
	sub := body.Path
	if sub == "" {
		sub = services.DefaultImportPath
	}

	deck, err := db.Store.ImportFile(r.Context(), db.DataDir, sub, body.Filename, user.ID)
	if err != nil {
		db.dataFail(w, err, fmt.Sprintf("File not found: %s/%s", sub, body.Filename), "Failed to import file")
		return
	}
	db.Log.Info("imported deck", "user", user.ID, "deck", deck.PublicID, "cards", deck.CardCount)
	success(w, fmt.Sprintf("Imported %d cards to deck %q", deck.CardCount, deck.Name), map[string]interface{}{
		"deck": map[string]interface{}{
			"id":        deck.PublicID,
			"name":      deck.Name,
			"cardCount": deck.CardCount,
		},
	})
}

// UpdateFlashcardData patches a deck or a card by id. Card patches may set
// the scheduling fields.
func (db *DBHandler) UpdateFlashcardData(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string          `json:"type"`
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.Type == "" || body.ID == "" || len(body.Data) == 0 || string(body.Data) == "null" {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: type, id, data", "")
		return
	}

	var (
		updated interface{}
		err     error
	)
	switch body.Type {
	case "deck":
		var patch services.DeckPatch
		if err := json.Unmarshal(body.Data, &patch); err != nil {
			badRequest(w, err)
			return
		}
		updated, err = db.Store.UpdateDeckByID(r.Context(), body.ID, patch)
	case "card":
		var patch services.CardPatch
		if err := json.Unmarshal(body.Data, &patch); err != nil {
			badRequest(w, err)
			return
		}
		updated, err = db.Store.UpdateCardByID(r.Context(), body.ID, patch)
	default:
		utils.WriteError(w, http.StatusBadRequest, `Invalid type. Must be "deck" or "card"`, "")
		return
	}
	if err != nil {
		db.dataFail(w, err, fmt.Sprintf("%s not found with id: %s", body.Type, body.ID), "Failed to update")
		return
	}
	success(w, body.Type+" updated successfully", map[string]interface{}{body.Type: updated})
}

// DeleteFlashcardData wipes every deck and card a user owns.
func (db *DBHandler) DeleteFlashcardData(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.UserID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing required field: userId", "")
		return
	}
	user, ok := db.dataUser(w, r, body.UserID, "Failed to delete")
	if !ok {
		return
	}
	deleted, err := db.Store.DeleteUserDecks(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to delete")
		return
	}
	success(w, fmt.Sprintf("Deleted %d decks and %d cards", deleted.Decks, deleted.Cards), map[string]interface{}{
		"deleted": deleted,
	})
}

// ExportFlashcards streams a deck as a json, csv or xlsx attachment.
func (db *DBHandler) ExportFlashcards(w http.ResponseWriter, r *http.Request) {
	deckID := r.URL.Query().Get("deckId")
	if deckID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing required parameter: deckId", "")
		return
	}
	out, err := db.Store.ExportDeck(r.Context(), services.AnyUser, deckID, r.URL.Query().Get("format"))
	if err != nil {
		db.dataFail(w, err, "deck not found with id: "+deckID, "Failed to export deck")
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Body)
}

type deletePathsRequest struct {
	PathID    string `json:"pathId"`
	UserID    string `json:"userId"`
	DeleteAll bool   `json:"deleteAll"`
}

type updatePathRequest struct {
	PathID string              `json:"pathId"`
	Data   *services.PathPatch `json:"data"`
}

func (db *DBHandler) ListPathData(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("userId")
	if subject == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing required parameter: userId", "")
		return
	}
	status, ok := statusParam(w, r)
	if !ok {
		return
	}
	user, ok := db.dataUser(w, r, subject, "Failed to fetch learning paths")
	if !ok {
		return
	}
	list, err := db.Store.ListPaths(r.Context(), user.ID, status)
	if err != nil {
		db.fail(w, err, "Failed to fetch learning paths")
		return
	}
	success(w, "", map[string]interface{}{
		"userId":     subject,
		"paths":      viewPaths(list),
		"totalPaths": len(list),
	})
}

func (db *DBHandler) CreatePathData(w http.ResponseWriter, r *http.Request) {
	var body struct {
		services.PathInput
		UserID string `json:"userId"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.UserID == "" || body.Name == "" || len(body.DeckIDs) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: userId, name, deckIds", "")
		return
	}
	user, ok := db.dataUser(w, r, body.UserID, "Failed to create learning path")
	if !ok {
		return
	}
	lp, err := db.Store.CreatePath(r.Context(), user.ID, body.PathInput)
	if err != nil {
		db.fail(w, err, "Failed to create learning path")
		return
	}
	success(w, fmt.Sprintf("Created learning path %q with %d stages", lp.Name, len(lp.Stages)), map[string]interface{}{
		"path": viewPath(lp),
	})
}

func (db *DBHandler) UpdatePathData(w http.ResponseWriter, r *http.Request) {
	var body updatePathRequest
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.PathID == "" || body.Data == nil {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: pathId, data", "")
		return
	}
	lp, err := db.Store.UpdatePath(r.Context(), services.AnyUser, body.PathID, *body.Data)
	if err != nil {
		db.dataFail(w, err, "Learning path not found: "+body.PathID, "Failed to update learning path")
		return
	}
	success(w, "Learning path updated successfully", map[string]interface{}{"path": viewPath(lp)})
}

func (db *DBHandler) DeletePathData(w http.ResponseWriter, r *http.Request) {
	var body deletePathsRequest
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}

	switch {
	case body.DeleteAll && body.UserID != "":
		user, ok := db.dataUser(w, r, body.UserID, "Failed to delete learning path")
		if !ok {
			return
		}
		n, err := db.Store.DeleteAllPaths(r.Context(), user.ID)
		if err != nil {
			db.fail(w, err, "Failed to delete learning path")
			return
		}
		success(w, fmt.Sprintf("Deleted %d learning paths for user", n), map[string]interface{}{"deleted": n})
	case body.PathID != "":
		if err := db.Store.DeletePath(r.Context(), services.AnyUser, body.PathID); err != nil {
			db.dataFail(w, err, "Learning path not found: "+body.PathID, "Failed to delete learning path")
			return
		}
		success(w, "Learning path deleted successfully", map[string]interface{}{"deleted": body.PathID})
	default:
		utils.WriteError(w, http.StatusBadRequest, "Missing required field: pathId or (userId with deleteAll)", "")
	}
}

func (db *DBHandler) ListTypingPathData(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("userId")
	if subject == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing required parameter: userId", "")
		return
	}
	status, ok := statusParam(w, r)
	if !ok {
		return
	}
	user, ok := db.dataUser(w, r, subject, "Failed to fetch typing paths")
	if !ok {
		return
	}
	list, err := db.Store.ListTypingPaths(r.Context(), user.ID, status)
	if err != nil {
		db.fail(w, err, "Failed to fetch typing paths")
		return
	}
	if list == nil {
		list = []models.TypingPath{}
	}
	success(w, "", map[string]interface{}{
		"userId":     subject,
		"paths":      list,
		"totalPaths": len(list),
	})
}

func (db *DBHandler) CreateTypingPathData(w http.ResponseWriter, r *http.Request) {
	var body struct {
		services.TypingPathInput
		UserID string `json:"userId"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.UserID == "" || body.Name == "" || len(body.SnippetIDs) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: userId, name, snippetIds", "")
		return
	}
	user, ok := db.dataUser(w, r, body.UserID, "Failed to create typing path")
	if !ok {
		return
	}
	tp, err := db.Store.CreateTypingPath(r.Context(), user.ID, body.TypingPathInput)
	if err != nil {
		db.fail(w, err, "Failed to create typing path")
		return
	}
	success(w, fmt.Sprintf("Created typing path %q with %d stages", tp.Name, len(tp.Stages)), map[string]interface{}{
		"path": tp,
	})
}

func (db *DBHandler) UpdateTypingPathData(w http.ResponseWriter, r *http.Request) {
	var body updatePathRequest
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}
	if body.PathID == "" || body.Data == nil {
		utils.WriteError(w, http.StatusBadRequest, "Missing required fields: pathId, data", "")
		return
	}
	tp, err := db.Store.UpdateTypingPath(r.Context(), services.AnyUser, body.PathID, *body.Data)
	if err != nil {
		db.dataFail(w, err, "Typing path not found: "+body.PathID, "Failed to update typing path")
		return
	}
	success(w, "Typing path updated successfully", map[string]interface{}{"path": tp})
}

func (db *DBHandler) DeleteTypingPathData(w http.ResponseWriter, r *http.Request) {
	var body deletePathsRequest
	if err := decode(r, &body); err != nil {
		badRequest(w, err)
		return
	}

	switch {
	case body.DeleteAll && body.UserID != "":
		user, ok := db.dataUser(w, r, body.UserID, "Failed to delete typing path")
		if !ok {
			return
		}
		n, err := db.Store.DeleteAllTypingPaths(r.Context(), user.ID)
		if err != nil {
			db.fail(w, err, "Failed to delete typing path")
			return
		}
		success(w, fmt.Sprintf("Deleted %d typing paths for user", n), map[string]interface{}{"deleted": n})
	case body.PathID != "":
		if err := db.Store.DeleteTypingPath(r.Context(), services.AnyUser, body.PathID); err != nil {
			db.dataFail(w, err, "Typing path not found: "+body.PathID, "Failed to delete typing path")
			return
		}
		success(w, "Typing path deleted successfully", map[string]interface{}{"deleted": body.PathID})
	default:
		utils.WriteError(w, http.StatusBadRequest, "Missing required field: pathId or (userId with deleteAll)", "")
	}
}
