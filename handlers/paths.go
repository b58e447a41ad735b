package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/paths"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

type pathResponse struct {
	*models.LearningPath
	OverallProgress int `json:"overallProgress"`
}

func viewPath(lp *models.LearningPath) pathResponse {
	return pathResponse{LearningPath: lp, OverallProgress: lp.OverallProgress()}
}

func viewPaths(list []models.LearningPath) []pathResponse {
	out := make([]pathResponse, len(list))
	for i := range list {
		out[i] = viewPath(&list[i])
	}
	return out
}

// statusParam reads the optional ?status= filter shared by both path kinds.
func statusParam(w http.ResponseWriter, r *http.Request) (paths.PathStatus, bool) {
	status := paths.PathStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		utils.WriteError(w, http.StatusBadRequest, "status must be active, completed or paused", "")
		return "", false
	}
	return status, true
}

func (db *DBHandler) GetPaths(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	status, ok := statusParam(w, r)
	if !ok {
		return
	}
	list, err := db.Store.ListPaths(r.Context(), user.ID, status)
	if err != nil {
		db.fail(w, err, "Failed to list learning paths")
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewPaths(list))
}

func (db *DBHandler) GetPathByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	lp, err := db.Store.GetPath(r.Context(), user.ID, r.PathValue("pathID"))
	if err != nil {
		db.fail(w, err, "Failed to load learning path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewPath(lp))
}

func (db *DBHandler) CreatePath(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.PathInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	lp, err := db.Store.CreatePath(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to create learning path")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, viewPath(lp))
}

func (db *DBHandler) UpdatePathByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var patch services.PathPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	lp, err := db.Store.UpdatePath(r.Context(), user.ID, r.PathValue("pathID"), patch)
	if err != nil {
		db.fail(w, err, "Failed to update learning path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewPath(lp))
}

func (db *DBHandler) DeletePathByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.DeletePath(r.Context(), user.ID, r.PathValue("pathID")); err != nil {
		db.fail(w, err, "Failed to delete learning path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

// SyncPath re-reads study history for the path's decks and unlocks stages.
func (db *DBHandler) SyncPath(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	lp, err := db.Store.SyncPath(r.Context(), user.ID, r.PathValue("pathID"))
	if err != nil {
		db.fail(w, err, "Failed to sync learning path")
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewPath(lp))
}

func (db *DBHandler) SyncPaths(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := db.Store.SyncPaths(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to sync learning paths")
		return
	}
	utils.WriteJSON(w, http.StatusOK, viewPaths(list))
}
