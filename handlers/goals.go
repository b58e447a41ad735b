package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/goals"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
)

func (db *DBHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := db.Store.ListGoals(r.Context(), user.ID, goals.Status(r.URL.Query().Get("status")))
	if err != nil {
		db.fail(w, err, "Failed to list goals")
		return
	}
	if list == nil {
		list = []models.Goal{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (db *DBHandler) GetGoalByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	goal, err := db.Store.GetGoal(r.Context(), user.ID, r.PathValue("goalID"))
	if err != nil {
		db.fail(w, err, "Failed to load goal")
		return
	}
	utils.WriteJSON(w, http.StatusOK, goal)
}

func (db *DBHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.GoalInput
	if err := decode(r, &in); err != nil {
		badRequest(w, err)
		return
	}
	goal, err := db.Store.CreateGoal(r.Context(), user.ID, in)
	if err != nil {
		db.fail(w, err, "Failed to create goal")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, goal)
}

func (db *DBHandler) UpdateGoalByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var patch services.GoalPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w, err)
		return
	}
	goal, err := db.Store.UpdateGoal(r.Context(), user.ID, r.PathValue("goalID"), patch)
	if err != nil {
		db.fail(w, err, "Failed to update goal")
		return
	}
	utils.WriteJSON(w, http.StatusOK, goal)
}

func (db *DBHandler) DeleteGoalByID(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := db.Store.DeleteGoal(r.Context(), user.ID, r.PathValue("goalID")); err != nil {
		db.fail(w, err, "Failed to delete goal")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

// SyncGoal recomputes one goal's progress from the study history.
func (db *DBHandler) SyncGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	goal, err := db.Store.SyncGoal(r.Context(), user.ID, r.PathValue("goalID"))
	if err != nil {
		db.fail(w, err, "Failed to sync goal")
		return
	}
	utils.WriteJSON(w, http.StatusOK, goal)
}

func (db *DBHandler) SyncGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := db.Store.SyncGoals(r.Context(), user.ID)
	if err != nil {
		db.fail(w, err, "Failed to sync goals")
		return
	}
	if list == nil {
		list = []models.Goal{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}
