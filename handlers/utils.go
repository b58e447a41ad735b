package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/andrewpaige1/lingodeck-api/logger"
	"github.com/andrewpaige1/lingodeck-api/middleware"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/reminders"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
)

// DBHandler serves both APIs on top of the service layer.
type DBHandler struct {
	Store *services.Store
	// Reminders is optional; without it settings are stored but nothing is
	// scheduled.
	Reminders *reminders.Scheduler
	// Notifier, when set, is told about achievements unlocked while
	// recording a session.
	Notifier reminders.Notifier
	Log      *logger.Logger
	DataDir  string
}

func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	return err
}

// currentUser returns the user SyncUserMiddleware attached, writing a 401 when
// there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "")
	}
	return user, ok
}

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// fail maps a service error onto a status code. Anything unexpected is logged
// and reported as a 500 with action as the message.
func (db *DBHandler) fail(w http.ResponseWriter, err error, action string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteError(w, http.StatusBadRequest, verr.Error(), "")
	case errors.Is(err, services.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, services.ErrForbidden):
		utils.WriteError(w, http.StatusForbidden, err.Error(), "")
	default:
		db.Log.Error(action, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, action, err.Error())
	}
}

func badRequest(w http.ResponseWriter, err error) {
	utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
}
