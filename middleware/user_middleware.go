package middleware

import (
	"context"
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/andrewpaige1/lingodeck-api/utils"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

type contextKey string

const userKey contextKey = "user"

// SyncUserMiddleware ensures the token subject exists in the DB and attaches
// the user to the request context.
func SyncUserMiddleware(store *services.Store) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth0ID, ok := utils.GetAuth0ID(r)
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "No subject found in token", "")
				return
			}

			nickname := ""
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if customClaims, ok := claims.CustomClaims.(*CustomClaims); ok && customClaims != nil {
				nickname = customClaims.Nickname
			}

			user, err := store.SyncUser(r.Context(), auth0ID, nickname)
			if err != nil {
				store.Log.Error("sync user", "error", err)
				utils.WriteError(w, http.StatusInternalServerError, "Failed to sync user", err.Error())
				return
			}

			if user.IsBanned {
				utils.WriteError(w, http.StatusForbidden, "Account suspended", "")
				return
			}

			// Add user to context for downstream handlers
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		}
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user SyncUserMiddleware attached.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// RequireAdmin lets through only users with the admin role. It must run after
// SyncUserMiddleware.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		if !user.IsAdmin() {
			utils.WriteError(w, http.StatusForbidden, "Admin access required", "")
			return
		}
		next.ServeHTTP(w, r)
	}
}
