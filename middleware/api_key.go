package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/utils"
)

const APIKeyHeader = "X-API-Key"

// RequireAPIKey admits requests whose X-API-Key matches key. An empty key
// admits nothing.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
