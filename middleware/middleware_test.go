package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrewpaige1/lingodeck-api/auth"
	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/logger"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnv = config.Environment{
	JWTSecretKey: "test-secret",
	JWTIssuer:    "lingodeck",
	JWTAudience:  "lingodeck-api",
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func token(t *testing.T, env config.Environment, sub, nickname string) string {
	t.Helper()
	tok, err := auth.CreateToken(auth.Options{
		SecretKey: env.JWTSecretKey,
		Issuer:    env.JWTIssuer,
		Audience:  env.JWTAudience,
	}, sub, nickname, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestEnsureValidToken(t *testing.T) {
	db, err := config.OpenTestDB()
	require.NoError(t, err)
	store := services.New(db, time.UTC, nil)

	mw, err := EnsureValidToken(testEnv)
	require.NoError(t, err)

	var seen string
	h := mw(SyncUserMiddleware(store)(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = user.Nickname
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, testEnv, "auth0|mw", "mina"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mina", seen)

	stored, err := store.UserBySubject(req.Context(), "auth0|mw")
	require.NoError(t, err)
	assert.Equal(t, "mina", stored.Nickname)

	for name, header := range map[string]string{
		"missing":      "",
		"garbage":      "Bearer not-a-token",
		"wrong secret": "Bearer " + token(t, config.Environment{JWTSecretKey: "other", JWTIssuer: "lingodeck", JWTAudience: "lingodeck-api"}, "auth0|mw", ""),
		"wrong issuer": "Bearer " + token(t, config.Environment{JWTSecretKey: "test-secret", JWTIssuer: "evil", JWTAudience: "lingodeck-api"}, "auth0|mw", ""),
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestEnsureValidToken_NoSecret(t *testing.T) {
	_, err := EnsureValidToken(config.Environment{JWTIssuer: "x", JWTAudience: "y"})
	assert.Error(t, err)
}

func TestSyncUserMiddleware_NoClaims(t *testing.T) {
	db, err := config.OpenTestDB()
	require.NoError(t, err)
	h := SyncUserMiddleware(services.New(db, time.UTC, nil))(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSyncUserMiddleware_Banned(t *testing.T) {
	db, err := config.OpenTestDB()
	require.NoError(t, err)
	store := services.New(db, time.UTC, nil)
	mw, err := EnsureValidToken(testEnv)
	require.NoError(t, err)
	h := mw(SyncUserMiddleware(store)(ok))

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, testEnv, "auth0|banned", ""))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusOK, call())

	_, err = store.SetUserBanned(context.Background(), "auth0|banned", true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call())
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(ok)
	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"regular user", &models.User{Role: models.RoleUser}, http.StatusForbidden},
		{"admin", &models.User{Role: models.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	for _, tc := range []struct {
		name string
		key  string
		sent string
		want int
	}{
		{"match", "s3cret", "s3cret", http.StatusOK},
		{"mismatch", "s3cret", "guess", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"unset key rejects everything", "", "", http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/data/flashcard", nil)
			if tc.sent != "" {
				req.Header.Set(APIKeyHeader, tc.sent)
			}
			rec := httptest.NewRecorder()
			RequireAPIKey(tc.key)(http.HandlerFunc(ok)).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Handler(http.HandlerFunc(ok))

	serve := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(APIKeyHeader, key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, serve("a"))
	assert.Equal(t, http.StatusOK, serve("a"))
	assert.Equal(t, http.StatusTooManyRequests, serve("a"))
	assert.Equal(t, http.StatusOK, serve("b"))

	unlimited := NewRateLimiter(0, 0)
	for i := 0; i < 50; i++ {
		assert.True(t, unlimited.Allow("a"))
	}
}

func TestRequestLogger(t *testing.T) {
	h := RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
