package handlers

import (
	"net/http"

	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/middleware"
	"github.com/rs/cors"
)

// NewRouter mounts the user API behind JWT auth, the admin API behind the
// admin role and the data API behind the import key.
func NewRouter(db *DBHandler, env config.Environment) (http.Handler, error) {
	authMiddleware, err := middleware.EnsureValidToken(env)
	if err != nil {
		return nil, err
	}
	syncUser := middleware.SyncUserMiddleware(db.Store)
	user := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware(syncUser(fn))
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware(syncUser(middleware.RequireAdmin(fn)))
	}

	requireKey := middleware.RequireAPIKey(env.ImportAPIKey)
	limiter := middleware.NewRateLimiter(env.DataRateLimit, int(env.DataRateLimit)*2)
	data := func(fn http.HandlerFunc) http.Handler {
		return requireKey(limiter.Handler(fn))
	}

	mux := http.NewServeMux()

	// User
	mux.Handle("GET /api/me", user(db.GetMe))
	mux.Handle("PUT /api/me/notifications", user(db.UpdateNotifications))

	// Deck
	mux.Handle("GET /api/decks", user(db.GetDecks))
	mux.Handle("POST /api/decks", user(db.CreateDeck))
	mux.Handle("GET /api/decks/{deckID}", user(db.GetDeckByID))
	mux.Handle("PUT /api/decks/{deckID}", user(db.UpdateDeckByID))
	mux.Handle("DELETE /api/decks/{deckID}", user(db.DeleteDeckByID))

	// Card
	mux.Handle("GET /api/decks/{deckID}/cards", user(db.GetCardsForDeck))
	mux.Handle("POST /api/decks/{deckID}/cards", user(db.CreateCards))
	mux.Handle("PUT /api/decks/{deckID}/cards/{cardID}", user(db.UpdateCardByID))
	mux.Handle("DELETE /api/decks/{deckID}/cards/{cardID}", user(db.DeleteCardByID))

	// Review
	mux.Handle("GET /api/review", user(db.GetReviewQueue))
	mux.Handle("POST /api/cards/{cardID}/review", user(db.ReviewCard))

	// Study sessions
	mux.Handle("POST /api/sessions", user(db.RecordSession))
	mux.Handle("GET /api/progress/daily", user(db.GetDailyProgress))
	mux.Handle("GET /api/progress/today", user(db.GetTodayProgress))

	// Goals
	mux.Handle("GET /api/goals", user(db.GetGoals))
	mux.Handle("POST /api/goals", user(db.CreateGoal))
	mux.Handle("POST /api/goals/sync", user(db.SyncGoals))
	mux.Handle("GET /api/goals/{goalID}", user(db.GetGoalByID))
	mux.Handle("PUT /api/goals/{goalID}", user(db.UpdateGoalByID))
	mux.Handle("DELETE /api/goals/{goalID}", user(db.DeleteGoalByID))
	mux.Handle("POST /api/goals/{goalID}/sync", user(db.SyncGoal))

	// Learning paths
	mux.Handle("GET /api/paths", user(db.GetPaths))
	mux.Handle("POST /api/paths", user(db.CreatePath))
	mux.Handle("POST /api/paths/sync", user(db.SyncPaths))
	mux.Handle("GET /api/paths/{pathID}", user(db.GetPathByID))
	mux.Handle("PUT /api/paths/{pathID}", user(db.UpdatePathByID))
	mux.Handle("DELETE /api/paths/{pathID}", user(db.DeletePathByID))
	mux.Handle("POST /api/paths/{pathID}/sync", user(db.SyncPath))

	// Typing
	mux.Handle("GET /api/typing/snippets", user(db.GetSnippets))
	mux.Handle("POST /api/typing/snippets", user(db.CreateSnippet))
	mux.Handle("GET /api/typing/snippets/{snippetID}", user(db.GetSnippetByID))
	mux.Handle("PUT /api/typing/snippets/{snippetID}", user(db.UpdateSnippetByID))
	mux.Handle("DELETE /api/typing/snippets/{snippetID}", user(db.DeleteSnippetByID))
	mux.Handle("GET /api/typing/paths", user(db.GetTypingPaths))
	mux.Handle("POST /api/typing/paths", user(db.CreateTypingPath))
	mux.Handle("GET /api/typing/paths/{pathID}", user(db.GetTypingPathByID))
	mux.Handle("PUT /api/typing/paths/{pathID}", user(db.UpdateTypingPathByID))
	mux.Handle("DELETE /api/typing/paths/{pathID}", user(db.DeleteTypingPathByID))
	mux.Handle("POST /api/typing/paths/{pathID}/stages/{stage}/attempts", user(db.RecordTypingAttempt))

	mux.Handle("POST /api/typing/results", user(db.SaveTypingResult))
	mux.Handle("GET /api/typing/results", user(db.GetTypingResults))
	mux.Handle("GET /api/typing/results/summary", user(db.GetTypingSummary))
	mux.Handle("GET /api/typing/results/languages/{language}", user(db.GetLanguageResults))

	// Analytics
	mux.Handle("GET /api/analytics", user(db.GetAnalytics))
	mux.Handle("GET /api/analytics/overall", user(db.GetOverallStats))
	mux.Handle("GET /api/analytics/time", user(db.GetTimeStats))
	mux.Handle("GET /api/analytics/decks", user(db.GetDeckStats))
	mux.Handle("GET /api/analytics/patterns", user(db.GetStudyPatterns))
	mux.Handle("GET /api/analytics/insights", user(db.GetLearningInsights))

	// Achievements
	mux.Handle("GET /api/achievements", user(db.GetAchievements))
	mux.Handle("POST /api/achievements/check", user(db.CheckAchievements))
	mux.Handle("GET /api/achievements/unnotified", user(db.GetUnnotifiedAchievements))
	mux.Handle("GET /api/achievements/summary", user(db.GetAchievementSummary))
	mux.Handle("POST /api/achievements/{achievementID}/notified", user(db.MarkAchievementNotified))

	// Games
	mux.Handle("GET /api/decks/{deckID}/games/{game}/leaderboard", user(db.GetLeaderboard))
	mux.Handle("POST /api/decks/{deckID}/games/{game}/scores", user(db.CreateScore))

	// Admin
	mux.Handle("GET /api/admin/users", admin(db.AdminListUsers))
	mux.Handle("GET /api/admin/users/{userID}", admin(db.AdminGetUser))
	mux.Handle("PUT /api/admin/users/{userID}/role", admin(db.AdminSetUserRole))
	mux.Handle("PUT /api/admin/users/{userID}/ban", admin(db.AdminSetUserBanned))
	mux.Handle("GET /api/admin/decks", admin(db.AdminListDecks))
	mux.Handle("PUT /api/admin/decks/{deckID}/status", admin(db.AdminSetDeckStatus))
	mux.Handle("GET /api/admin/stats", admin(db.AdminGetStats))

	// Data API
	mux.Handle("GET /api/data/flashcard", data(db.ListImportFiles))
	mux.Handle("POST /api/data/flashcard", data(db.ImportFlashcards))
	mux.Handle("PUT /api/data/flashcard", data(db.UpdateFlashcardData))
	mux.Handle("DELETE /api/data/flashcard", data(db.DeleteFlashcardData))
	mux.Handle("GET /api/data/flashcard/export", data(db.ExportFlashcards))
	mux.Handle("GET /api/data/learning-paths", data(db.ListPathData))
	mux.Handle("POST /api/data/learning-paths", data(db.CreatePathData))
	mux.Handle("PUT /api/data/learning-paths", data(db.UpdatePathData))
	mux.Handle("DELETE /api/data/learning-paths", data(db.DeletePathData))
	mux.Handle("GET /api/data/typing-paths", data(db.ListTypingPathData))
	mux.Handle("POST /api/data/typing-paths", data(db.CreateTypingPathData))
	mux.Handle("PUT /api/data/typing-paths", data(db.UpdateTypingPathData))
	mux.Handle("DELETE /api/data/typing-paths", data(db.DeleteTypingPathData))

	// Configure CORS with specific options
	return cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", middleware.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(db.Log)(mux)), nil
}
