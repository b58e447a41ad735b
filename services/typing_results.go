package services

import (
	"context"
	"strings"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
)

var typingKinds = map[string]bool{"code": true, "deck": true}

const (
	// DefaultTypingHistory and MaxTypingHistory bound the result history.
	DefaultTypingHistory = 50
	MaxTypingHistory     = 200
	// TypingAverageWindow is how many recent results the averages cover.
	TypingAverageWindow = 100
	// LanguageHistory is how many results the per-language view returns.
	LanguageHistory = 20
)

type TypingResultInput struct {
	Type           string `json:"type"`
	SourceID       string `json:"sourceId"`
	SourceName     string `json:"sourceName"`
	SnippetTitle   string `json:"snippetTitle"`
	WPM            int    `json:"wpm"`
	Accuracy       int    `json:"accuracy"`
	CorrectChars   int    `json:"correctChars"`
	IncorrectChars int    `json:"incorrectChars"`
	TotalChars     int    `json:"totalChars"`
	ElapsedTime    int    `json:"elapsedTime"`
}

func (in *TypingResultInput) validate() error {
	if in.Type == "" || strings.TrimSpace(in.SourceID) == "" {
		return missing("type", "sourceId")
	}
	if !typingKinds[in.Type] {
		return invalid("type", `Invalid type. Must be "code" or "deck"`)
	}
	if in.WPM < 0 || in.CorrectChars < 0 || in.IncorrectChars < 0 || in.TotalChars < 0 || in.ElapsedTime < 0 {
		return invalid("wpm", "typing figures must be non-negative")
	}
	if !validTarget(in.Accuracy) {
		return invalid("accuracy", "accuracy must be between 0 and 100")
	}
	return nil
}

// SaveTypingResult records one finished typing test.
func (s *Store) SaveTypingResult(ctx context.Context, userID uint, in TypingResultInput) (*models.TypingResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate typing result id")
	}
	result := models.TypingResult{
		PublicID:       publicID,
		UserID:         userID,
		Kind:           in.Type,
		SourceID:       in.SourceID,
		SourceName:     in.SourceName,
		SnippetTitle:   in.SnippetTitle,
		WPM:            in.WPM,
		Accuracy:       in.Accuracy,
		CorrectChars:   in.CorrectChars,
		IncorrectChars: in.IncorrectChars,
		TotalChars:     in.TotalChars,
		ElapsedSeconds: in.ElapsedTime,
	}
	result.CreatedAt = s.now()
	if err := s.db(ctx).Create(&result).Error; err != nil {
		return nil, errors.Wrap(err, "save typing result")
	}
	return &result, nil
}

// TypingResults returns the user's most recent results, newest first.
func (s *Store) TypingResults(ctx context.Context, userID uint, limit int) ([]models.TypingResult, error) {
	if limit <= 0 {
		limit = DefaultTypingHistory
	}
	if limit > MaxTypingHistory {
		limit = MaxTypingHistory
	}
	var out []models.TypingResult
	err := s.db(ctx).Where("user_id = ?", userID).Order("created_at desc, id desc").Limit(limit).Find(&out).Error
	return out, errors.Wrap(err, "list typing results")
}

// LanguageResults returns the latest code results for one language.
func (s *Store) LanguageResults(ctx context.Context, userID uint, language string) ([]models.TypingResult, error) {
	var out []models.TypingResult
	err := s.db(ctx).
		Where("user_id = ? AND kind = ? AND source_id = ?", userID, "code", language).
		Order("created_at desc, id desc").
		Limit(LanguageHistory).
		Find(&out).Error
	return out, errors.Wrap(err, "list language results")
}

type TypingSummary struct {
	BestWPM       int `json:"bestWpm"`
	AvgWPM        int `json:"avgWpm"`
	AvgAccuracy   int `json:"avgAccuracy"`
	TotalSessions int `json:"totalSessions"`
}

// TypingSummary reports the all-time best speed and averages over the last
// TypingAverageWindow results.
func (s *Store) TypingSummary(ctx context.Context, userID uint) (TypingSummary, error) {
	var out TypingSummary
	err := s.db(ctx).Model(&models.TypingResult{}).
		Select("COALESCE(MAX(wpm), 0)").
		Where("user_id = ?", userID).
		Scan(&out.BestWPM).Error
	if err != nil {
		return out, errors.Wrap(err, "load best wpm")
	}

	recent, err := s.TypingResults(ctx, userID, TypingAverageWindow)
	if err != nil {
		return out, err
	}
	if len(recent) == 0 {
		return out, nil
	}
	var wpm, accuracy int
	for _, r := range recent {
		wpm += r.WPM
		accuracy += r.Accuracy
	}
	out.TotalSessions = len(recent)
	out.AvgWPM = roundDiv(wpm, len(recent))
	out.AvgAccuracy = roundDiv(accuracy, len(recent))
	return out, nil
}

func roundDiv(sum, n int) int {
	return (2*sum + n) / (2 * n)
}
