package services

import (
	"context"
	"strings"

	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/paths"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

type SnippetInput struct {
	Title      string `json:"title"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
	Content    string `json:"content"`
	Source     string `json:"source"`
}

func (in *SnippetInput) normalize() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return missing("title", "content")
	}
	in.Language = orDefault(in.Language, "other")
	in.Difficulty = orDefault(in.Difficulty, "medium")
	if !difficulties[in.Difficulty] {
		return invalid("difficulty", "difficulty must be easy, medium or hard")
	}
	return nil
}

func (s *Store) CreateSnippet(ctx context.Context, userID uint, in SnippetInput) (*models.TypingSnippet, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate snippet id")
	}
	snippet := models.TypingSnippet{
		PublicID:   publicID,
		UserID:     userID,
		Title:      in.Title,
		Language:   in.Language,
		Difficulty: in.Difficulty,
		Content:    in.Content,
		Source:     in.Source,
	}
	if err := s.db(ctx).Create(&snippet).Error; err != nil {
		return nil, errors.Wrap(err, "create snippet")
	}
	return &snippet, nil
}

// ListSnippets returns the user's snippets, optionally for one language.
func (s *Store) ListSnippets(ctx context.Context, userID uint, language string) ([]models.TypingSnippet, error) {
	q := s.db(ctx).Where("user_id = ?", userID)
	if language != "" {
		q = q.Where("language = ?", language)
	}
	var out []models.TypingSnippet
	err := q.Order("created_at desc").Find(&out).Error
	return out, errors.Wrap(err, "list snippets")
}

func (s *Store) GetSnippet(ctx context.Context, userID uint, publicID string) (*models.TypingSnippet, error) {
	var snippet models.TypingSnippet
	if err := first(s.db(ctx).Where("public_id = ? AND user_id = ?", publicID, userID), &snippet, "snippet"); err != nil {
		return nil, err
	}
	return &snippet, nil
}

// UpdateSnippet replaces the snippet's text fields.
func (s *Store) UpdateSnippet(ctx context.Context, userID uint, publicID string, in SnippetInput) (*models.TypingSnippet, error) {
	snippet, err := s.GetSnippet(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	snippet.Title = in.Title
	snippet.Language = in.Language
	snippet.Difficulty = in.Difficulty
	snippet.Content = in.Content
	snippet.Source = in.Source
	if err := s.db(ctx).Save(snippet).Error; err != nil {
		return nil, errors.Wrap(err, "update snippet")
	}
	return snippet, nil
}

func (s *Store) DeleteSnippet(ctx context.Context, userID uint, publicID string) error {
	snippet, err := s.GetSnippet(ctx, userID, publicID)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db(ctx).Delete(snippet).Error, "delete snippet")
}

type TypingPathInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	SnippetIDs     []string `json:"snippetIds"`
	TargetWPM      int      `json:"targetWpm"`
	TargetAccuracy int      `json:"targetAccuracy"`
}

// CreateTypingPath lays out one stage per snippet in the given order. Unknown
// snippet ids are skipped; at least one must resolve.
func (s *Store) CreateTypingPath(ctx context.Context, userID uint, in TypingPathInput) (*models.TypingPath, error) {
	if strings.TrimSpace(in.Name) == "" || len(in.SnippetIDs) == 0 {
		return nil, missing("name", "snippetIds")
	}
	if in.TargetWPM < 0 || !validTarget(in.TargetAccuracy) {
		return nil, invalid("targetWpm", "targetWpm must be non-negative and targetAccuracy between 0 and 100")
	}

	var snippets []models.TypingSnippet
	if err := s.db(ctx).Where("user_id = ? AND public_id IN ?", userID, in.SnippetIDs).Find(&snippets).Error; err != nil {
		return nil, errors.Wrap(err, "load path snippets")
	}
	byPublicID := make(map[string]models.TypingSnippet, len(snippets))
	for _, sn := range snippets {
		byPublicID[sn.PublicID] = sn
	}

	var layout []paths.TypingStage
	var refs []models.TypingSnippet
	for _, id := range in.SnippetIDs {
		sn, ok := byPublicID[id]
		if !ok {
			continue
		}
		refs = append(refs, sn)
		layout = append(layout, paths.TypingStage{
			SnippetID:      sn.ID,
			Title:          sn.Title,
			TargetWPM:      in.TargetWPM,
			TargetAccuracy: in.TargetAccuracy,
		})
	}
	if len(layout) == 0 {
		return nil, invalid("snippetIds", "No valid snippets found for the provided snippetIds")
	}

	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate typing path id")
	}
	tp := models.TypingPath{
		PublicID:    publicID,
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Status:      paths.PathActive,
	}
	for i, st := range paths.NewTypingStages(layout) {
		tp.Stages = append(tp.Stages, models.TypingStage{
			Position:        i,
			SnippetID:       st.SnippetID,
			SnippetPublicID: refs[i].PublicID,
			Title:           st.Title,
			TargetWPM:       st.TargetWPM,
			TargetAccuracy:  st.TargetAccuracy,
			Status:          st.Status,
		})
	}
	if err := s.db(ctx).Create(&tp).Error; err != nil {
		return nil, errors.Wrap(err, "create typing path")
	}
	return &tp, nil
}

func withTypingStages(db *gorm.DB) *gorm.DB {
	return db.Preload("Stages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	})
}

func (s *Store) ListTypingPaths(ctx context.Context, userID uint, status paths.PathStatus) ([]models.TypingPath, error) {
	q := withTypingStages(s.db(ctx)).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.TypingPath
	err := q.Order("created_at desc").Find(&out).Error
	return out, errors.Wrap(err, "list typing paths")
}

func (s *Store) GetTypingPath(ctx context.Context, userID uint, publicID string) (*models.TypingPath, error) {
	q := withTypingStages(s.db(ctx)).Where("public_id = ?", publicID)
	if userID != AnyUser {
		q = q.Where("user_id = ?", userID)
	}
	var tp models.TypingPath
	if err := first(q, &tp, "typing path"); err != nil {
		return nil, err
	}
	return &tp, nil
}

func (s *Store) UpdateTypingPath(ctx context.Context, userID uint, publicID string, patch PathPatch) (*models.TypingPath, error) {
	tp, err := s.GetTypingPath(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(&tp.Name, &tp.Description, &tp.Status); err != nil {
		return nil, err
	}
	err = s.db(ctx).Model(tp).Omit(clause.Associations).Select("name", "description", "status").Updates(tp).Error
	if err != nil {
		return nil, errors.Wrap(err, "update typing path")
	}
	return tp, nil
}

func (s *Store) DeleteTypingPath(ctx context.Context, userID uint, publicID string) error {
	tp, err := s.GetTypingPath(ctx, userID, publicID)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db(ctx).Select(clause.Associations).Delete(tp).Error, "delete typing path")
}

func (s *Store) DeleteAllTypingPaths(ctx context.Context, userID uint) (int, error) {
	var ids []uint
	if err := s.db(ctx).Model(&models.TypingPath{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return 0, errors.Wrap(err, "list typing paths")
	}
	return s.inChunks(ctx, ids, func(tx *gorm.DB, chunk []uint) error {
		if err := tx.Where("path_id IN ?", chunk).Delete(&models.TypingStage{}).Error; err != nil {
			return errors.Wrap(err, "delete typing stages")
		}
		return errors.Wrap(tx.Unscoped().Where("id IN ?", chunk).Delete(&models.TypingPath{}).Error, "delete typing paths")
	})
}

type AttemptInput struct {
	WPM      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}

// RecordTypingAttempt folds one attempt into a stage and stores the stage and
// any stage it unlocked.
func (s *Store) RecordTypingAttempt(ctx context.Context, userID uint, publicID string, stage int, in AttemptInput) (*models.TypingPath, error) {
	tp, err := s.GetTypingPath(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	next, err := paths.RecordAttempt(tp.ToPath(), stage, in.WPM, in.Accuracy, s.now())
	if err != nil {
		var attemptErr *paths.AttemptError
		if errors.As(err, &attemptErr) {
			return nil, invalid("stage", "%v", attemptErr)
		}
		return nil, err
	}
	tp.Apply(next)

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(tp).Omit(clause.Associations).Select("current_stage_index", "status").Updates(tp).Error; err != nil {
			return errors.Wrap(err, "save typing path")
		}
		for i := range tp.Stages {
			if err := tx.Save(&tp.Stages[i]).Error; err != nil {
				return errors.Wrap(err, "save typing stage")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tp, nil
}
