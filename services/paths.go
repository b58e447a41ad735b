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

// AnyUser in place of a user id lifts the ownership check. Only the data API
// passes it.
const AnyUser uint = 0

type PathInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	DeckIDs        []string `json:"deckIds"`
	TargetAccuracy int      `json:"targetAccuracy"`
}

type PathPatch struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Status      *paths.PathStatus `json:"status,omitempty"`
}

// apply changes metadata and the active/paused toggle. Completion is derived
// from the stages and cannot be set or undone by hand.
func (p PathPatch) apply(name, description *string, status *paths.PathStatus) error {
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return missing("name")
		}
		*name = *p.Name
	}
	if p.Description != nil {
		*description = *p.Description
	}
	if p.Status != nil && *p.Status != *status {
		if *p.Status != paths.PathActive && *p.Status != paths.PathPaused {
			return invalid("status", "status must be active or paused")
		}
		if *status == paths.PathCompleted {
			return invalid("status", "a completed path cannot change status")
		}
		*status = *p.Status
	}
	return nil
}

func validTarget(v int) bool {
	return v >= 0 && v <= 100
}

// CreatePath builds a path over the user's decks in the given order. Unknown
// deck ids are skipped; at least one must resolve.
func (s *Store) CreatePath(ctx context.Context, userID uint, in PathInput) (*models.LearningPath, error) {
	if strings.TrimSpace(in.Name) == "" || len(in.DeckIDs) == 0 {
		return nil, missing("name", "deckIds")
	}
	if !validTarget(in.TargetAccuracy) {
		return nil, invalid("targetAccuracy", "targetAccuracy must be between 0 and 100")
	}

	var decks []models.Deck
	if err := s.db(ctx).Where("user_id = ? AND public_id IN ?", userID, in.DeckIDs).Find(&decks).Error; err != nil {
		return nil, errors.Wrap(err, "load path decks")
	}
	byPublicID := make(map[string]models.Deck, len(decks))
	for _, d := range decks {
		byPublicID[d.PublicID] = d
	}

	var layout []paths.Stage
	var refs []models.Deck
	for _, id := range in.DeckIDs {
		d, ok := byPublicID[id]
		if !ok {
			continue
		}
		refs = append(refs, d)
		layout = append(layout, paths.Stage{
			DeckID:         d.ID,
			DeckName:       d.Name,
			TargetAccuracy: in.TargetAccuracy,
			Progress:       paths.StageProgress{TotalCards: d.CardCount},
		})
	}
	if len(layout) == 0 {
		return nil, invalid("deckIds", "No valid decks found for the provided deckIds")
	}

	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate path id")
	}
	lp := models.LearningPath{
		PublicID:    publicID,
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Status:      paths.PathActive,
	}
	for i, st := range paths.NewStages(layout) {
		lp.Stages = append(lp.Stages, models.PathStage{
			Position:       i,
			DeckID:         st.DeckID,
			DeckPublicID:   refs[i].PublicID,
			DeckName:       st.DeckName,
			TargetAccuracy: st.TargetAccuracy,
			TotalCards:     st.Progress.TotalCards,
			Status:         st.Status,
		})
	}
	if err := s.db(ctx).Create(&lp).Error; err != nil {
		return nil, errors.Wrap(err, "create learning path")
	}
	return &lp, nil
}

func withPathStages(db *gorm.DB) *gorm.DB {
	return db.Preload("Stages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	})
}

func (s *Store) ListPaths(ctx context.Context, userID uint, status paths.PathStatus) ([]models.LearningPath, error) {
	q := withPathStages(s.db(ctx)).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.LearningPath
	err := q.Order("created_at desc").Find(&out).Error
	return out, errors.Wrap(err, "list learning paths")
}

func (s *Store) GetPath(ctx context.Context, userID uint, publicID string) (*models.LearningPath, error) {
	q := withPathStages(s.db(ctx)).Where("public_id = ?", publicID)
	if userID != AnyUser {
		q = q.Where("user_id = ?", userID)
	}
	var lp models.LearningPath
	if err := first(q, &lp, "learning path"); err != nil {
		return nil, err
	}
	return &lp, nil
}

func (s *Store) UpdatePath(ctx context.Context, userID uint, publicID string, patch PathPatch) (*models.LearningPath, error) {
	lp, err := s.GetPath(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	if err := patch.apply(&lp.Name, &lp.Description, &lp.Status); err != nil {
		return nil, err
	}
	err = s.db(ctx).Model(lp).Omit(clause.Associations).Select("name", "description", "status").Updates(lp).Error
	if err != nil {
		return nil, errors.Wrap(err, "update learning path")
	}
	return lp, nil
}

func (s *Store) DeletePath(ctx context.Context, userID uint, publicID string) error {
	lp, err := s.GetPath(ctx, userID, publicID)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db(ctx).Select(clause.Associations).Delete(lp).Error, "delete learning path")
}

// DeleteAllPaths wipes the user's learning paths and their stages.
func (s *Store) DeleteAllPaths(ctx context.Context, userID uint) (int, error) {
	var ids []uint
	if err := s.db(ctx).Model(&models.LearningPath{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return 0, errors.Wrap(err, "list learning paths")
	}
	return s.inChunks(ctx, ids, func(tx *gorm.DB, chunk []uint) error {
		if err := tx.Where("path_id IN ?", chunk).Delete(&models.PathStage{}).Error; err != nil {
			return errors.Wrap(err, "delete path stages")
		}
		return errors.Wrap(tx.Unscoped().Where("id IN ?", chunk).Delete(&models.LearningPath{}).Error, "delete learning paths")
	})
}

// deckTotals sums the user's sessions per deck and pairs each with the
// deck's current card count. Deleted decks are flagged missing.
func (s *Store) deckTotals(ctx context.Context, userID uint, deckIDs []uint) (map[uint]paths.DeckTotals, error) {
	var sums []struct {
		DeckID         uint
		CardsStudied   int
		CorrectCount   int
		IncorrectCount int
	}
	err := s.db(ctx).Model(&models.StudySession{}).
		Select("deck_id, SUM(cards_studied) AS cards_studied, SUM(correct_count) AS correct_count, SUM(incorrect_count) AS incorrect_count").
		Where("user_id = ? AND deck_id IN ?", userID, deckIDs).
		Group("deck_id").
		Scan(&sums).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum deck sessions")
	}

	var decks []models.Deck
	if err := s.db(ctx).Select("id", "card_count").Where("id IN ?", deckIDs).Find(&decks).Error; err != nil {
		return nil, errors.Wrap(err, "load deck sizes")
	}

	totals := make(map[uint]paths.DeckTotals, len(deckIDs))
	for _, id := range deckIDs {
		totals[id] = paths.DeckTotals{DeckMissing: true}
	}
	for _, d := range decks {
		totals[d.ID] = paths.DeckTotals{TotalCards: d.CardCount}
	}
	for _, sum := range sums {
		t := totals[sum.DeckID]
		t.CardsStudied = sum.CardsStudied
		t.CorrectCount = sum.CorrectCount
		t.IncorrectCount = sum.IncorrectCount
		totals[sum.DeckID] = t
	}
	return totals, nil
}

// SyncPath recomputes stage progress from study history and stores the
// result.
func (s *Store) SyncPath(ctx context.Context, userID uint, publicID string) (*models.LearningPath, error) {
	lp, err := s.GetPath(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	deckIDs := make([]uint, len(lp.Stages))
	for i, st := range lp.Stages {
		deckIDs[i] = st.DeckID
	}
	totals, err := s.deckTotals(ctx, lp.UserID, deckIDs)
	if err != nil {
		return nil, err
	}

	lp.Apply(paths.Sync(lp.ToPath(), totals, s.now()))

	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(lp).Omit(clause.Associations).Select("current_stage_index", "status").Updates(lp).Error; err != nil {
			return errors.Wrap(err, "save learning path")
		}
		for i := range lp.Stages {
			if err := tx.Save(&lp.Stages[i]).Error; err != nil {
				return errors.Wrap(err, "save path stage")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lp, nil
}

// SyncPaths re-syncs every path the user has.
func (s *Store) SyncPaths(ctx context.Context, userID uint) ([]models.LearningPath, error) {
	all, err := s.ListPaths(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	for i := range all {
		synced, err := s.SyncPath(ctx, userID, all[i].PublicID)
		if err != nil {
			return nil, err
		}
		all[i] = *synced
	}
	return all, nil
}
