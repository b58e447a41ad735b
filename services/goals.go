package services

import (
	"context"

	"github.com/andrewpaige1/lingodeck-api/goals"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/andrewpaige1/lingodeck-api/utils"
	"github.com/pkg/errors"
)

type GoalInput struct {
	Type    goals.Type    `json:"type"`
	Period  string        `json:"period"`
	Targets goals.Targets `json:"targets"`
}

type GoalPatch struct {
	Targets *goals.Targets `json:"targets,omitempty"`
}

func validateTargets(t goals.Targets) error {
	if t.CardsToStudy <= 0 {
		return invalid("targets.cardsToStudy", "targets.cardsToStudy must be positive")
	}
	if t.Accuracy < 0 || t.Accuracy > 100 {
		return invalid("targets.accuracy", "targets.accuracy must be between 0 and 100")
	}
	if t.StreakDays < 0 {
		return invalid("targets.streakDays", "targets.streakDays must be non-negative")
	}
	return nil
}

// CreateGoal stores a goal for the given period, the current one when empty,
// and evaluates it straight away.
func (s *Store) CreateGoal(ctx context.Context, userID uint, in GoalInput) (*models.Goal, error) {
	if in.Type == "" {
		return nil, missing("type")
	}
	if !in.Type.Valid() {
		return nil, invalid("type", "type must be weekly or monthly")
	}
	if in.Period == "" {
		in.Period = goals.CurrentPeriod(in.Type, s.now())
	}
	if err := goals.ValidatePeriod(in.Type, in.Period); err != nil {
		return nil, invalid("period", "%v", err)
	}
	if err := validateTargets(in.Targets); err != nil {
		return nil, err
	}

	publicID, err := utils.NewPublicID()
	if err != nil {
		return nil, errors.Wrap(err, "generate goal id")
	}
	goal := models.Goal{
		PublicID: publicID,
		UserID:   userID,
		Type:     in.Type,
		Period:   in.Period,
		Targets:  in.Targets,
		Status:   goals.StatusActive,
	}
	if err := s.evaluateGoal(ctx, &goal); err != nil {
		return nil, err
	}
	if err := s.db(ctx).Create(&goal).Error; err != nil {
		return nil, errors.Wrap(err, "create goal")
	}
	return &goal, nil
}

// ListGoals returns the user's goals, newest first. status filters when set.
func (s *Store) ListGoals(ctx context.Context, userID uint, status goals.Status) ([]models.Goal, error) {
	q := s.db(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Goal
	err := q.Order("created_at desc").Find(&out).Error
	return out, errors.Wrap(err, "list goals")
}

func (s *Store) GetGoal(ctx context.Context, userID uint, publicID string) (*models.Goal, error) {
	var goal models.Goal
	if err := first(s.db(ctx).Where("public_id = ? AND user_id = ?", publicID, userID), &goal, "goal"); err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal changes targets and re-evaluates, since status depends on them.
func (s *Store) UpdateGoal(ctx context.Context, userID uint, publicID string, patch GoalPatch) (*models.Goal, error) {
	goal, err := s.GetGoal(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	if patch.Targets != nil {
		if err := validateTargets(*patch.Targets); err != nil {
			return nil, err
		}
		goal.Targets = *patch.Targets
	}
	if err := s.evaluateGoal(ctx, goal); err != nil {
		return nil, err
	}
	if err := s.db(ctx).Save(goal).Error; err != nil {
		return nil, errors.Wrap(err, "update goal")
	}
	return goal, nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID uint, publicID string) error {
	goal, err := s.GetGoal(ctx, userID, publicID)
	if err != nil {
		return err
	}
	return errors.Wrap(s.db(ctx).Delete(goal).Error, "delete goal")
}

// SyncGoal recomputes progress and status from the full session history.
func (s *Store) SyncGoal(ctx context.Context, userID uint, publicID string) (*models.Goal, error) {
	goal, err := s.GetGoal(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	if err := s.evaluateGoal(ctx, goal); err != nil {
		return nil, err
	}
	err = s.db(ctx).Model(goal).Select("progress_cards_studied", "progress_accuracy", "progress_current_streak",
		"progress_days_with_study", "status", "last_synced_at").Updates(goal).Error
	if err != nil {
		return nil, errors.Wrap(err, "save goal progress")
	}
	return goal, nil
}

// SyncGoals re-evaluates every goal the user has.
func (s *Store) SyncGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	all, err := s.ListGoals(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	for i := range all {
		synced, err := s.SyncGoal(ctx, userID, all[i].PublicID)
		if err != nil {
			return nil, err
		}
		all[i] = *synced
	}
	return all, nil
}

func (s *Store) evaluateGoal(ctx context.Context, goal *models.Goal) error {
	start, _, err := goals.PeriodRange(goal.Type, goal.Period, s.Location)
	if err != nil {
		return invalid("period", "%v", err)
	}
	history, err := s.sessions(ctx, goal.UserID, &start)
	if err != nil {
		return err
	}

	now := s.now()
	res, err := goals.NewEvaluator(s.Location).Evaluate(goal.Definition(), goalSessions(history), now)
	if err != nil {
		return invalid("period", "%v", err)
	}
	goal.Progress = res.Progress
	goal.Status = res.Status
	goal.LastSyncedAt = &now
	return nil
}
