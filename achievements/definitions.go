package achievements

type Category string

const (
	CategoryStreak     Category = "streak"
	CategoryCards      Category = "cards"
	CategoryAccuracy   Category = "accuracy"
	CategoryCompletion Category = "completion"
	CategoryFirst      Category = "first"
	CategorySpeed      Category = "speed"
)

type Tier string

const (
	Bronze   Tier = "bronze"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

type CriterionType string

const (
	CriterionStreak         CriterionType = "streak"
	CriterionTotalCards     CriterionType = "total_cards"
	CriterionAccuracy       CriterionType = "accuracy"
	CriterionDecksCompleted CriterionType = "decks_completed"
	CriterionGoalsCompleted CriterionType = "goals_completed"
	CriterionPathsCompleted CriterionType = "paths_completed"
	CriterionDailyCards     CriterionType = "daily_cards"
	CriterionFirstAction    CriterionType = "first_action"
)

type Action string

const (
	ActionStudyCard  Action = "study_card"
	ActionCreateDeck Action = "create_deck"
	ActionCreateGoal Action = "create_goal"
	ActionCreatePath Action = "create_path"
)

type Criterion struct {
	Type   CriterionType `json:"type"`
	Value  int           `json:"value"`
	Action Action        `json:"action,omitempty"`
}

type Definition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Category    Category  `json:"category"`
	Tier        Tier      `json:"tier"`
	Criteria    Criterion `json:"criteria"`
}

// Definitions is the fixed achievement catalogue, in display order.
var Definitions = []Definition{
	{ID: "streak-3", Name: "Getting Started", Description: "Maintain a 3-day study streak", Icon: "🔥", Category: CategoryStreak, Tier: Bronze, Criteria: Criterion{Type: CriterionStreak, Value: 3}},
	{ID: "streak-7", Name: "Week Warrior", Description: "Maintain a 7-day study streak", Icon: "🔥", Category: CategoryStreak, Tier: Silver, Criteria: Criterion{Type: CriterionStreak, Value: 7}},
	{ID: "streak-30", Name: "Monthly Master", Description: "Maintain a 30-day study streak", Icon: "🔥", Category: CategoryStreak, Tier: Gold, Criteria: Criterion{Type: CriterionStreak, Value: 30}},
	{ID: "streak-100", Name: "Century Champion", Description: "Maintain a 100-day study streak", Icon: "🔥", Category: CategoryStreak, Tier: Platinum, Criteria: Criterion{Type: CriterionStreak, Value: 100}},

	{ID: "cards-100", Name: "Card Collector", Description: "Study 100 cards", Icon: "📚", Category: CategoryCards, Tier: Bronze, Criteria: Criterion{Type: CriterionTotalCards, Value: 100}},
	{ID: "cards-500", Name: "Card Enthusiast", Description: "Study 500 cards", Icon: "📚", Category: CategoryCards, Tier: Silver, Criteria: Criterion{Type: CriterionTotalCards, Value: 500}},
	{ID: "cards-1000", Name: "Card Master", Description: "Study 1,000 cards", Icon: "📚", Category: CategoryCards, Tier: Gold, Criteria: Criterion{Type: CriterionTotalCards, Value: 1000}},
	{ID: "cards-5000", Name: "Card Legend", Description: "Study 5,000 cards", Icon: "📚", Category: CategoryCards, Tier: Platinum, Criteria: Criterion{Type: CriterionTotalCards, Value: 5000}},

	{ID: "accuracy-70", Name: "Good Memory", Description: "Achieve 70% accuracy (100+ cards)", Icon: "🎯", Category: CategoryAccuracy, Tier: Bronze, Criteria: Criterion{Type: CriterionAccuracy, Value: 70}},
	{ID: "accuracy-80", Name: "Sharp Mind", Description: "Achieve 80% accuracy (100+ cards)", Icon: "🎯", Category: CategoryAccuracy, Tier: Silver, Criteria: Criterion{Type: CriterionAccuracy, Value: 80}},
	{ID: "accuracy-90", Name: "Excellent Recall", Description: "Achieve 90% accuracy (100+ cards)", Icon: "🎯", Category: CategoryAccuracy, Tier: Gold, Criteria: Criterion{Type: CriterionAccuracy, Value: 90}},
	{ID: "accuracy-95", Name: "Perfect Memory", Description: "Achieve 95% accuracy (100+ cards)", Icon: "🎯", Category: CategoryAccuracy, Tier: Platinum, Criteria: Criterion{Type: CriterionAccuracy, Value: 95}},

	{ID: "deck-1", Name: "First Deck Done", Description: "Complete studying 1 deck", Icon: "✅", Category: CategoryCompletion, Tier: Bronze, Criteria: Criterion{Type: CriterionDecksCompleted, Value: 1}},
	{ID: "deck-5", Name: "Deck Collector", Description: "Complete studying 5 decks", Icon: "✅", Category: CategoryCompletion, Tier: Silver, Criteria: Criterion{Type: CriterionDecksCompleted, Value: 5}},
	{ID: "goal-1", Name: "Goal Getter", Description: "Complete 1 goal", Icon: "🏆", Category: CategoryCompletion, Tier: Bronze, Criteria: Criterion{Type: CriterionGoalsCompleted, Value: 1}},
	{ID: "goal-5", Name: "Goal Crusher", Description: "Complete 5 goals", Icon: "🏆", Category: CategoryCompletion, Tier: Silver, Criteria: Criterion{Type: CriterionGoalsCompleted, Value: 5}},
	{ID: "path-1", Name: "Pathfinder", Description: "Complete 1 learning path", Icon: "🛤️", Category: CategoryCompletion, Tier: Gold, Criteria: Criterion{Type: CriterionPathsCompleted, Value: 1}},
	{ID: "path-3", Name: "Path Master", Description: "Complete 3 learning paths", Icon: "🛤️", Category: CategoryCompletion, Tier: Platinum, Criteria: Criterion{Type: CriterionPathsCompleted, Value: 3}},

	{ID: "first-card", Name: "First Step", Description: "Study your first card", Icon: "👶", Category: CategoryFirst, Tier: Bronze, Criteria: Criterion{Type: CriterionFirstAction, Value: 1, Action: ActionStudyCard}},
	{ID: "first-deck", Name: "Deck Creator", Description: "Create your first deck", Icon: "🎨", Category: CategoryFirst, Tier: Bronze, Criteria: Criterion{Type: CriterionFirstAction, Value: 1, Action: ActionCreateDeck}},
	{ID: "first-goal", Name: "Goal Setter", Description: "Set your first goal", Icon: "🎯", Category: CategoryFirst, Tier: Bronze, Criteria: Criterion{Type: CriterionFirstAction, Value: 1, Action: ActionCreateGoal}},
	{ID: "first-path", Name: "Path Planner", Description: "Create your first learning path", Icon: "🗺️", Category: CategoryFirst, Tier: Bronze, Criteria: Criterion{Type: CriterionFirstAction, Value: 1, Action: ActionCreatePath}},

	{ID: "speed-25", Name: "Quick Learner", Description: "Study 25 cards in one day", Icon: "⚡", Category: CategorySpeed, Tier: Bronze, Criteria: Criterion{Type: CriterionDailyCards, Value: 25}},
	{ID: "speed-50", Name: "Speed Demon", Description: "Study 50 cards in one day", Icon: "⚡", Category: CategorySpeed, Tier: Silver, Criteria: Criterion{Type: CriterionDailyCards, Value: 50}},
	{ID: "speed-100", Name: "Lightning Fast", Description: "Study 100 cards in one day", Icon: "⚡", Category: CategorySpeed, Tier: Gold, Criteria: Criterion{Type: CriterionDailyCards, Value: 100}},
}

func ByID(id string) (Definition, bool) {
	for _, d := range Definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

func ByCategory(c Category) []Definition {
	var out []Definition
	for _, d := range Definitions {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}
