package models

// All lists every table, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Deck{},
		&Card{},
		&StudySession{},
		&Goal{},
		&LearningPath{},
		&PathStage{},
		&TypingSnippet{},
		&TypingPath{},
		&TypingStage{},
		&TypingResult{},
		&UserAchievement{},
		&GameScore{},
	}
}
