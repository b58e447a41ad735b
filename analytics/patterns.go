package analytics

import (
	"math"
	"time"
)

// StudyPattern counts cards studied by local hour and weekday (Sunday is 0).
type StudyPattern struct {
	HourOfDay [24]int `json:"hourOfDay"`
	DayOfWeek [7]int  `json:"dayOfWeek"`
	BestHour  int     `json:"bestHour"`
	BestDay   int     `json:"bestDay"`
}

func Patterns(sessions []Session, loc *time.Location) StudyPattern {
	var p StudyPattern
	for _, s := range sessions {
		at := s.CompletedAt.In(loc)
		p.HourOfDay[at.Hour()] += s.CardsStudied
		p.DayOfWeek[at.Weekday()] += s.CardsStudied
	}
	p.BestHour = busiest(p.HourOfDay[:])
	p.BestDay = busiest(p.DayOfWeek[:])
	return p
}

// busiest returns the first index holding the largest positive count.
func busiest(counts []int) int {
	best, top := 0, 0
	for i, n := range counts {
		if n > top {
			best, top = i, n
		}
	}
	return best
}

type Trend string

const (
	Improving Trend = "improving"
	Stable    Trend = "stable"
	Declining Trend = "declining"
)

// TrendThreshold is the accuracy swing, in points, between the older and
// newer half of the window that counts as a trend.
const TrendThreshold = 5

type Insights struct {
	LearningVelocity     int   `json:"learningVelocity"`
	RetentionRate        int   `json:"retentionRate"`
	ImprovementTrend     Trend `json:"improvementTrend"`
	StreakConsistency    int   `json:"streakConsistency"`
	AverageSessionLength int   `json:"averageSessionLength"`
	DifficultCardsCount  int   `json:"difficultCardsCount"`
}

// LearningInsights summarises the last InsightWindow days. sessions must be
// oldest first and already limited to the window.
func LearningInsights(sessions []Session, cards []Card, loc *time.Location) Insights {
	out := Insights{ImprovementTrend: Stable}
	if len(sessions) == 0 {
		return out
	}

	half := len(sessions) / 2
	older := Sum(sessions[:half])
	newer := Sum(sessions[half:])
	total := Sum(sessions)

	days := map[string]bool{}
	for _, s := range sessions {
		days[s.CompletedAt.In(loc).Format(time.DateOnly)] = true
	}

	out.LearningVelocity = int(math.Round(float64(total.CardsStudied) / InsightWindow))
	out.RetentionRate = total.Accuracy()
	out.StreakConsistency = Percent(len(days), InsightWindow)
	out.AverageSessionLength = int(math.Round(float64(total.StudySeconds) / float64(total.Sessions)))

	delta := ratio(newer) - ratio(older)
	switch {
	case delta >= TrendThreshold:
		out.ImprovementTrend = Improving
	case -delta >= TrendThreshold:
		out.ImprovementTrend = Declining
	}

	for _, c := range cards {
		if c.Repetitions > 0 && c.EaseFactor > 0 && c.EaseFactor < DifficultEaseFactor {
			out.DifficultCardsCount++
		}
	}
	return out
}

func ratio(t Totals) float64 {
	if t.CardsStudied == 0 {
		return 0
	}
	return float64(t.CorrectCount) / float64(t.CardsStudied) * 100
}
