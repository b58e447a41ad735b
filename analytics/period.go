package analytics

import (
	"fmt"
	"time"
)

type Period string

const (
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
	All   Period = "all"
)

func ParsePeriod(v string) (Period, error) {
	switch p := Period(v); p {
	case "":
		return Week, nil
	case Week, Month, Year, All:
		return p, nil
	default:
		return "", fmt.Errorf("period must be week, month, year or all")
	}
}

// Start is the first day the period covers, ending today. All starts at the
// day of the first session, or today when there is none.
func (p Period) Start(today time.Time, first *time.Time) time.Time {
	switch p {
	case Month:
		return today.AddDate(0, -1, 0)
	case Year:
		return today.AddDate(-1, 0, 0)
	case All:
		if first == nil {
			return today
		}
		f := first.In(today.Location())
		return time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, today.Location())
	default:
		return today.AddDate(0, 0, -7)
	}
}

type TimeStats struct {
	Period        string `json:"period"`
	CardsStudied  int    `json:"cardsStudied"`
	StudyTime     int    `json:"studyTime"`
	Accuracy      int    `json:"accuracy"`
	SessionsCount int    `json:"sessionsCount"`
}

// Daily buckets sessions by local day from start through today, filling in
// empty days. start and today must be midnights in the same location.
func Daily(sessions []Session, start, today time.Time) []TimeStats {
	loc := today.Location()
	buckets := map[string]*Totals{}
	for _, s := range sessions {
		key := s.CompletedAt.In(loc).Format(time.DateOnly)
		t, ok := buckets[key]
		if !ok {
			t = &Totals{}
			buckets[key] = t
		}
		t.Add(s)
	}

	var out []TimeStats
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		row := TimeStats{Period: key}
		if t, ok := buckets[key]; ok {
			row.CardsStudied = t.CardsStudied
			row.StudyTime = t.StudySeconds
			row.Accuracy = t.Accuracy()
			row.SessionsCount = t.Sessions
		}
		out = append(out, row)
	}
	return out
}
