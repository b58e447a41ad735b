package goals

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

func (t Type) Valid() bool {
	return t == Weekly || t == Monthly
}

// PeriodError reports a period string that does not match its goal type.
type PeriodError struct {
	Type   Type
	Period string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid %s period %q", e.Type, e.Period)
}

// CurrentPeriod returns the period containing now: "2026-W07" for weekly goals
// (ISO year and week) or "2026-02" for monthly ones.
func CurrentPeriod(t Type, now time.Time) string {
	if t == Monthly {
		return fmt.Sprintf("%d-%02d", now.Year(), int(now.Month()))
	}
	year, week := now.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PeriodRange returns the first and last instant of period in loc.
// Weeks run Monday 00:00 to Sunday 23:59:59.999.
func PeriodRange(t Type, period string, loc *time.Location) (start, end time.Time, err error) {
	if loc == nil {
		loc = time.Local
	}

	switch t {
	case Monthly:
		year, month, ok := parseMonth(period)
		if !ok {
			return start, end, &PeriodError{Type: t, Period: period}
		}
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
		return start, end, nil
	case Weekly:
		year, week, ok := parseWeek(period)
		if !ok {
			return start, end, &PeriodError{Type: t, Period: period}
		}
		start = isoWeekStart(year, week, loc)
		end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
		return start, end, nil
	}
	return start, end, &PeriodError{Type: t, Period: period}
}

// ValidatePeriod checks the period string without computing a range.
func ValidatePeriod(t Type, period string) error {
	_, _, err := PeriodRange(t, period, time.UTC)
	return err
}

func parseMonth(period string) (int, int, bool) {
	parts := strings.Split(period, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func parseWeek(period string) (int, int, bool) {
	yearStr, weekStr, found := strings.Cut(period, "-W")
	if !found || len(yearStr) != 4 || len(weekStr) == 0 || len(weekStr) > 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, false
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil || week < 1 || week > isoWeeksInYear(year) {
		return 0, 0, false
	}
	return year, week, true
}

// isoWeekStart returns Monday of the given ISO week. January 4th always
// falls in week 1.
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1 := jan4.AddDate(0, 0, -offset)
	return week1.AddDate(0, 0, (week-1)*7)
}

func isoWeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 12, 0, 0, 0, time.UTC).ISOWeek()
	return week
}
