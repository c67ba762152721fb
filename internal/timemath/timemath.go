// Package timemath holds the calendar and duration helpers shared by the
// planner, the progress views and the Pomodoro timer. Nothing here reads the
// clock; callers pass "now" explicitly.
package timemath

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of calendar days from now's day to target's
// day. It is negative when target lies in the past.
func DaysUntil(now, target time.Time) int {
	target = target.In(now.Location())
	// Compare calendar dates in UTC so DST transitions never produce 23h or 25h days.
	a := civil(now)
	b := civil(target)
	return int(b.Sub(a).Hours() / 24)
}

// DaysAvailable is the number of planning days before the exam. It never
// drops below 1, even for exam dates in the past.
func DaysAvailable(now, exam time.Time) int {
	return max(1, DaysUntil(now, exam))
}

// StudyDays returns the days left before the exam, or 0 when there is no exam
// date or it is not in the future.
func StudyDays(now time.Time, exam *time.Time) int {
	if exam == nil {
		return 0
	}
	days := DaysUntil(now, *exam)
	if days <= 0 {
		return 0
	}
	return days
}

// IsPast reports whether exam is before now.
func IsPast(now, exam time.Time) bool {
	return exam.Before(now)
}

// DateRange returns n consecutive day starts beginning at start's day.
func DateRange(start time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	first := StartOfDay(start)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// CalendarDay returns t's day as YYYY-MM-DD.
func CalendarDay(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate accepts YYYY-MM-DD (local midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders t as "Jan 2, 2006". The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func DayName(t time.Time) string {
	return t.Weekday().String()
}

func ShortDayName(t time.Time) string {
	return t.Format("Mon")
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

// FormatClock renders minutes as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatCountdown renders seconds as "MM:SS".
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
