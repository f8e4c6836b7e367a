// Package dateutil holds the calendar arithmetic shared by planning,
// scheduling and the calendar grid endpoint. Every function is pure and
// keeps the location of its input.
package dateutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	Day = 24 * time.Hour
)

// Clock returns the current time. Components take a Clock so tests can pin "now".
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves by calendar days, so DST shifts keep the wall clock.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// At returns day's date at hour:minute.
func At(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

// DaysBetween counts whole calendar days from a to b (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.In(a.Location()).Date()
	ua := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	ub := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / Day)
}

// DaysUntil is ceil((due - now) / 24h). Zero or negative for past due dates.
func DaysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// IsWeekend treats Saturday and Sunday as weekend.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func IsSameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.In(a.Location()).Date()
	return ya == yb && ma == mb && da == db
}

func FirstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func LastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

func FirstDayOfWeek(t time.Time, startOnMonday bool) time.Time {
	wd := int(t.Weekday())
	diff := wd
	if startOnMonday {
		diff = (wd + 6) % 7
	}
	return StartOfDay(AddDays(t, -diff))
}

// MonthViewDates returns the 6x7 grid covering t's month, weeks starting Monday.
func MonthViewDates(t time.Time) []time.Time {
	start := FirstDayOfWeek(FirstDayOfMonth(t), true)
	out := make([]time.Time, 0, 42)
	for i := 0; i < 42; i++ {
		out = append(out, AddDays(start, i))
	}
	return out
}

func WeekViewDates(t time.Time) []time.Time {
	start := FirstDayOfWeek(t, true)
	out := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, AddDays(start, i))
	}
	return out
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }
func FormatTime(t time.Time) string { return t.Format(TimeLayout) }

// ParseDate reads YYYY-MM-DD as local midnight in loc (a date-only string is
// never interpreted as UTC, which would shift it a day west of Greenwich).
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), loc)
}

// ParseTime applies an HH:mm string to base's date.
func ParseTime(raw string, base time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("parse time %q: want HH:mm", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return time.Time{}, fmt.Errorf("parse time %q: bad hour", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("parse time %q: bad minute", raw)
	}
	return At(base, h, m), nil
}

func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// FormatDuration renders minutes as "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Hours converts fractional hours to a Duration without float drift on
// half-hour values.
func Hours(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
