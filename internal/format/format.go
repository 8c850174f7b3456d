// Package format renders money, dates and ages for display.
package format

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Currency abbreviates a dollar amount: 1_500_000_000 -> "$2b USD".
// Zero renders as "N/A".
func Currency(amount int64) string {
	if amount == 0 {
		return "N/A"
	}
	n := float64(amount)
	switch {
	case n >= 1e9:
		return "$" + strconv.FormatFloat(math.Round(n/1e9), 'f', 0, 64) + "b USD"
	case n >= 1e6:
		return "$" + strconv.FormatFloat(math.Round(n/1e6), 'f', 0, 64) + "m USD"
	case n >= 1e3:
		return "$" + strconv.FormatFloat(math.Round(n/1e3), 'f', 0, 64) + "k USD"
	default:
		return "$" + humanize.Comma(amount) + " USD"
	}
}

// ParseDate parses a TMDB "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// yearsBetween counts whole years from birth to t; the year is not counted
// until the birthday has been reached.
func yearsBetween(birth, t time.Time) int {
	age := t.Year() - birth.Year()
	if t.Month() < birth.Month() || (t.Month() == birth.Month() && t.Day() < birth.Day()) {
		age--
	}
	return age
}

// Age returns the full years between two dates.
func Age(birth, end string) (int, bool) {
	b, ok := ParseDate(birth)
	if !ok {
		return 0, false
	}
	e, ok := ParseDate(end)
	if !ok {
		return 0, false
	}
	return yearsBetween(b, e), true
}

// AgeAt returns the age on t of someone born on birth.
func AgeAt(birth string, t time.Time) (int, bool) {
	b, ok := ParseDate(birth)
	if !ok {
		return 0, false
	}
	return yearsBetween(b, t), true
}

// AgeAtFilming estimates age during production, taken as one year before
// release. Non-positive ages are reported as absent.
func AgeAtFilming(birth, release string) (int, bool) {
	b, ok := ParseDate(birth)
	if !ok {
		return 0, false
	}
	r, ok := ParseDate(release)
	if !ok {
		return 0, false
	}
	age := yearsBetween(b, r.AddDate(-1, 0, 0))
	if age <= 0 {
		return 0, false
	}
	return age, true
}

// ReleaseYear returns the year of a release date, or "Unknown".
func ReleaseYear(date string) string {
	t, ok := ParseDate(date)
	if !ok {
		return "Unknown"
	}
	return strconv.Itoa(t.Year())
}

// Bytes renders a storage size, e.g. "4.2 MB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Ago renders t relative to now, e.g. "3 days ago". The zero time renders
// as "never".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
