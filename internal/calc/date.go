package calc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the canonical day label, month first.
const dateLayout = "01/02"

// maxDateInput is the longest text accepted while typing: "MM/DD".
const maxDateInput = 5

// SanitizeDateInput filters text as it is typed into the date field: only
// digits and a single "/" survive, and at most five characters are kept.
// It never pads or validates; that happens in CanonicalizeDate.
func SanitizeDateInput(raw string) string {
	var b strings.Builder
	slash := false
	for _, r := range raw {
		if b.Len() >= maxDateInput {
			break
		}
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '/' && !slash:
			slash = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalizeDate turns the committed date text into strict "MM/DD".
// Month is clamped to 1-12 and day to 1-31. Accepted shapes are "M/D",
// "MM/DD", "MMDD" and "MDD"; anything else, including blank, yields today.
func CanonicalizeDate(raw string, today time.Time) string {
	s := SanitizeDateInput(raw)

	var mStr, dStr string
	if i := strings.IndexByte(s, '/'); i >= 0 {
		mStr, dStr = s[:i], s[i+1:]
	} else {
		switch len(s) {
		case 4:
			mStr, dStr = s[:2], s[2:]
		case 3:
			mStr, dStr = s[:1], s[1:]
		default:
			return today.Format(dateLayout)
		}
	}

	m, errM := strconv.Atoi(mStr)
	d, errD := strconv.Atoi(dStr)
	if errM != nil || errD != nil {
		return today.Format(dateLayout)
	}
	return fmt.Sprintf("%02d/%02d", clamp(m, 1, 12), clamp(d, 1, 31))
}

// DateFromCalendar renders a calendar date as the "MM/DD" label.
func DateFromCalendar(t time.Time) string {
	return t.Format(dateLayout)
}

// CalendarFromDate maps a strict "MM/DD" label to a calendar date in the
// year of today. It reports false for text that is not strict "MM/DD" or
// for a day that does not exist in that year (e.g. "02/30").
func CalendarFromDate(label string, today time.Time) (time.Time, bool) {
	if len(label) != maxDateInput || label[2] != '/' || !digits(label[:2]) || !digits(label[3:]) {
		return time.Time{}, false
	}
	m, errM := strconv.Atoi(label[:2])
	d, errD := strconv.Atoi(label[3:])
	if errM != nil || errD != nil || m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(today.Year(), time.Month(m), d, 0, 0, 0, 0, today.Location())
	if t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
