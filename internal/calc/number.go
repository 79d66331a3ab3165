package calc

import (
	"math"
	"strconv"
	"strings"
)

// MaxMagnitude bounds every entered number. Sums and quotients of bounded
// inputs stay far from float64 overflow.
const MaxMagnitude = 1e12

// MaxParticipants is the largest participant count kept.
const MaxParticipants = math.MaxInt32

// ParseNumber parses a raw numeric field. Blank or unparseable input yields
// nil (the field is treated as not entered); it is never an error.
// Magnitudes beyond MaxMagnitude are clamped to it.
func ParseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return BoundNumber(v)
}

// BoundNumber clamps v to [-MaxMagnitude, MaxMagnitude]. NaN yields nil.
func BoundNumber(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	v = min(max(v, -MaxMagnitude), MaxMagnitude)
	return &v
}

// ParseParticipants parses a raw participant count from its leading integer,
// so "3abc" is 3, "2.7" is 2 and "1e3" is 1. No leading digits, or a count
// below 1, becomes 1.
func ParseParticipants(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 1
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Only overflow is left; the sign decides which side.
		if s[0] == '-' {
			return 1
		}
		return MaxParticipants
	}
	return ParticipantsFromFloat(float64(n))
}

// ParticipantsFromFloat converts a stored count, truncating decimals and
// bounding it to [1, MaxParticipants].
func ParticipantsFromFloat(v float64) int {
	switch {
	case math.IsNaN(v) || v < 1:
		return 1
	case v >= MaxParticipants:
		return MaxParticipants
	}
	return int(v)
}

// ClampParticipants enforces the bounds of a participant count.
func ClampParticipants(n int) int {
	return min(max(n, 1), MaxParticipants)
}

// Round1 rounds v to one decimal place the way the display does, so a value
// that was shown as "5.5" is also 5.5 when summed.
func Round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

// round1Ptr applies Round1 to an optional value.
func round1Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round1(*v)
	return &r
}

// finite returns v, or 0 when v is infinite or NaN.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// deref returns the value of v, or 0 when v is nil.
func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
