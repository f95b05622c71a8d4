package pace

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Range is a target pace range in seconds per kilometer, Min <= Max.
type Range struct {
	MinSecPerKm float64 `json:"min_sec_per_km"`
	MaxSecPerKm float64 `json:"max_sec_per_km"`
}

// offsets are added to the reference (P1K) pace, in seconds.
var offsets = map[Intensity]struct{ min, max float64 }{
	IntensityLight:    {min: 90, max: 150},
	IntensityModerate: {min: 45, max: 90},
	IntensityStrong:   {min: 15, max: 45},
}

// RangeFromReference derives the target pace range for the intensity from a
// reference pace p1k (seconds per km at time-trial effort).
func RangeFromReference(p1k float64, intensity Intensity) (Range, error) {
	if math.IsNaN(p1k) || math.IsInf(p1k, 0) || p1k <= 0 {
		return Range{}, fmt.Errorf("reference pace %v: %w", p1k, ErrInvalidArgument)
	}
	off, ok := offsets[intensity]
	if !ok {
		return Range{}, fmt.Errorf("intensity %q has no pace range: %w", intensity, ErrInvalidArgument)
	}
	return Range{
		MinSecPerKm: p1k + off.min,
		MaxSecPerKm: p1k + off.max,
	}, nil
}

// Format renders seconds as "M:SS". Input is rounded to the nearest second and
// negative values are clamped to zero.
func Format(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatRange renders a range as "M:SS-M:SS".
func FormatRange(r Range) string {
	return Format(r.MinSecPerKm) + "-" + Format(r.MaxSecPerKm)
}

// Parse reads "M:SS" (or a plain number of seconds) into seconds.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty pace: %w", ErrInvalidArgument)
	}

	minStr, secStr, found := strings.Cut(s, ":")
	if !found {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(secs) || secs <= 0 || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("pace %q: %w", s, ErrInvalidArgument)
		}
		return secs, nil
	}

	mins, err := strconv.Atoi(minStr)
	if err != nil || mins < 0 {
		return 0, fmt.Errorf("pace minutes %q: %w", minStr, ErrInvalidArgument)
	}
	secs, err := strconv.Atoi(secStr)
	if err != nil || secs < 0 || secs > 59 || len(secStr) != 2 {
		return 0, fmt.Errorf("pace seconds %q: %w", secStr, ErrInvalidArgument)
	}

	total := float64(mins*60 + secs)
	if total == 0 {
		return 0, fmt.Errorf("pace %q: %w", s, ErrInvalidArgument)
	}
	return total, nil
}

// Clamp bounds n to [min, max]; NaN maps to min.
func Clamp(n, min, max float64) float64 {
	if math.IsNaN(n) {
		return min
	}
	return math.Max(min, math.Min(max, n))
}

// ClampInt bounds n to [min, max].
func ClampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// RoundTenth rounds to one decimal place, half away from zero.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
