package app

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultPostDateLayout matches the scraper's "03-10-2023 12:00:00" stamps.
const DefaultPostDateLayout = "1-2-2006 15:04:05"

var digitRun = regexp.MustCompile(`\d+`)

// coerceDate parses v with layout and keeps the calendar date only.
// Anything that does not parse is nil.
func coerceDate(v any, layout string) *time.Time {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case string:
		p, err := time.Parse(layout, strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		t = p
	default:
		return nil
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}

// coerceInt truncates numbers and takes the first run of digits from text,
// so "2 nights" is 2.
func coerceInt(v any) *int {
	switch x := v.(type) {
	case int:
		return intPtr(int64(x))
	case int32:
		return intPtr(int64(x))
	case int64:
		return intPtr(x)
	case float32:
		return truncFloat(float64(x))
	case float64:
		return truncFloat(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return intPtr(n)
		}
		if f, err := x.Float64(); err == nil {
			return truncFloat(f)
		}
		return digits(string(x))
	case string:
		return digits(x)
	}
	return nil
}

// coerceCounter is coerceInt for vote counts: failure yields def, never nil.
func coerceCounter(v any, def int) int {
	if n := coerceInt(v); n != nil {
		return *n
	}
	return def
}

// coerceRating reads a float ("8.5", "8,5", 8.5) and truncates it.
func coerceRating(v any) *int {
	switch x := v.(type) {
	case int:
		return intPtr(int64(x))
	case int64:
		return intPtr(x)
	case float32:
		return truncFloat(float64(x))
	case float64:
		return truncFloat(x)
	case json.Number:
		return parseRating(string(x))
	case string:
		return parseRating(x)
	}
	return nil
}

func parseRating(s string) *int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return truncFloat(f)
}

func digits(s string) *int {
	m := digitRun.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return nil
	}
	return intPtr(n)
}

// Stored integers are 32-bit columns; anything wider is treated as invalid.
func truncFloat(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	t := math.Trunc(f)
	if t < math.MinInt32 || t > math.MaxInt32 {
		return nil
	}
	n := int(t)
	return &n
}

func intPtr(n int64) *int {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil
	}
	x := int(n)
	return &x
}
