// Package dateutil validates and computes the calendar dates that key the journal.
package dateutil

import (
	"regexp"
	"time"

	"github.com/emarron/quaderno/internal/output"
)

// Layout is the canonical ISO-8601 date layout used everywhere in the journal.
const Layout = "2006-01-02"

// datePattern guards against inputs time.Parse would accept in a lenient
// form (e.g. "2026-1-6"); the archive format is strictly zero-padded.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Parse parses a strict YYYY-MM-DD date string.
// Rejects both malformed strings and well-formed strings that are not
// real calendar dates (e.g. 2024-02-30).
func Parse(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, output.NewUserError("fecha inválida: " + s + " (usa YYYY-MM-DD)")
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, output.NewUserError("fecha inválida (no existe): " + s)
	}
	return t, nil
}

// IsValid reports whether s is a strict, real YYYY-MM-DD date.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Month returns the YYYY-MM prefix of a valid date string.
func Month(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// Next computes the day after the given date, as a date string.
func Next(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(Layout), nil
}

// MaxDate returns the latest valid date in dates, or "" when none parse.
func MaxDate(dates []string) string {
	max := ""
	for _, d := range dates {
		if !IsValid(d) {
			continue
		}
		if max == "" || d > max {
			max = d
		}
	}
	return max
}

// MinDate returns the earliest valid date in dates, or "" when none parse.
func MinDate(dates []string) string {
	min := ""
	for _, d := range dates {
		if !IsValid(d) {
			continue
		}
		if min == "" || d < min {
			min = d
		}
	}
	return min
}

// NextDate computes max(dates) + 1 day.
// Fails when dates holds no valid date; callers must then require an
// explicit date argument instead of inferring one.
func NextDate(dates []string) (string, error) {
	max := MaxDate(dates)
	if max == "" {
		return "", output.NewUserError("el archivo no tiene entradas: indica la fecha explícitamente (YYYY-MM-DD)")
	}
	return Next(max)
}
