// Package dayofweek maps between English day names and time.Weekday
// ordinals (Sunday=0, matching the stored day_of_week column).
package dayofweek

import (
	"regexp"
	"time"
)

var names = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

var nonWord = regexp.MustCompile(`\W+`)

// FromName resolves a canonical English day name to its ordinal. The
// match is exact and case-sensitive.
func FromName(name string) (time.Weekday, bool) {
	d, ok := names[name]
	return d, ok
}

// Name returns the day name for any integer, wrapping modulo 7 so
// Name(n) == Name(n+7) for all n, negatives included.
func Name(n int) string {
	return time.Weekday(((n % 7) + 7) % 7).String()
}

// SplitNames splits a source cell on runs of non-word characters, so
// multi-day cells like "Tuesday/Thursday" or "Monday, Friday" yield
// their individual tokens. Empty tokens are dropped; tokens are not
// validated here.
func SplitNames(s string) []string {
	var tokens []string
	for _, t := range nonWord.Split(s, -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
