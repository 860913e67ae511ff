package search

import (
	"strconv"
	"strings"

	"github.com/forkfilter/forkfilter/pkg/geo"
)

// ParseMenuTerms splits a comma- (or plus-) separated term string into
// ordered lowercase tokens. Empty tokens are dropped.
func ParseMenuTerms(s string) []string {
	var terms []string
	for _, t := range strings.Split(strings.ReplaceAll(s, "+", ","), ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// ParsePrices parses a comma-separated list of price tiers. Non-numeric
// tokens are silently dropped.
func ParsePrices(s string) []int {
	var prices []int
	for _, t := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			prices = append(prices, n)
		}
	}
	return prices
}

// ParseBusyLevels parses a comma-separated, case-insensitive list of
// busyness levels into the canonical set. Invalid tokens are dropped.
func ParseBusyLevels(s string) map[string]bool {
	levels := make(map[string]bool)
	for _, t := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "low":
			levels[geo.BusyLow] = true
		case "moderate":
			levels[geo.BusyModerate] = true
		case "high":
			levels[geo.BusyHigh] = true
		}
	}
	return levels
}

// Truthy reports whether s is an affirmative flag value.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}
