// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"math"
	"strconv"
	"strings"
)

// AtoiDefault converts a string to an int. Surrounding whitespace is
// ignored and a decimal value is truncated ("30.0" -> 30). If the string is
// empty or cannot be parsed, it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, ok := parseFinite(s); ok && f >= math.MinInt32 && f <= math.MaxInt32 {
		return int(f)
	}
	return def
}

// ParseFloatDefault converts a string to a finite float64, returning def
// when the string is empty, malformed, NaN or infinite.
func ParseFloatDefault(s string, def float64) float64 {
	if f, ok := parseFinite(strings.TrimSpace(s)); ok {
		return f
	}
	return def
}

// Round1 rounds f to one decimal place.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
