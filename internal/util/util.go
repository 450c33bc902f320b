// Package util holds helpers for the raw string arguments the host passes.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg trims whitespace and surrounding quotes and unescapes inner quotes.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// ParseIntArg parses a host argument as an integer. Whole-number floats such
// as "70.0" are accepted because the host serializes all numbers as floats.
func ParseIntArg(s string) (int, error) {
	s = CleanArg(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer argument %q", s)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("argument %q is not a whole number", s)
	}
	return int(f), nil
}
