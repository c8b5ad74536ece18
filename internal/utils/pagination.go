// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi, falling back to
// def when the string is empty or unparseable. The handlers use it for
// numeric query parameters such as ?since= and ?limit= on thread reads, where
// a garbled value should behave like an absent one.
//
// Example:
//
//	since := utils.AtoiDefault(c.Query("since"), 0) // "3" → 3, "" → 0, "x" → 0
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
