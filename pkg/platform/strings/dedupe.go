// Package strings provides list normalization for configuration values.
package strings

import (
	"strings"
)

// Dedupe applies normalize to every element, then drops empty results and
// duplicates. Order of first occurrence is preserved. A nil normalize only
// trims whitespace.
//
// Example:
//
//	Dedupe([]string{" https://a.example/", "https://a.example", ""}, TrimOrigin)
//	// Returns: []string{"https://a.example"}
func Dedupe(values []string, normalize func(string) string) []string {
	if normalize == nil {
		normalize = strings.TrimSpace
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}

	return result
}

// TrimOrigin trims whitespace and trailing slashes. Browsers never send a
// trailing slash in the Origin header.
func TrimOrigin(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}

// SplitList splits a comma-separated value and runs the parts through Dedupe.
func SplitList(raw string, normalize func(string) string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return Dedupe(strings.Split(raw, ","), normalize)
}
