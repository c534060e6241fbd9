package models

import "strings"

// normalizeDedup lowercases and trims a field for dedup-key comparison.
func normalizeDedup(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
