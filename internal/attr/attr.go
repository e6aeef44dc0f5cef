// Package attr normalizes and matches descriptive attribute tags
// ("datapoints"/"highlights") shared by the scoring engine and the
// weight store.
package attr

import "strings"

// Normalize canonicalizes an attribute tag: lower-case, whitespace runs
// collapsed to single underscores. Returns "" for blank input.
func Normalize(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, "_")
}

// NormalizeAll normalizes a list of tags, dropping blanks. Duplicates
// are preserved; each occurrence counts independently downstream.
func NormalizeAll(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			normalized = append(normalized, n)
		}
	}
	return normalized
}

// Matches reports whether attribute a matches list entry p. Membership is
// substring-symmetric: a contains p or p contains a. This handles
// partial/compound tags ("serial_founder" vs "founder") and is load-bearing
// for scoring outcomes; do not tighten to exact match.
func Matches(a, p string) bool {
	if a == "" || p == "" {
		return false
	}
	return strings.Contains(a, p) || strings.Contains(p, a)
}

// MatchesAny reports whether attribute a matches any entry in list.
// Entries are normalized before comparison so persona criteria may be
// written in either form.
func MatchesAny(a string, list []string) bool {
	for _, p := range list {
		if Matches(a, Normalize(p)) {
			return true
		}
	}
	return false
}
