package store

import "strings"

// Slug normalizes an item name to its filesystem-safe form: lowercase,
// spaces to underscores, "&" to "and", ":" to "-".
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// legacySlugs returns older slug spellings still found on disk from before
// the rules settled. Lookup tries these after the canonical slug.
func legacySlugs(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return []string{
		strings.ReplaceAll(lower, " ", "-"),
		strings.ReplaceAll(lower, " ", "_"),
		lower,
	}
}
