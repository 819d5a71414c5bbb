// Package normalize holds small input canonicalization helpers used by
// stores and handlers so the same value always hits the database in the
// same shape.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookups and uniqueness
// both key off the normalized form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
