package utils

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup tags and collapses the surrounding whitespace.
func StripHTML(s string) string {
	stripped := htmlTagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func IsValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 30 {
		return false
	}
	return UsernamePattern.MatchString(username)
}

// IsBlank reports whether s contains no non-whitespace characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
