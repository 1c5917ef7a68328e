package formatter

import (
	"regexp"
	"strings"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes escape codes so assertions see plain text.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}
