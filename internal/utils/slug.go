package utils

import (
	"regexp"
	"strings"
)

var (
	slugDrop     = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a listing title into a URL-friendly identifier.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugDrop.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
