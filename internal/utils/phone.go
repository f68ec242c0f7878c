package utils

import (
	"regexp"
	"strings"
)

var (
	phoneFormatting = regexp.MustCompile(`[\s\-\(\)\+]`)
	indianMobile    = regexp.MustCompile(`^(91)?[6-9]\d{9}$`)
)

// ValidatePhone accepts 10-digit Indian mobile numbers starting with 6-9,
// optionally prefixed with 91 / +91 and loosely formatted.
func ValidatePhone(phone string) bool {
	return indianMobile.MatchString(phoneFormatting.ReplaceAllString(phone, ""))
}

// NormalizePhone strips formatting and a leading country code.
func NormalizePhone(phone string) string {
	cleaned := phoneFormatting.ReplaceAllString(phone, "")
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}
	return cleaned
}
