package services

import (
	"regexp"
	"strings"
)

// Zambian mobile numbers: +260 followed by a 9x or 7x prefix and seven
// digits. Local forms 09XXXXXXXX / 07XXXXXXXX are accepted and normalized.
var zambianMobileRe = regexp.MustCompile(`^\+260(9[567]|7[567])\d{7}$`)

// NormalizeZambianPhone canonicalizes a recipient phone number to E.164.
// Returns the normalized number and whether it is valid.
func NormalizeZambianPhone(raw string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '+':
			return r
		case r == ' ', r == '-', r == '(', r == ')':
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(cleaned, "+260"):
		// already E.164
	case strings.HasPrefix(cleaned, "260"):
		cleaned = "+" + cleaned
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		cleaned = "+260" + cleaned[1:]
	}

	if !zambianMobileRe.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}
