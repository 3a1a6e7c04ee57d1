package utils

import "strings"

// ValidDecimalShape reports whether s is a decimal literal with at most
// `before` integer digits, at most `after` fractional digits and no more than
// before+after digits in total. An optional leading sign is allowed.
func ValidDecimalShape(s string, before, after int) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if hasDot && fracPart == "" {
		return false
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return false
	}
	if len(intPart) == 0 || len(intPart) > before {
		return false
	}
	if len(fracPart) > after {
		return false
	}
	return len(intPart)+len(fracPart) <= before+after
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
