package textutil

import (
	"math"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// CollapseWhitespace replaces every run of unicode whitespace (this includes
// the ideographic space U+3000) with a single ascii space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// FirstLine returns everything before the first '\n'.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// LeadingInt parses the integer at the start of s the way a lenient
// browser parser would: leading whitespace is skipped, an optional sign is
// accepted and parsing stops at the first non-digit. ok is false when no
// digits were found or the value does not fit in an int.
func LeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	negative := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		d := int(s[digits] - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if negative {
		n = -n
	}
	return n, true
}

// LeadingIntOr is LeadingInt with a fallback for unparsable input.
func LeadingIntOr(s string, fallback int) int {
	n, ok := LeadingInt(s)
	if !ok {
		return fallback
	}
	return n
}

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "")
}

// ClosestMatch returns the candidate most similar to name by Jaro-Winkler
// similarity of their normalized forms. Exact normalized matches win
// immediately.
func ClosestMatch(name string, candidates []string) (best string, similarity float64) {
	target := NormalizeName(name)
	for _, c := range candidates {
		normalized := NormalizeName(c)
		if normalized == target {
			return c, 1
		}
		score := matchr.JaroWinkler(target, normalized, false)
		if score > similarity {
			similarity = score
			best = c
		}
	}
	return best, similarity
}
