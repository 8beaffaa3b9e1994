package labreport

import (
	"regexp"
	"strings"

	"labcompass/lib/textutil"
)

var (
	breakdownPattern   = regexp.MustCompile(`(-?\d+)\s*\(([^)]+)\)`)
	breakdownSeparator = regexp.MustCompile(`[,、]`)
)

// ParseBreakdown parses composite cell text like "12(3,2,1)" or a plain count
// like "7". The cohorts inside the parentheses may be separated by ascii or
// ideographic commas. Anything it cannot make sense of becomes zero.
func ParseBreakdown(text string) CapacityBreakdown {
	normalized := textutil.CollapseWhitespace(text)
	if normalized == "" {
		return CapacityBreakdown{}
	}

	match := breakdownPattern.FindStringSubmatch(normalized)
	if match == nil {
		return CapacityBreakdown{Total: textutil.LeadingIntOr(normalized, 0)}
	}

	tokens := breakdownSeparator.Split(match[2], -1)
	token := func(i int) string {
		if i >= len(tokens) {
			return "0"
		}
		return strings.TrimSpace(tokens[i])
	}

	return CapacityBreakdown{
		Total:     textutil.LeadingIntOr(match[1], 0),
		ThirdYear: textutil.LeadingIntOr(token(0), 0),
		Senior:    textutil.LeadingIntOr(token(1), 0),
		KCourse:   textutil.LeadingIntOr(token(2), 0),
	}
}

func SumBreakdowns(buckets ...CapacityBreakdown) CapacityBreakdown {
	var out CapacityBreakdown
	for _, b := range buckets {
		out.Total += b.Total
		out.ThirdYear += b.ThirdYear
		out.Senior += b.Senior
		out.KCourse += b.KCourse
	}
	return out
}
