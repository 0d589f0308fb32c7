// Package normalize holds the pure name functions the resolver is built on:
// canonical comparison forms, fund-series numbers, distinctive tokens,
// strategy keywords, GP inference, and strategy classification. Everything
// here is deterministic and total; raw strings are always kept separately
// for provenance, these outputs are for comparison only.
package normalize

import (
	"regexp"
	"strings"
	"time"
)

// Legal suffixes stripped from the end of a name, each applied once in order.
var legalSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i),?\s*L\.?P\.?$`),
	regexp.MustCompile(`(?i),?\s*LLC$`),
	regexp.MustCompile(`(?i),?\s*Ltd\.?$`),
	regexp.MustCompile(`(?i),?\s*Inc\.?$`),
	regexp.MustCompile(`(?i),?\s*Co\.?$`),
}

// Abbreviations expanded to their full form before comparison.
var abbreviations = []struct {
	pattern *regexp.Regexp
	full    string
}{
	{regexp.MustCompile(`(?i)\bFd\b`), "Fund"},
	{regexp.MustCompile(`(?i)\bPrtrs\b`), "Partners"},
	{regexp.MustCompile(`(?i)\bPtnrs\b`), "Partners"},
	{regexp.MustCompile(`(?i)\bCap\b`), "Capital"},
	{regexp.MustCompile(`(?i)\bMgmt\b`), "Management"},
	{regexp.MustCompile(`(?i)\bIntl\b`), "International"},
	{regexp.MustCompile(`(?i)\bInv\b`), "Investment"},
}

var whitespace = regexp.MustCompile(`\s+`)

// FundName normalizes a fund name for comparison: trim, strip trailing legal
// suffixes, expand common abbreviations, collapse whitespace. Case is
// preserved; callers lowercase for index keys.
func FundName(name string) string {
	if name == "" {
		return ""
	}
	s := strings.TrimSpace(name)
	for _, re := range legalSuffixes {
		s = re.ReplaceAllString(s, "")
	}
	for _, abbr := range abbreviations {
		s = abbr.pattern.ReplaceAllString(s, abbr.full)
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// GPName normalizes a general-partner name for matching. GP names follow the
// same suffix and abbreviation conventions as fund names.
func GPName(name string) string {
	return FundName(name)
}

// ValidVintage reports whether a vintage year is plausible: 1980 through
// next year. Implausible years are treated as absent, not as errors.
func ValidVintage(year int, now time.Time) bool {
	return year >= 1980 && year <= now.Year()+1
}
