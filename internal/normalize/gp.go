package normalize

import (
	"regexp"
	"strings"
)

// Patterns stripped, in order, to reduce a fund name to its GP/brand
// portion. Most PE funds follow "KKR North America Fund XI",
// "Blackstone Capital Partners VI", "TPG Growth III".
var (
	gpLegalSuffix = regexp.MustCompile(`(?i),?\s*(L\.?P\.?\d?|LLC|Ltd|SCSp|S\.C\.Sp\.?|Cooperatief U\.A\.?)$`)
	gpFundNumber  = regexp.MustCompile(`\s+(Fund\s+)?[IVXLC]+(-[A-Z0-9]+)?(\s+\(.*\))?\s*$`)
	gpBareFund    = regexp.MustCompile(`\s+Fund\s*$`)
	gpTrailYear   = regexp.MustCompile(`\s+\d{4}\s*$`)
	gpClassLetter = regexp.MustCompile(`\s+[A-D]\s*$`)
)

// InferGP extracts a general-partner name from a fund name by stripping
// legal suffixes, fund-number patterns, a bare trailing "Fund" (as in
// "KKR Millennium Fund"), trailing years ("Partners 2022"), and trailing
// share-class letters. Best effort: when everything strips away, the
// original name is returned unchanged.
func InferGP(fundName string) string {
	cleaned := strings.TrimSpace(gpLegalSuffix.ReplaceAllString(fundName, ""))
	cleaned = strings.TrimSpace(gpFundNumber.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(gpBareFund.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(gpTrailYear.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(gpClassLetter.ReplaceAllString(cleaned, ""))
	if cleaned == "" {
		return fundName
	}
	return cleaned
}
