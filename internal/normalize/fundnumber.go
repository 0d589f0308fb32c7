package normalize

import (
	"regexp"
	"strings"
)

var romanValues = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
	"XI": 11, "XII": 12, "XIII": 13, "XIV": 14, "XV": 15,
	"XVI": 16, "XVII": 17, "XVIII": 18, "XIX": 19, "XX": 20,
	"XXI": 21, "XXII": 22, "XXIII": 23, "XXIV": 24, "XXV": 25,
}

// Words that make a standalone "I" read as a fund number rather than part of
// a name or an initial.
var fundContextWords = map[string]struct{}{
	"fund": {}, "partners": {}, "capital": {}, "equity": {}, "ventures": {},
	"opportunities": {}, "growth": {}, "credit": {}, "europe": {}, "asia": {},
	"evergreen": {}, "springblue": {},
}

var numberTokenSplit = regexp.MustCompile(`[\s,\-'"()]+`)

// FundNumber extracts the primary Roman-numeral fund-series token from a
// name, e.g. "XII" from "KKR Americas XII Fund". It returns the numeral with
// the largest value found, since sub-fund designators after the primary
// series number are smaller or non-numeral. Returns "" when the name asserts
// no series number, which matching must treat as compatible with any number.
//
// Guard heuristics (known blind spots, kept as-is): a standalone "I" counts
// only when preceded by a fund-context word; a standalone "V" is skipped
// when the preceding token itself ends in "v", which usually indicates a
// split word rather than a series number.
func FundNumber(name string) string {
	if name == "" {
		return ""
	}

	tokens := numberTokenSplit.Split(strings.TrimSpace(name), -1)

	best := ""
	bestValue := 0

	for i, token := range tokens {
		upper := strings.TrimRight(strings.ToUpper(token), ".")
		value, ok := romanValues[upper]
		if !ok {
			continue
		}

		if upper == "I" {
			if i == 0 {
				continue
			}
			prev := strings.TrimRight(strings.ToLower(tokens[i-1]), ".,")
			if _, ok := fundContextWords[prev]; !ok {
				continue
			}
		}

		if upper == "V" && i > 0 {
			prev := strings.ToLower(tokens[i-1])
			if strings.HasSuffix(prev, "v") {
				continue
			}
		}

		if value > bestValue {
			bestValue = value
			best = upper
		}
	}

	return best
}
