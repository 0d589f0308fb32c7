package normalize

import "strings"

// Generic fund-name vocabulary. These words appear in nearly every fund name
// and carry no brand identity; what distinguishes funds is what remains
// after removing them.
var genericTokens = map[string]struct{}{
	"fund": {}, "capital": {}, "partners": {}, "partner": {},
	"investment": {}, "investments": {},
	"equity": {}, "ventures": {}, "venture": {}, "credit": {}, "group": {},
	"management": {}, "global": {}, "international": {}, "opportunities": {},
	"special": {}, "situations": {}, "growth": {}, "buyout": {},
	"real": {}, "estate": {}, "infrastructure": {}, "the": {},
	"of": {}, "and": {}, "new": {}, "north": {}, "south": {}, "east": {}, "west": {},
	"i": {}, "ii": {}, "iii": {}, "iv": {}, "v": {}, "vi": {}, "vii": {},
	"viii": {}, "ix": {}, "x": {}, "xi": {}, "xii": {}, "xiii": {}, "xiv": {},
	"xv": {}, "xvi": {}, "xvii": {}, "xviii": {},
	"a": {}, "b": {}, "c": {}, "d": {}, "e": {},
	"lp": {}, "llc": {}, "ltd": {}, "inc": {}, "co": {},
	"no": {}, "no.": {}, "series": {}, "coinvestment": {}, "co-investment": {},
	"scsp": {}, "te": {}, "us": {}, "u.s.": {}, "europe": {}, "asia": {},
	"america": {}, "americas": {}, "latin": {}, "pacific": {},
}

// DistinctiveTokens lowercases and splits a normalized name and removes the
// generic vocabulary, leaving brand-identifying tokens ("blackstone",
// "kkr"). The result is a similarity signal only, never a match decision on
// its own.
func DistinctiveTokens(normalizedName string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(normalizedName)) {
		if _, generic := genericTokens[tok]; !generic {
			out[tok] = struct{}{}
		}
	}
	return out
}

// Strategy/geography words that distinguish vehicle types. Two names whose
// keyword sets differ must never merge, whatever their string similarity.
var strategyWords = map[string]struct{}{
	"credit": {}, "asia": {}, "europe": {}, "latin": {}, "real": {},
	"infrastructure": {},
}

// StrategyKeywords returns the strategy/geography-distinguishing words
// present in a normalized name.
func StrategyKeywords(normalizedName string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(normalizedName)) {
		if _, ok := strategyWords[tok]; ok {
			out[tok] = struct{}{}
		}
	}
	return out
}

// EqualKeywords reports whether two keyword sets are identical.
func EqualKeywords(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
