// Package config carries the matcher's calibration thresholds. The defaults
// were tuned empirically on real pension-fund disclosure data; they are
// configuration rather than constants so deployments can recalibrate, but
// the derivation is not documented and the defaults should not be second-
// guessed casually.
package config

// MatcherConfig holds the fuzzy matcher's thresholds. All similarity values
// are in [0, 1].
type MatcherConfig struct {
	// NameSignalThreshold is the token-sort similarity above which the name
	// counts as a corroborating signal.
	NameSignalThreshold float64

	// GPSimilarityThreshold is the GP-name similarity above which the GP
	// counts as a corroborating signal.
	GPSimilarityThreshold float64

	// MinQualifyingScore is the minimum token-sort similarity any fuzzy
	// match must reach regardless of signal count.
	MinQualifyingScore float64

	// StandardRatioFloor hard-rejects candidates whose order-sensitive
	// similarity falls below it; it catches token-sort scores inflated
	// purely by shared generic words.
	StandardRatioFloor float64

	// TokenOverlapFloor hard-rejects candidates whose distinctive-token
	// Jaccard overlap falls below it when both sides have distinctive
	// tokens.
	TokenOverlapFloor float64

	// MinSignals is the number of independent signals (name, GP, vintage)
	// a fuzzy match must accumulate. Requiring two is the core correctness
	// property: fund names draw on a small repetitive vocabulary, so name
	// similarity alone over-merges.
	MinSignals int
}

// Default returns the empirically calibrated thresholds.
func Default() MatcherConfig {
	return MatcherConfig{
		NameSignalThreshold:   0.85,
		GPSimilarityThreshold: 0.85,
		MinQualifyingScore:    0.75,
		StandardRatioFloor:    0.65,
		TokenOverlapFloor:     0.30,
		MinSignals:            2,
	}
}
