// Package models defines the registry's domain records.
package models

import "time"

// MatchType classifies how a candidate record was resolved.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchAlias MatchType = "alias"
	MatchFuzzy MatchType = "fuzzy"
	MatchNew   MatchType = "new"
)

// Fund is a canonical fund entity. Identity is immutable once created;
// optional fields (GP, vintage, classification) are only ever backfilled
// from later observations, never overwritten.
type Fund struct {
	ID               string
	CanonicalName    string
	RawNameFirstSeen string

	// GeneralPartner is empty when unknown. The normalized form is kept
	// alongside for matching.
	GeneralPartner           string
	GeneralPartnerNormalized string

	// VintageYear is 0 when unknown.
	VintageYear int

	AssetClass  string
	SubStrategy string

	CreatedAt time.Time
}

// Alias binds a raw name string to exactly one fund, scoped by the
// originating source so the same text from two sources does not collide.
// Once created an alias is never repointed by resolution; repointing is an
// explicit audit action (delete, then re-resolve).
type Alias struct {
	ID        string
	FundID    string
	AliasText string
	SourceID  string
	CreatedAt time.Time
}

// CandidateRecord is what upstream document adapters emit: a required raw
// fund name plus whatever weak signals the source disclosed. Zero values
// mean "not supplied".
type CandidateRecord struct {
	FundNameRaw    string
	GeneralPartner string
	VintageYear    int
	SourceID       string
}

// Resolution is the outcome of resolving one candidate record. Scores and
// signals are populated for fuzzy matches so the decision is auditable.
type Resolution struct {
	FundID    string
	MatchType MatchType

	// TokenSortScore and StandardScore are the similarity scores that
	// qualified a fuzzy match; zero otherwise.
	TokenSortScore float64
	StandardScore  float64

	// Signals lists which corroborating signals fired: "name", "gp",
	// "vintage".
	Signals []string
}

// Stats summarizes registry size for operational visibility.
type Stats struct {
	TotalFunds   int `json:"total_funds"`
	TotalAliases int `json:"total_aliases"`
}
