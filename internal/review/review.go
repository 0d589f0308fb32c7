// Package review publishes fuzzy-match decisions for human inspection.
// Fuzzy matches are the only probabilistic step in resolution, so each one
// is emitted with the evidence that qualified it; a reviewer who disagrees
// deletes the alias and re-resolves.
package review

import (
	"context"
	"time"
)

// Item is one fuzzy-match decision queued for review.
type Item struct {
	RawName        string    `json:"raw_name"`
	SourceID       string    `json:"source_id,omitempty"`
	FundID         string    `json:"fund_id"`
	CanonicalName  string    `json:"canonical_name"`
	TokenSortScore float64   `json:"token_sort_score"`
	StandardScore  float64   `json:"standard_score"`
	Signals        []string  `json:"signals"`
	MatchedAt      time.Time `json:"matched_at"`
}

// Publisher delivers review items to whatever backs the review queue.
type Publisher interface {
	Publish(ctx context.Context, item Item) error
}
