package review

import (
	"context"
	"log/slog"
)

// LogPublisher writes review items to the structured log. It is the default
// when no broker is configured, so fuzzy decisions stay auditable even in
// minimal deployments.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a log-backed publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, item Item) error {
	p.logger.LogAttrs(ctx, slog.LevelWarn, "fuzzy match queued for review",
		slog.String("raw_name", item.RawName),
		slog.String("source_id", item.SourceID),
		slog.String("fund_id", item.FundID),
		slog.String("canonical_name", item.CanonicalName),
		slog.Float64("token_sort_score", item.TokenSortScore),
		slog.Float64("standard_score", item.StandardScore),
		slog.Any("signals", item.Signals),
	)
	return nil
}
