// Package service implements fund resolution: mapping noisy fund-name
// strings from disclosure documents onto canonical fund records. Matching is
// strictly ordered (exact name, exact alias, fuzzy, new) and the first stage
// that succeeds wins. Merges are cheap to reverse (delete an alias); splits
// are expensive, so every probabilistic rule leans conservative.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fundregistry/internal/normalize"
	"fundregistry/internal/registry/config"
	"fundregistry/internal/registry/metrics"
	"fundregistry/internal/registry/models"
	"fundregistry/internal/registry/store"
	"fundregistry/internal/review"
	"fundregistry/internal/similarity"
	dErrors "fundregistry/pkg/domain-errors"
	"fundregistry/pkg/requestcontext"
)

// Store is the persistence the resolver needs, satisfied by the stores in
// internal/registry/store.
type Store interface {
	ListFunds(ctx context.Context) ([]models.Fund, error)
	ListAliases(ctx context.Context) ([]models.Alias, error)
	UpsertFund(ctx context.Context, fund models.Fund) error
	AddAlias(ctx context.Context, alias models.Alias) (string, error)
	DeleteAlias(ctx context.Context, aliasText, sourceID string) error
}

// Resolver resolves candidate records against the registry. It holds the
// full registry in memory (registries are tens of thousands of funds, not
// millions) and writes through to the store.
//
// Resolver is not safe for concurrent use; callers serialize.
type Resolver struct {
	store   Store
	cfg     config.MatcherConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	review  review.Publisher

	funds      map[string]models.Fund
	order      []string // fund IDs in creation order, ties resolve to earliest
	nameToID   map[string]string
	aliasToID  map[string]string
	aliasCount int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithReviewPublisher sets where fuzzy-match decisions are queued for
// human review.
func WithReviewPublisher(p review.Publisher) Option {
	return func(r *Resolver) { r.review = p }
}

// New loads the registry from the store and builds the lookup indexes.
func New(ctx context.Context, st Store, cfg config.MatcherConfig, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		store:     st,
		cfg:       cfg,
		logger:    slog.Default(),
		funds:     make(map[string]models.Fund),
		nameToID:  make(map[string]string),
		aliasToID: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.review == nil {
		r.review = review.NewLogPublisher(r.logger)
	}

	funds, err := st.ListFunds(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "load funds")
	}
	for _, fund := range funds {
		r.indexFund(fund)
	}

	aliases, err := st.ListAliases(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "load aliases")
	}
	for _, alias := range aliases {
		r.indexAlias(alias)
	}
	r.aliasCount = len(aliases)

	return r, nil
}

// Resolve maps one candidate record onto a fund, creating the fund when
// nothing matches. Resolving the same record twice yields the same fund.
func (r *Resolver) Resolve(ctx context.Context, record models.CandidateRecord) (models.Resolution, error) {
	raw := strings.TrimSpace(record.FundNameRaw)
	if raw == "" {
		return models.Resolution{}, dErrors.New(dErrors.CodeValidation, "fund name is required")
	}
	record.FundNameRaw = raw

	normalized := normalize.FundName(raw)

	// Stage 1: exact canonical name.
	if id, ok := r.nameToID[strings.ToLower(normalized)]; ok {
		if err := r.backfill(ctx, id, record); err != nil {
			return models.Resolution{}, err
		}
		r.logMatch(ctx, raw, id, models.MatchExact)
		r.metrics.ObserveResolution(string(models.MatchExact))
		return models.Resolution{FundID: id, MatchType: models.MatchExact}, nil
	}

	// Stage 2: exact alias, raw first, then normalized form.
	if id, ok := r.lookupAlias(raw, normalized); ok {
		if err := r.backfill(ctx, id, record); err != nil {
			return models.Resolution{}, err
		}
		r.logMatch(ctx, raw, id, models.MatchAlias)
		r.metrics.ObserveResolution(string(models.MatchAlias))
		return models.Resolution{FundID: id, MatchType: models.MatchAlias}, nil
	}

	// Stage 3: multi-signal fuzzy match.
	if match, ok := r.fuzzyMatch(record, normalized); ok {
		if err := r.acceptFuzzy(ctx, record, normalized, match); err != nil {
			return models.Resolution{}, err
		}
		return match.resolution(), nil
	}

	// Stage 4: new fund.
	fund, err := r.createFund(ctx, record, normalized)
	if err != nil {
		return models.Resolution{}, err
	}
	r.metrics.ObserveResolution(string(models.MatchNew))
	return models.Resolution{FundID: fund.ID, MatchType: models.MatchNew}, nil
}

// RemoveAlias reverses one alias binding, the audit action for a fuzzy merge
// that a reviewer rejected. Subsequent resolutions of the text start fresh.
func (r *Resolver) RemoveAlias(ctx context.Context, aliasText, sourceID string) error {
	aliasText = strings.TrimSpace(aliasText)
	if aliasText == "" {
		return dErrors.New(dErrors.CodeValidation, "alias text is required")
	}

	if err := r.store.DeleteAlias(ctx, aliasText, sourceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "alias %q not found", aliasText)
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete alias")
	}

	// The in-memory index collapses (text, source) to text, so rebuild it
	// from the store rather than guessing which binding survived.
	aliases, err := r.store.ListAliases(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "reload aliases")
	}
	r.aliasToID = make(map[string]string, len(aliases))
	for _, alias := range aliases {
		r.indexAlias(alias)
	}
	r.aliasCount = len(aliases)

	r.logger.InfoContext(ctx, "alias removed",
		slog.String("alias_text", aliasText),
		slog.String("source_id", sourceID),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	return nil
}

// Stats reports registry size.
func (r *Resolver) Stats() models.Stats {
	return models.Stats{
		TotalFunds:   len(r.order),
		TotalAliases: r.aliasCount,
	}
}

// fuzzyCandidate is one fund that survived all hard rejections and
// accumulated enough signals.
type fuzzyCandidate struct {
	fundID    string
	tokenSort float64
	standard  float64
	signals   []string
}

func (c fuzzyCandidate) resolution() models.Resolution {
	return models.Resolution{
		FundID:         c.fundID,
		MatchType:      models.MatchFuzzy,
		TokenSortScore: c.tokenSort,
		StandardScore:  c.standard,
		Signals:        c.signals,
	}
}

// fuzzyMatch scans all funds in creation order and returns the qualifying
// candidate with the highest token-sort score. Strictly-greater replacement
// keeps ties on the earliest-created fund, so reruns are deterministic.
func (r *Resolver) fuzzyMatch(record models.CandidateRecord, normalized string) (fuzzyCandidate, bool) {
	nameLower := strings.ToLower(normalized)
	nameNumber := normalize.FundNumber(normalized)
	nameTokens := normalize.DistinctiveTokens(normalized)
	nameKeywords := normalize.StrategyKeywords(normalized)

	gpNorm := strings.ToLower(normalize.GPName(record.GeneralPartner))

	var best fuzzyCandidate
	found := false

	for _, id := range r.order {
		fund := r.funds[id]
		candLower := strings.ToLower(fund.CanonicalName)

		// Different fund-series numbers are different vehicles, full stop.
		// "Fund VIII" similarity to "Fund VII" is always high; the numeral
		// is the only honest discriminator.
		candNumber := normalize.FundNumber(fund.CanonicalName)
		if nameNumber != "" && candNumber != "" && nameNumber != candNumber {
			continue
		}

		// Order-sensitive floor: token-sort scores inflate on names built
		// from the same generic vocabulary in a different order.
		standard := similarity.Ratio(nameLower, candLower)
		if standard < r.cfg.StandardRatioFloor {
			continue
		}

		// Distinctive-token floor: "Blackstone Capital Partners" and
		// "Advent Capital Partners" share everything except the brand.
		candTokens := normalize.DistinctiveTokens(fund.CanonicalName)
		if len(nameTokens) > 0 && len(candTokens) > 0 &&
			similarity.Jaccard(nameTokens, candTokens) < r.cfg.TokenOverlapFloor {
			continue
		}

		// Strategy/geography keywords must agree exactly; a credit vehicle
		// never merges with its equity sibling.
		if !normalize.EqualKeywords(nameKeywords, normalize.StrategyKeywords(fund.CanonicalName)) {
			continue
		}

		tokenSort := similarity.TokenSortRatio(nameLower, candLower)

		var signals []string
		if tokenSort > r.cfg.NameSignalThreshold {
			signals = append(signals, "name")
		}
		if gpNorm != "" && fund.GeneralPartnerNormalized != "" {
			candGP := strings.ToLower(fund.GeneralPartnerNormalized)
			if similarity.LevenshteinRatio(gpNorm, candGP) > r.cfg.GPSimilarityThreshold {
				signals = append(signals, "gp")
			}
		}
		if record.VintageYear != 0 && record.VintageYear == fund.VintageYear {
			signals = append(signals, "vintage")
		}

		if len(signals) < r.cfg.MinSignals || tokenSort <= r.cfg.MinQualifyingScore {
			continue
		}

		if !found || tokenSort > best.tokenSort {
			best = fuzzyCandidate{
				fundID:    id,
				tokenSort: tokenSort,
				standard:  standard,
				signals:   signals,
			}
			found = true
		}
	}

	return best, found
}

// acceptFuzzy persists the match as alias bindings, queues it for review,
// and backfills the fund from the record's signals.
func (r *Resolver) acceptFuzzy(ctx context.Context, record models.CandidateRecord, normalized string, match fuzzyCandidate) error {
	fund := r.funds[match.fundID]

	if err := r.addAlias(ctx, match.fundID, record.FundNameRaw, record.SourceID); err != nil {
		return err
	}
	if !strings.EqualFold(normalized, record.FundNameRaw) {
		if err := r.addAlias(ctx, match.fundID, normalized, record.SourceID); err != nil {
			return err
		}
	}

	if err := r.backfill(ctx, match.fundID, record); err != nil {
		return err
	}

	item := review.Item{
		RawName:        record.FundNameRaw,
		SourceID:       record.SourceID,
		FundID:         match.fundID,
		CanonicalName:  fund.CanonicalName,
		TokenSortScore: match.tokenSort,
		StandardScore:  match.standard,
		Signals:        match.signals,
		MatchedAt:      requestcontext.Now(ctx),
	}
	if err := r.review.Publish(ctx, item); err != nil {
		// Review delivery is best effort; the match itself already stands.
		r.logger.ErrorContext(ctx, "review publish failed",
			slog.String("raw_name", record.FundNameRaw),
			slog.String("error", err.Error()),
		)
	}

	r.logger.WarnContext(ctx, "fuzzy match accepted",
		slog.String("raw_name", record.FundNameRaw),
		slog.String("fund_id", match.fundID),
		slog.String("canonical_name", fund.CanonicalName),
		slog.Float64("token_sort_score", match.tokenSort),
		slog.Float64("standard_score", match.standard),
		slog.Any("signals", match.signals),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)

	r.metrics.ObserveResolution(string(models.MatchFuzzy))
	r.metrics.ObserveFuzzyScore(match.tokenSort)
	return nil
}

func (r *Resolver) createFund(ctx context.Context, record models.CandidateRecord, normalized string) (models.Fund, error) {
	canonical := normalized
	if canonical == "" {
		canonical = record.FundNameRaw
	}

	gp := strings.TrimSpace(record.GeneralPartner)
	if gp == "" {
		gp = normalize.InferGP(record.FundNameRaw)
	}

	now := requestcontext.Now(ctx)

	vintage := 0
	if normalize.ValidVintage(record.VintageYear, now) {
		vintage = record.VintageYear
	}

	assetClass, subStrategy := normalize.ClassifyStrategy(record.FundNameRaw)

	fund := models.Fund{
		ID:                       uuid.NewString(),
		CanonicalName:            canonical,
		RawNameFirstSeen:         record.FundNameRaw,
		GeneralPartner:           gp,
		GeneralPartnerNormalized: normalize.GPName(gp),
		VintageYear:              vintage,
		AssetClass:               assetClass,
		SubStrategy:              subStrategy,
		CreatedAt:                now,
	}

	if err := r.store.UpsertFund(ctx, fund); err != nil {
		return models.Fund{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "persist fund")
	}
	r.indexFund(fund)

	if err := r.addAlias(ctx, fund.ID, record.FundNameRaw, record.SourceID); err != nil {
		return models.Fund{}, err
	}

	r.logger.InfoContext(ctx, "fund created",
		slog.String("fund_id", fund.ID),
		slog.String("canonical_name", fund.CanonicalName),
		slog.String("general_partner", fund.GeneralPartner),
		slog.Int("vintage_year", fund.VintageYear),
		slog.String("asset_class", fund.AssetClass),
		slog.String("sub_strategy", fund.SubStrategy),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
	r.metrics.FundCreated()
	return fund, nil
}

// backfill fills a matched fund's unknown fields from the record's signals.
// Known fields are never overwritten; conflicting observations go to review,
// not into the record.
func (r *Resolver) backfill(ctx context.Context, fundID string, record models.CandidateRecord) error {
	fund := r.funds[fundID]
	changed := false

	if gp := strings.TrimSpace(record.GeneralPartner); gp != "" && fund.GeneralPartner == "" {
		fund.GeneralPartner = gp
		fund.GeneralPartnerNormalized = normalize.GPName(gp)
		changed = true
	}
	if fund.VintageYear == 0 && normalize.ValidVintage(record.VintageYear, requestcontext.Now(ctx)) {
		fund.VintageYear = record.VintageYear
		changed = true
	}
	if fund.SubStrategy == "" {
		if assetClass, subStrategy := normalize.ClassifyStrategy(record.FundNameRaw); subStrategy != "" {
			fund.AssetClass = assetClass
			fund.SubStrategy = subStrategy
			changed = true
		}
	}

	if !changed {
		return nil
	}
	if err := r.store.UpsertFund(ctx, fund); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "backfill fund")
	}
	r.funds[fundID] = fund
	return nil
}

func (r *Resolver) addAlias(ctx context.Context, fundID, aliasText, sourceID string) error {
	alias := models.Alias{
		ID:        uuid.NewString(),
		FundID:    fundID,
		AliasText: aliasText,
		SourceID:  sourceID,
		CreatedAt: requestcontext.Now(ctx),
	}
	id, err := r.store.AddAlias(ctx, alias)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "persist alias")
	}
	if id == alias.ID {
		r.aliasCount++
		r.metrics.AliasCreated()
	}

	key := strings.ToLower(aliasText)
	if _, exists := r.aliasToID[key]; !exists {
		r.aliasToID[key] = fundID
	}
	return nil
}

func (r *Resolver) logMatch(ctx context.Context, raw, fundID string, matchType models.MatchType) {
	r.logger.DebugContext(ctx, "record resolved",
		slog.String("raw_name", raw),
		slog.String("fund_id", fundID),
		slog.String("match_type", string(matchType)),
		slog.String("request_id", requestcontext.RequestID(ctx)),
	)
}

func (r *Resolver) indexFund(fund models.Fund) {
	if _, exists := r.funds[fund.ID]; !exists {
		r.order = append(r.order, fund.ID)
	}
	r.funds[fund.ID] = fund
	r.nameToID[strings.ToLower(fund.CanonicalName)] = fund.ID
}

func (r *Resolver) indexAlias(alias models.Alias) {
	key := strings.ToLower(alias.AliasText)
	if _, exists := r.aliasToID[key]; !exists {
		r.aliasToID[key] = alias.FundID
	}
}

func (r *Resolver) lookupAlias(raw, normalized string) (string, bool) {
	if id, ok := r.aliasToID[strings.ToLower(raw)]; ok {
		return id, true
	}
	if id, ok := r.aliasToID[strings.ToLower(normalized)]; ok {
		return id, true
	}
	return "", false
}
