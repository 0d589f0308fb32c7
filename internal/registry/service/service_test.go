package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fundregistry/internal/registry/config"
	"fundregistry/internal/registry/models"
	"fundregistry/internal/registry/service"
	"fundregistry/internal/registry/store"
	"fundregistry/internal/review"
	dErrors "fundregistry/pkg/domain-errors"
	"fundregistry/pkg/requestcontext"
)

type ResolverSuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemory
	reviewed *review.MemoryPublisher
	resolver *service.Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = store.NewInMemory()
	s.reviewed = review.NewMemoryPublisher()

	var err error
	s.resolver, err = service.New(s.ctx, s.store, config.Default(),
		service.WithLogger(quietLogger()),
		service.WithReviewPublisher(s.reviewed),
	)
	s.Require().NoError(err)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ResolverSuite) resolve(record models.CandidateRecord) models.Resolution {
	res, err := s.resolver.Resolve(s.ctx, record)
	s.Require().NoError(err)
	return res
}

func (s *ResolverSuite) storedFund(id string) models.Fund {
	funds, err := s.store.ListFunds(s.ctx)
	s.Require().NoError(err)
	for _, fund := range funds {
		if fund.ID == id {
			return fund
		}
	}
	s.Require().FailNow("fund not in store", "id=%s", id)
	return models.Fund{}
}

func (s *ResolverSuite) TestEmptyNameRejected() {
	_, err := s.resolver.Resolve(s.ctx, models.CandidateRecord{FundNameRaw: "   "})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ResolverSuite) TestNewFundDerivesFields() {
	res := s.resolve(models.CandidateRecord{
		FundNameRaw: "Blackstone Real Estate Prtrs IX, L.P.",
		VintageYear: 2019,
		SourceID:    "calpers-2019",
	})
	s.Equal(models.MatchNew, res.MatchType)

	fund := s.storedFund(res.FundID)
	s.Equal("Blackstone Real Estate Partners IX", fund.CanonicalName)
	s.Equal("Blackstone Real Estate Prtrs IX, L.P.", fund.RawNameFirstSeen)
	s.Equal("Blackstone Real Estate Prtrs", fund.GeneralPartner)
	s.Equal(2019, fund.VintageYear)
	s.Equal("Real Assets", fund.AssetClass)
	s.Equal("Real Estate", fund.SubStrategy)
}

func (s *ResolverSuite) TestExactMatchOnNormalizedName() {
	created := s.resolve(models.CandidateRecord{FundNameRaw: "KKR Americas Fund XII, L.P."})

	s.Run("same raw string resolves exact", func() {
		res := s.resolve(models.CandidateRecord{FundNameRaw: "KKR Americas Fund XII, L.P."})
		s.Equal(models.MatchExact, res.MatchType)
		s.Equal(created.FundID, res.FundID)
	})

	s.Run("suffix variant resolves exact", func() {
		res := s.resolve(models.CandidateRecord{FundNameRaw: "KKR Americas Fund XII LP"})
		s.Equal(models.MatchExact, res.MatchType)
		s.Equal(created.FundID, res.FundID)
	})
}

func (s *ResolverSuite) TestFuzzyMatchReorderedName() {
	created := s.resolve(models.CandidateRecord{
		FundNameRaw:    "KKR Americas Fund XII, L.P.",
		GeneralPartner: "KKR",
		VintageYear:    2017,
		SourceID:       "calstrs",
	})

	res := s.resolve(models.CandidateRecord{
		FundNameRaw:    "KKR Americas XII Fund",
		GeneralPartner: "KKR",
		VintageYear:    2017,
		SourceID:       "nycrs",
	})
	s.Equal(models.MatchFuzzy, res.MatchType)
	s.Equal(created.FundID, res.FundID)
	s.InDelta(1.0, res.TokenSortScore, 0.001)
	s.InDelta(0.8095, res.StandardScore, 0.001)
	s.ElementsMatch([]string{"name", "gp", "vintage"}, res.Signals)

	items := s.reviewed.Items()
	s.Require().Len(items, 1)
	s.Equal("KKR Americas XII Fund", items[0].RawName)
	s.Equal(created.FundID, items[0].FundID)
	s.Equal("KKR Americas Fund XII", items[0].CanonicalName)
}

func (s *ResolverSuite) TestFuzzyMatchPromotedToAlias() {
	s.resolve(models.CandidateRecord{
		FundNameRaw:    "Apollo Investment Fund IX, L.P.",
		GeneralPartner: "Apollo Investment",
		VintageYear:    2017,
	})

	first := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Apollo Investment Fund No. IX",
		GeneralPartner: "Apollo Investment",
		VintageYear:    2017,
	})
	s.Equal(models.MatchFuzzy, first.MatchType)
	s.InDelta(0.9259, first.StandardScore, 0.001)

	second := s.resolve(models.CandidateRecord{
		FundNameRaw: "Apollo Investment Fund No. IX",
	})
	s.Equal(models.MatchAlias, second.MatchType)
	s.Equal(first.FundID, second.FundID)

	// Only the first pass is probabilistic, so only it is reviewed.
	s.Len(s.reviewed.Items(), 1)
}

func (s *ResolverSuite) TestFundNumberConflictBlocksMerge() {
	first := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Blackstone Capital Partners VII",
		GeneralPartner: "Blackstone",
		VintageYear:    2015,
	})
	second := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Blackstone Capital Partners VIII",
		GeneralPartner: "Blackstone",
		VintageYear:    2015,
	})
	s.Equal(models.MatchNew, second.MatchType)
	s.NotEqual(first.FundID, second.FundID)
}

func (s *ResolverSuite) TestSeriesSiblingsStayDistinct() {
	first := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Warburg Pincus Private Equity XI",
		GeneralPartner: "Warburg Pincus",
		VintageYear:    2012,
	})
	second := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Warburg Pincus Private Equity XII",
		GeneralPartner: "Warburg Pincus",
		VintageYear:    2012,
	})
	s.Equal(models.MatchNew, second.MatchType)
	s.NotEqual(first.FundID, second.FundID)
}

func (s *ResolverSuite) TestStrategyKeywordMismatchBlocksMerge() {
	first := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Ares Capital Europe V",
		GeneralPartner: "Ares Management",
		VintageYear:    2018,
	})
	second := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Ares Capital V",
		GeneralPartner: "Ares Management",
		VintageYear:    2018,
	})
	s.Equal(models.MatchNew, second.MatchType)
	s.NotEqual(first.FundID, second.FundID)
}

func (s *ResolverSuite) TestDistinctiveTokenMismatchBlocksMerge() {
	// GP and vintage collide (a real failure mode in sloppy disclosures);
	// only the brand tokens tell these apart.
	first := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Blackstone Capital Partners VII",
		GeneralPartner: "Acme Advisors",
		VintageYear:    2015,
	})
	second := s.resolve(models.CandidateRecord{
		FundNameRaw:    "Advent Capital Partners VII",
		GeneralPartner: "Acme Advisors",
		VintageYear:    2015,
	})
	s.Equal(models.MatchNew, second.MatchType)
	s.NotEqual(first.FundID, second.FundID)
}

func (s *ResolverSuite) TestSingleSignalInsufficient() {
	s.resolve(models.CandidateRecord{
		FundNameRaw: "KKR Americas Fund XII",
	})
	res := s.resolve(models.CandidateRecord{
		FundNameRaw: "KKR Americas XII Fund",
	})
	s.Equal(models.MatchNew, res.MatchType)
}

func (s *ResolverSuite) TestVintageBackfill() {
	created := s.resolve(models.CandidateRecord{FundNameRaw: "Thoma Bravo Fund XIV"})
	s.Equal(0, s.storedFund(created.FundID).VintageYear)

	s.resolve(models.CandidateRecord{FundNameRaw: "Thoma Bravo Fund XIV", VintageYear: 2020})
	s.Equal(2020, s.storedFund(created.FundID).VintageYear)

	// Known values are never overwritten.
	s.resolve(models.CandidateRecord{FundNameRaw: "Thoma Bravo Fund XIV", VintageYear: 2021})
	s.Equal(2020, s.storedFund(created.FundID).VintageYear)
}

func (s *ResolverSuite) TestImplausibleVintageIgnored() {
	res := s.resolve(models.CandidateRecord{
		FundNameRaw: "Hellman & Friedman Capital Partners X",
		VintageYear: 1898,
	})
	s.Equal(0, s.storedFund(res.FundID).VintageYear)

	s.resolve(models.CandidateRecord{
		FundNameRaw: "Hellman & Friedman Capital Partners X",
		VintageYear: 2099,
	})
	s.Equal(0, s.storedFund(res.FundID).VintageYear)
}

func (s *ResolverSuite) TestRemoveAliasReversesMerge() {
	s.resolve(models.CandidateRecord{
		FundNameRaw:    "KKR Americas Fund XII, L.P.",
		GeneralPartner: "KKR",
		VintageYear:    2017,
		SourceID:       "calstrs",
	})
	matched := s.resolve(models.CandidateRecord{
		FundNameRaw:    "KKR Americas XII Fund",
		GeneralPartner: "KKR",
		VintageYear:    2017,
		SourceID:       "nycrs",
	})
	s.Require().Equal(models.MatchFuzzy, matched.MatchType)

	err := s.resolver.RemoveAlias(s.ctx, "KKR Americas XII Fund", "nycrs")
	s.Require().NoError(err)

	// With the binding gone the text is evaluated from scratch.
	again := s.resolve(models.CandidateRecord{
		FundNameRaw:    "KKR Americas XII Fund",
		GeneralPartner: "KKR",
		VintageYear:    2017,
		SourceID:       "nycrs",
	})
	s.Equal(models.MatchFuzzy, again.MatchType)
}

func (s *ResolverSuite) TestRemoveAliasNotFound() {
	err := s.resolver.RemoveAlias(s.ctx, "No Such Fund IV", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ResolverSuite) TestStats() {
	s.resolve(models.CandidateRecord{FundNameRaw: "Vista Equity Partners Fund VII"})
	s.resolve(models.CandidateRecord{
		FundNameRaw:    "Vista Equity Partners Fund VIII",
		GeneralPartner: "Vista Equity Partners",
	})

	stats := s.resolver.Stats()
	s.Equal(2, stats.TotalFunds)
	s.Equal(2, stats.TotalAliases)
}

func (s *ResolverSuite) TestReloadFromStore() {
	created := s.resolve(models.CandidateRecord{
		FundNameRaw: "Carlyle Partners Growth Fund V, L.P.",
		VintageYear: 2021,
	})

	reloaded, err := service.New(s.ctx, s.store, config.Default(),
		service.WithLogger(quietLogger()),
	)
	s.Require().NoError(err)

	res, err := reloaded.Resolve(s.ctx, models.CandidateRecord{
		FundNameRaw: "Carlyle Partners Growth Fund V, L.P.",
	})
	s.Require().NoError(err)
	s.Equal(models.MatchExact, res.MatchType)
	s.Equal(created.FundID, res.FundID)
}

func (s *ResolverSuite) TestStoreFailureIsUnavailable() {
	failing := &failingStore{InMemory: s.store}
	resolver, err := service.New(s.ctx, failing, config.Default(),
		service.WithLogger(quietLogger()),
	)
	s.Require().NoError(err)

	failing.failWrites = true
	_, err = resolver.Resolve(s.ctx, models.CandidateRecord{FundNameRaw: "Bain Capital Fund XIII"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

type failingStore struct {
	*store.InMemory
	failWrites bool
}

func (f *failingStore) UpsertFund(ctx context.Context, fund models.Fund) error {
	if f.failWrites {
		return errors.New("connection refused")
	}
	return f.InMemory.UpsertFund(ctx, fund)
}
