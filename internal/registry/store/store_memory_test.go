package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fundregistry/internal/registry/models"
	"fundregistry/internal/registry/store"
)

type InMemorySuite struct {
	suite.Suite
	ctx   context.Context
	store *store.InMemory
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
}

func (s *InMemorySuite) fund(id, name string) models.Fund {
	return models.Fund{
		ID:            id,
		CanonicalName: name,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *InMemorySuite) TestListFundsPreservesCreationOrder() {
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f1", "Alpha Fund I")))
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f2", "Beta Fund II")))
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f3", "Gamma Fund III")))

	funds, err := s.store.ListFunds(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(funds, 3)
	s.Equal([]string{"f1", "f2", "f3"}, []string{funds[0].ID, funds[1].ID, funds[2].ID})
}

func (s *InMemorySuite) TestUpsertFundReplacesWithoutReordering() {
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f1", "Alpha Fund I")))
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f2", "Beta Fund II")))

	updated := s.fund("f1", "Alpha Fund I")
	updated.VintageYear = 2019
	s.Require().NoError(s.store.UpsertFund(s.ctx, updated))

	funds, err := s.store.ListFunds(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(funds, 2)
	s.Equal("f1", funds[0].ID)
	s.Equal(2019, funds[0].VintageYear)
}

func (s *InMemorySuite) TestAddAliasIdempotentPerSource() {
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f1", "Alpha Fund I")))

	first := models.Alias{ID: "a1", FundID: "f1", AliasText: "Alpha Fd I", SourceID: "calpers"}
	id, err := s.store.AddAlias(s.ctx, first)
	s.Require().NoError(err)
	s.Equal("a1", id)

	// Same text and source again: the existing binding wins.
	dup := models.Alias{ID: "a2", FundID: "f1", AliasText: "Alpha Fd I", SourceID: "calpers"}
	id, err = s.store.AddAlias(s.ctx, dup)
	s.Require().NoError(err)
	s.Equal("a1", id)

	// Same text from a different source is a distinct binding.
	other := models.Alias{ID: "a3", FundID: "f1", AliasText: "Alpha Fd I", SourceID: "calstrs"}
	id, err = s.store.AddAlias(s.ctx, other)
	s.Require().NoError(err)
	s.Equal("a3", id)

	aliases, err := s.store.ListAliases(s.ctx)
	s.Require().NoError(err)
	s.Len(aliases, 2)
}

func (s *InMemorySuite) TestDeleteAlias() {
	s.Require().NoError(s.store.UpsertFund(s.ctx, s.fund("f1", "Alpha Fund I")))
	_, err := s.store.AddAlias(s.ctx, models.Alias{ID: "a1", FundID: "f1", AliasText: "Alpha Fd I", SourceID: "calpers"})
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteAlias(s.ctx, "Alpha Fd I", "calpers"))

	aliases, err := s.store.ListAliases(s.ctx)
	s.Require().NoError(err)
	s.Empty(aliases)

	err = s.store.DeleteAlias(s.ctx, "Alpha Fd I", "calpers")
	s.ErrorIs(err, store.ErrNotFound)
}
