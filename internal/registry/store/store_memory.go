package store

import (
	"context"
	"sync"

	"fundregistry/internal/registry/models"
)

// InMemory is a map-backed Store for tests and local runs. It preserves
// fund insertion order so resolution is deterministic across runs.
type InMemory struct {
	mu      sync.RWMutex
	funds   map[string]models.Fund
	order   []string
	aliases map[aliasKey]models.Alias
	seq     []aliasKey
}

type aliasKey struct {
	text   string
	source string
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		funds:   make(map[string]models.Fund),
		aliases: make(map[aliasKey]models.Alias),
	}
}

func (s *InMemory) ListFunds(_ context.Context) ([]models.Fund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Fund, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.funds[id])
	}
	return out, nil
}

func (s *InMemory) ListAliases(_ context.Context) ([]models.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alias, 0, len(s.seq))
	for _, key := range s.seq {
		out = append(out, s.aliases[key])
	}
	return out, nil
}

func (s *InMemory) UpsertFund(_ context.Context, fund models.Fund) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.funds[fund.ID]; !exists {
		s.order = append(s.order, fund.ID)
	}
	s.funds[fund.ID] = fund
	return nil
}

func (s *InMemory) AddAlias(_ context.Context, alias models.Alias) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := aliasKey{text: alias.AliasText, source: alias.SourceID}
	if existing, ok := s.aliases[key]; ok {
		return existing.ID, nil
	}
	s.aliases[key] = alias
	s.seq = append(s.seq, key)
	return alias.ID, nil
}

func (s *InMemory) DeleteAlias(_ context.Context, aliasText, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := aliasKey{text: aliasText, source: sourceID}
	if _, ok := s.aliases[key]; !ok {
		return ErrNotFound
	}
	delete(s.aliases, key)
	for i, k := range s.seq {
		if k == key {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			break
		}
	}
	return nil
}
