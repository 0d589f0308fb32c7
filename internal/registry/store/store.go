// Package store is the registry's persistence boundary. Stores are
// interface-driven so the resolver stays testable and persistence can be
// swapped without rewiring business code.
package store

import (
	"context"
	"errors"

	"fundregistry/internal/registry/models"
)

var (
	// ErrNotFound keeps store-level misses consistent across
	// implementations.
	ErrNotFound = errors.New("record not found")
)

// Store persists funds and aliases. The resolver bulk-loads once at
// construction and writes through; it never re-reads mid-run, so
// implementations only need per-call consistency.
type Store interface {
	// ListFunds returns all funds in creation order. Ordering is
	// load-bearing: the resolver's fuzzy tie-breaking follows it.
	ListFunds(ctx context.Context) ([]models.Fund, error)

	// ListAliases returns all aliases.
	ListAliases(ctx context.Context) ([]models.Alias, error)

	// UpsertFund inserts or replaces a fund, idempotent by ID.
	UpsertFund(ctx context.Context, fund models.Fund) error

	// AddAlias inserts an alias, idempotent by (alias_text, source_id):
	// a duplicate insert returns the existing alias's ID without touching
	// the existing binding.
	AddAlias(ctx context.Context, alias models.Alias) (string, error)

	// DeleteAlias removes one alias binding; this is the audit action that
	// reverses a bad fuzzy merge. Returns ErrNotFound when absent.
	DeleteAlias(ctx context.Context, aliasText, sourceID string) error
}
