package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fundregistry/internal/registry/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS funds (
	id UUID PRIMARY KEY,
	canonical_name TEXT NOT NULL,
	raw_name_first_seen TEXT NOT NULL,
	general_partner TEXT,
	general_partner_normalized TEXT,
	vintage_year INT,
	asset_class TEXT,
	sub_strategy TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS fund_aliases (
	id UUID PRIMARY KEY,
	fund_id UUID NOT NULL REFERENCES funds(id),
	alias_text TEXT NOT NULL,
	source_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (alias_text, source_id)
);
`

// Postgres persists the registry in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the schema if missing. Safe to run repeatedly.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate registry schema: %w", err)
	}
	return nil
}

func (s *Postgres) ListFunds(ctx context.Context) ([]models.Fund, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, canonical_name, raw_name_first_seen, general_partner,
		       general_partner_normalized, vintage_year, asset_class,
		       sub_strategy, created_at
		FROM funds
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		var (
			fund    models.Fund
			gp      sql.NullString
			gpNorm  sql.NullString
			vintage sql.NullInt32
			class   sql.NullString
			sub     sql.NullString
		)
		if err := rows.Scan(&fund.ID, &fund.CanonicalName, &fund.RawNameFirstSeen,
			&gp, &gpNorm, &vintage, &class, &sub, &fund.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fund: %w", err)
		}
		fund.GeneralPartner = gp.String
		fund.GeneralPartnerNormalized = gpNorm.String
		fund.VintageYear = int(vintage.Int32)
		fund.AssetClass = class.String
		fund.SubStrategy = sub.String
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	return funds, nil
}

func (s *Postgres) ListAliases(ctx context.Context) ([]models.Alias, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fund_id, alias_text, source_id, created_at
		FROM fund_aliases
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []models.Alias
	for rows.Next() {
		var alias models.Alias
		if err := rows.Scan(&alias.ID, &alias.FundID, &alias.AliasText,
			&alias.SourceID, &alias.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	return aliases, nil
}

func (s *Postgres) UpsertFund(ctx context.Context, fund models.Fund) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO funds (id, canonical_name, raw_name_first_seen,
			general_partner, general_partner_normalized, vintage_year,
			asset_class, sub_strategy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			canonical_name = EXCLUDED.canonical_name,
			general_partner = EXCLUDED.general_partner,
			general_partner_normalized = EXCLUDED.general_partner_normalized,
			vintage_year = EXCLUDED.vintage_year,
			asset_class = EXCLUDED.asset_class,
			sub_strategy = EXCLUDED.sub_strategy`,
		fund.ID, fund.CanonicalName, fund.RawNameFirstSeen,
		nullString(fund.GeneralPartner), nullString(fund.GeneralPartnerNormalized),
		nullInt(fund.VintageYear), nullString(fund.AssetClass),
		nullString(fund.SubStrategy), fund.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert fund: %w", err)
	}
	return nil
}

func (s *Postgres) AddAlias(ctx context.Context, alias models.Alias) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO fund_aliases (id, fund_id, alias_text, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (alias_text, source_id) DO NOTHING
		RETURNING id`,
		alias.ID, alias.FundID, alias.AliasText, alias.SourceID, alias.CreatedAt).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("add alias: %w", err)
	}

	// Conflict: the binding already exists; return its id without
	// repointing it.
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM fund_aliases WHERE alias_text = $1 AND source_id = $2`,
		alias.AliasText, alias.SourceID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("find existing alias: %w", err)
	}
	return id, nil
}

func (s *Postgres) DeleteAlias(ctx context.Context, aliasText, sourceID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM fund_aliases WHERE alias_text = $1 AND source_id = $2`,
		aliasText, sourceID)
	if err != nil {
		return fmt.Errorf("delete alias: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete alias: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullInt(value int) sql.NullInt32 {
	if value == 0 {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(value), Valid: true}
}
