package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmartins/centsible/internal/vendors"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectVendorColumns = `canonical_name, default_category, default_subcategory, aliases`

type scanner interface {
	Scan(dest ...any) error
}

func scanVendor(row scanner) (*vendor.Vendor, error) {
	var (
		v           vendor.Vendor
		category    sql.NullString
		subcategory sql.NullString
		aliasesJSON []byte
	)

	if err := row.Scan(&v.CanonicalName, &category, &subcategory, &aliasesJSON); err != nil {
		return nil, err
	}

	v.DefaultCategory = category.String
	v.DefaultSubcategory = subcategory.String

	if len(aliasesJSON) > 0 {
		if err := json.Unmarshal(aliasesJSON, &v.Aliases); err != nil {
			return nil, fmt.Errorf("decoding aliases of vendor %q: %w", v.CanonicalName, err)
		}
	}

	return &v, nil
}

func (s *Store) FindByName(ctx context.Context, name string) (*vendor.Vendor, error) {
	query := `
		SELECT ` + selectVendorColumns + `
		FROM vendors
		WHERE canonical_name = $1
	`

	v, err := scanVendor(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding vendor %q: %w", name, err)
	}

	return v, nil
}

func (s *Store) FindByNameFold(ctx context.Context, name string) (*vendor.Vendor, error) {
	query := `
		SELECT ` + selectVendorColumns + `
		FROM vendors
		WHERE UPPER(canonical_name) = UPPER($1)
	`

	v, err := scanVendor(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding vendor %q: %w", name, err)
	}

	return v, nil
}

func (s *Store) ListVendors(ctx context.Context) ([]*vendor.Vendor, error) {
	query := `
		SELECT ` + selectVendorColumns + `
		FROM vendors
		ORDER BY canonical_name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*vendor.Vendor

	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}

		vendors = append(vendors, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vendor rows: %w", err)
	}

	return vendors, nil
}

// UpsertVendor creates a vendor or refreshes its defaults and aliases.
func (s *Store) UpsertVendor(ctx context.Context, v *vendor.Vendor) error {
	aliasesJSON, err := json.Marshal(v.Aliases)
	if err != nil {
		return fmt.Errorf("encoding aliases: %w", err)
	}

	query := `
		INSERT INTO vendors (canonical_name, default_category, default_subcategory, aliases)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (canonical_name) DO UPDATE SET
			default_category = EXCLUDED.default_category,
			default_subcategory = EXCLUDED.default_subcategory,
			aliases = EXCLUDED.aliases
	`

	if _, err := s.db.ExecContext(ctx, query,
		v.CanonicalName, nullable(v.DefaultCategory), nullable(v.DefaultSubcategory), aliasesJSON); err != nil {
		return fmt.Errorf("upserting vendor %q: %w", v.CanonicalName, err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
