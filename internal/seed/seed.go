// Package seed loads starter vendors and categorization rules from a JSON
// file. The API never writes vendors or rules; the seed command is the one
// maintained path into those tables.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmartins/centsible/internal/rule"
	"github.com/mmartins/centsible/internal/vendors"
)

//go:generate mockgen -source=seed.go -destination=writer_mock.go -package=seed

// VendorWriter persists vendor records.
type VendorWriter interface {
	UpsertVendor(ctx context.Context, v *vendor.Vendor) error
}

// RuleWriter appends categorization rules.
type RuleWriter interface {
	CreateRule(ctx context.Context, r *rule.Rule) error
}

// File is the on-disk seed format.
type File struct {
	Vendors []VendorEntry `json:"vendors"`
	Rules   []RuleEntry   `json:"rules"`
}

type VendorEntry struct {
	CanonicalName      string   `json:"canonical_name"`
	DefaultCategory    string   `json:"default_category,omitempty"`
	DefaultSubcategory string   `json:"default_subcategory,omitempty"`
	Aliases            []string `json:"aliases,omitempty"`
}

// RuleEntry uses the same condition mapping form the rules table stores.
type RuleEntry struct {
	Priority  int            `json:"priority"`
	Condition rule.Condition `json:"condition"`
	Action    rule.Action    `json:"action"`
	Active    *bool          `json:"active,omitempty"` // nil defaults to true
}

// Load parses a seed file.
func Load(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	return &f, nil
}

// Result counts what Apply wrote.
type Result struct {
	Vendors int
	Rules   int
}

type Service struct {
	vendors VendorWriter
	rules   RuleWriter
}

func NewService(vendors VendorWriter, rules RuleWriter) *Service {
	return &Service{vendors: vendors, rules: rules}
}

// Apply upserts every vendor and appends every rule, stopping at the first
// failure. Re-running a seed file is safe: vendors upsert by canonical name
// and duplicate rules only add lower-priority copies.
func (s *Service) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result

	for _, entry := range f.Vendors {
		if entry.CanonicalName == "" {
			return res, fmt.Errorf("vendor entry %d: canonical_name is required", res.Vendors)
		}

		v := &vendor.Vendor{
			CanonicalName:      entry.CanonicalName,
			DefaultCategory:    entry.DefaultCategory,
			DefaultSubcategory: entry.DefaultSubcategory,
			Aliases:            entry.Aliases,
		}

		if err := s.vendors.UpsertVendor(ctx, v); err != nil {
			return res, fmt.Errorf("seeding vendor %q: %w", entry.CanonicalName, err)
		}

		res.Vendors++
	}

	for _, entry := range f.Rules {
		if entry.Action.Category == "" {
			return res, fmt.Errorf("rule entry %d: action.category is required", res.Rules)
		}

		active := true
		if entry.Active != nil {
			active = *entry.Active
		}

		r := &rule.Rule{
			Priority:  entry.Priority,
			Condition: entry.Condition,
			Action:    entry.Action,
			Active:    active,
		}

		if err := s.rules.CreateRule(ctx, r); err != nil {
			return res, fmt.Errorf("seeding rule %d: %w", res.Rules, err)
		}

		res.Rules++
	}

	return res, nil
}
