package vendor

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:generate mockgen -source=normalizer.go -destination=repository_mock.go -package=vendor
type Repository interface {
	// FindByName matches the canonical vendor name exactly. A miss is
	// (nil, nil), not an error.
	FindByName(ctx context.Context, name string) (*Vendor, error)
	// FindByNameFold matches the canonical vendor name case-insensitively.
	FindByNameFold(ctx context.Context, name string) (*Vendor, error)
	ListVendors(ctx context.Context) ([]*Vendor, error)
}

// cleanupPatterns strip processor noise from descriptors. Order matters:
// prefixes first, store numbers next, whitespace collapse last.
var cleanupPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)TST\*`), ""},          // Toast
	{regexp.MustCompile(`(?i)SQ\s*\*`), ""},        // Square
	{regexp.MustCompile(`(?i)PP\*`), ""},           // PayPal
	{regexp.MustCompile(`(?i)SP\s*\*`), ""},        // Shopify
	{regexp.MustCompile(`(?i)\s*#\d+`), ""},        // " #1234"
	{regexp.MustCompile(`(?i)\s+STORE\s+\d+`), ""}, // "STORE 123"
	{regexp.MustCompile(`\s+\d{3,5}\s*$`), ""},     // trailing store numbers
	{regexp.MustCompile(`\s{2,}`), " "},
}

const cleanCacheSize = 1024

// Normalizer resolves raw transaction descriptors to canonical vendor
// names. It never fails: lookup errors degrade to "no match" so vendor
// resolution can never block ingestion.
type Normalizer struct {
	repo       Repository
	cleanCache *lru.Cache[string, string]
}

func NewNormalizer(repo Repository) *Normalizer {
	// Construction only fails for a non-positive size.
	cache, _ := lru.New[string, string](cleanCacheSize)

	return &Normalizer{repo: repo, cleanCache: cache}
}

// Clean uppercases the descriptor and strips processor prefixes, store
// numbers and duplicate whitespace. Idempotent, memoized per raw input.
func (n *Normalizer) Clean(descriptor string) string {
	if cached, ok := n.cleanCache.Get(descriptor); ok {
		return cached
	}

	cleaned := strings.TrimSpace(strings.ToUpper(descriptor))
	for _, p := range cleanupPatterns {
		cleaned = p.re.ReplaceAllString(cleaned, p.replacement)
	}

	cleaned = strings.TrimSpace(cleaned)
	n.cleanCache.Add(descriptor, cleaned)

	return cleaned
}

// Normalize maps a raw descriptor to a canonical vendor name, or "" when
// nothing matches. The cascade tries, in order: exact name,
// case-insensitive name, cleaned name, exact alias, case-insensitive
// alias, cleaned alias, and finally fuzzy containment between the cleaned
// descriptor and the canonical name.
func (n *Normalizer) Normalize(ctx context.Context, rawDescriptor string) string {
	if rawDescriptor == "" {
		return ""
	}

	upper := strings.ToUpper(rawDescriptor)
	cleaned := n.Clean(rawDescriptor)

	if v := n.lookup(ctx, rawDescriptor, upper, cleaned); v != "" {
		return v
	}

	slog.Debug("no vendor match", "raw", rawDescriptor, "cleaned", cleaned)

	return ""
}

func (n *Normalizer) lookup(ctx context.Context, raw, upper, cleaned string) string {
	// 1. Exact canonical name.
	if v, err := n.repo.FindByName(ctx, raw); err != nil {
		return n.swallow(raw, err)
	} else if v != nil {
		return n.matched(raw, v, "exact")
	}

	// 2. Case-insensitive canonical name.
	if v, err := n.repo.FindByNameFold(ctx, raw); err != nil {
		return n.swallow(raw, err)
	} else if v != nil {
		return n.matched(raw, v, "case_insensitive")
	}

	// 3. Cleaned descriptor vs canonical name, only when cleaning changed it.
	if cleaned != upper {
		if v, err := n.repo.FindByNameFold(ctx, cleaned); err != nil {
			return n.swallow(raw, err)
		} else if v != nil {
			return n.matched(raw, v, "cleaned")
		}
	}

	vendors, err := n.repo.ListVendors(ctx)
	if err != nil {
		return n.swallow(raw, err)
	}

	// 4-6. Alias matching: exact, case-insensitive, cleaned.
	for _, v := range vendors {
		for _, alias := range v.Aliases {
			switch {
			case alias == raw:
				return n.matched(raw, v, "alias_exact")
			case strings.ToUpper(alias) == upper:
				return n.matched(raw, v, "alias_case_insensitive")
			case n.Clean(alias) == cleaned:
				return n.matched(raw, v, "alias_cleaned")
			}
		}
	}

	// 7. Fuzzy containment either direction on the cleaned descriptor.
	for _, v := range vendors {
		nameUpper := strings.ToUpper(v.CanonicalName)
		if strings.Contains(cleaned, nameUpper) || strings.Contains(nameUpper, cleaned) {
			return n.matched(raw, v, "fuzzy")
		}
	}

	return ""
}

func (n *Normalizer) matched(raw string, v *Vendor, matchType string) string {
	slog.Info("vendor matched",
		"raw", raw,
		"vendor", v.CanonicalName,
		"match_type", matchType)

	return v.CanonicalName
}

func (n *Normalizer) swallow(raw string, err error) string {
	slog.Error("vendor lookup failed, treating as no match", "raw", raw, "error", err)
	return ""
}

// DefaultCategory returns the vendor's configured default category and
// subcategory. Best-effort: lookup errors and unknown vendors yield empties.
func (n *Normalizer) DefaultCategory(ctx context.Context, canonicalName string) (string, string) {
	v, err := n.repo.FindByName(ctx, canonicalName)
	if err != nil || v == nil {
		return "", ""
	}

	return v.DefaultCategory, v.DefaultSubcategory
}
