package categorize

// Taxonomy is the fixed set of categories a transaction can land in. The
// classifier prompt embeds it verbatim and results outside it are coerced
// to the fallback.
var Taxonomy = []string{
	"Groceries",
	"Dining",
	"Transport",
	"Fuel",
	"Utilities",
	"Rent/Mortgage",
	"Internet",
	"Mobile",
	"Subscriptions",
	"Shopping",
	"Healthcare",
	"Pets",
	"Gifts/Charity",
	"Entertainment",
	"Travel-Air",
	"Travel-Hotel",
	"Travel-Other",
	"Income",
	"Transfers",
	"Savings",
}

const (
	// FallbackCategory absorbs transactions the classifier cannot place.
	FallbackCategory    = "Shopping"
	FallbackSubcategory = "Uncategorized"
)

func ValidCategory(name string) bool {
	for _, c := range Taxonomy {
		if c == name {
			return true
		}
	}

	return false
}
