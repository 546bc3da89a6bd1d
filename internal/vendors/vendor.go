package vendor

// Vendor is a canonical merchant with the alias strings seen for it in raw
// transaction descriptors.
type Vendor struct {
	CanonicalName      string
	DefaultCategory    string
	DefaultSubcategory string
	Aliases            []string
}
