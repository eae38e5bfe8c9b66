package analysis

// View selects which parts of a Report Analyze fills in. Totals and
// Errors are always computed.
type View uint8

const (
	ViewDiagnostics View = 1 << iota
	ViewByFile
	ViewByRule

	ViewAll = ViewDiagnostics | ViewByFile | ViewByRule
)

// Has reports whether v includes every view in other.
func (v View) Has(other View) bool {
	return v&other == other
}

// SortField orders the ByFile and ByRule tables.
type SortField string

const (
	// SortByCount orders by issue count.
	SortByCount SortField = "count"
	// SortByName orders by path or rule ID, always ascending.
	SortByName SortField = "name"
	// SortByLevel puts deny-heavy entries first, always descending.
	SortByLevel SortField = "level"
)

// IsValid reports whether s is a known sort field.
func (s SortField) IsValid() bool {
	return s == SortByCount || s == SortByName || s == SortByLevel
}

// Options configures Analyze.
type Options struct {
	Views    View
	SortBy   SortField
	SortDesc bool

	// WorkingDir makes reported paths relative. Empty keeps them as given.
	WorkingDir string
}

// DefaultOptions computes every view, most issues first.
func DefaultOptions() Options {
	return Options{
		Views:    ViewAll,
		SortBy:   SortByCount,
		SortDesc: true,
	}
}
