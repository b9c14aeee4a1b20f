package shared

// Filter represents query filter options shared by list operations.
// Filters carries repository-specific criteria keyed by field name.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
