package domain

// Defaults and bounds for trip listing. The cap keeps a hostile ?limit= from
// turning the list query into a table scan of someone's whole travel history.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams carries the page window for trip listings from the HTTP
// layer down to SQL. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams normalizes optional ?page= and ?limit= values.
// Nil or out-of-range inputs fall back to page 1 and the default page size;
// the limit is clamped to maxPageSize.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageSize}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxPageSize)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
