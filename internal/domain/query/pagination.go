package query

// Pagination describes a 1-indexed page request.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the request to sane values, falling back to defaultLimit
// when no limit was supplied.
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	return p
}

// Offset returns the row offset for the requested page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta is attached to every paginated response.
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	PageSize int   `json:"page_size"`
}

// NewPageMeta computes page metadata; PageSize is the number of pages needed
// to cover total rows at the given limit.
func NewPageMeta(total int64, p Pagination) PageMeta {
	pageSize := 0
	if p.Limit > 0 {
		pageSize = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageMeta{
		Total:    total,
		Page:     p.Page,
		Limit:    p.Limit,
		PageSize: pageSize,
	}
}
