package domain

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Page struct {
	Page    int
	PerPage int
}

// NewPage normalizes raw paging input: pages start at 1 and per-page falls
// back to DefaultPerPage, capped at MaxPerPage.
func NewPage(page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Page{Page: page, PerPage: perPage}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type PageResult[T any] struct {
	Items       []T
	Total       int64
	Pages       int
	CurrentPage int
}

func NewPageResult[T any](items []T, total int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}

	pages := 0
	if p.PerPage > 0 {
		pages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}

	return PageResult[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: p.Page,
	}
}
