package service

// PageSize is the number of items in one feed or history page.
const PageSize = 10

// Page is one cursor page, newest first. NextCursor is empty on the last
// page.
type Page[T any] struct {
	Results    []T    `json:"results"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// pageOf trims a result fetched with limit PageSize+1 and derives the
// cursor from the last kept item.
func pageOf[T any](items []T, id func(T) string) Page[T] {
	p := Page[T]{Results: items}
	if len(items) > PageSize {
		p.Results = items[:PageSize]
		p.NextCursor = id(p.Results[PageSize-1])
	}
	if p.Results == nil {
		p.Results = []T{}
	}
	return p
}
