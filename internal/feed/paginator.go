package feed

import "github.com/tazhibayda/posts-service/internal/domain"

const DefaultPageSize = 10

// Page is one bounded slice of an ordered listing plus the metadata the
// templates need to draw pagination links.
type Page struct {
	Items    []domain.Post
	Number   int // 1-based index actually served
	NumPages int
	Total    int
	HasNext  bool
	HasPrev  bool
}

func (p Page) NextNumber() int { return p.Number + 1 }
func (p Page) PrevNumber() int { return p.Number - 1 }

// Paginate slices items into the requested page. Requests at or below 1 get
// the first page; requests past the end get the last page, never an empty
// one. Callers hand in the full ordered result set.
func Paginate(items []domain.Post, pageSize, requested int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	numPages := (total + pageSize - 1) / pageSize
	if numPages < 1 {
		numPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	start := (number - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:    items[start:end],
		Number:   number,
		NumPages: numPages,
		Total:    total,
		HasNext:  number < numPages,
		HasPrev:  number > 1,
	}
}
