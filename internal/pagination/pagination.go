// Package pagination slices ordered result sets into fixed-size pages
// addressed by a 1-based page number.
package pagination

// DefaultPerPage is the feed page size.
const DefaultPerPage = 10

// Spec addresses one page of an ordered result set. Number is 1-based.
type Spec struct {
	Number  int
	PerPage int
}

// NewSpec builds a Spec from a raw page query parameter. Zero or negative
// numbers fall back to the first page.
func NewSpec(number int) Spec {
	if number < 1 {
		number = 1
	}
	return Spec{Number: number, PerPage: DefaultPerPage}
}

// Meta is the navigation metadata returned with every page.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNextPage"`
	HasPrev      bool  `json:"hasPreviousPage"`
}

// Window clamps the spec against the total item count and returns the
// SQL offset/limit for the page plus its metadata. Requesting a page past
// the end yields the last valid page, never an empty one, as long as the
// set is non-empty.
func (s Spec) Window(totalItems int64) (offset, limit int, meta Meta) {
	perPage := s.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}

	page := s.Number
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	meta = Meta{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: perPage,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
	return (page - 1) * perPage, perPage, meta
}
