package models

// Page is one page of a paginated listing.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`

	Number int `json:"-"`
	Size   int `json:"-"`
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	if p.Size < 1 {
		return false
	}
	return p.Number < (p.Count+p.Size-1)/p.Size
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}
