package services

import (
	"math"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// PostOptions controls listing sizes.
type PostOptions struct {
	PageSize    int
	MaxPageSize int
	AsideSize   int
}

// DefaultPostOptions returns six posts per page and a five post aside.
func DefaultPostOptions() PostOptions {
	return PostOptions{PageSize: 6, MaxPageSize: 100, AsideSize: 5}
}

// pageBounds normalizes a requested page number and size. Pages are 1-based;
// a size of zero selects the default.
func (o PostOptions) pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = o.PageSize
	}
	if o.MaxPageSize > 0 && size > o.MaxPageSize {
		size = o.MaxPageSize
	}
	return page, size
}

// listPage fetches one page of posts. A page past the end is empty.
func listPage(repo repositories.PostRepository, opts PostOptions, filter repositories.PostFilter, page, size int) (*models.Page[*models.Post], error) {
	page, size = opts.pageBounds(page, size)
	posts, total, err := repo.List(filter, size, pageOffset(page, size))
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Post]{
		Count:   total,
		Results: posts,
		Number:  page,
		Size:    size,
	}, nil
}

// pageOffset returns the number of items before page, saturating at
// math.MaxInt instead of overflowing for absurd page numbers.
func pageOffset(page, size int) int {
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}
