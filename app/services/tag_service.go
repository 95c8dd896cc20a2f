package services

import (
	"fmt"
	"strings"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// TagService exposes tags and the posts filed under them
type TagService struct {
	tagRepo  repositories.TagRepository
	postRepo repositories.PostRepository
	opts     PostOptions
}

func NewTagService(tagRepo repositories.TagRepository, postRepo repositories.PostRepository, opts PostOptions) *TagService {
	return &TagService{
		tagRepo:  tagRepo,
		postRepo: postRepo,
		opts:     opts,
	}
}

// ListTags returns every tag ordered by slug
func (s *TagService) ListTags() ([]*models.Tag, error) {
	return s.tagRepo.List()
}

// PostsByTag returns one page of the posts carrying the tag. The slug is
// matched case-insensitively.
func (s *TagService) PostsByTag(tagSlug string, page, size int) (*models.Page[*models.Post], error) {
	slug := strings.ToLower(tagSlug)
	tag, err := s.tagRepo.GetBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("tag %q: %w", slug, err)
	}
	return listPage(s.postRepo, s.opts, repositories.PostFilter{TagSlug: tag.Slug}, page, size)
}
