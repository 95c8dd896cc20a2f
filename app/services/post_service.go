package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxSlugLength   = 200
	defaultPostSlug = "post"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	policy   *bluemonday.Policy
	opts     PostOptions
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, opts PostOptions) *PostService {
	return &PostService{
		postRepo: postRepo,
		policy:   bluemonday.UGCPolicy(),
		opts:     opts,
	}
}

// CreatePost validates input and stores a new post. Without an explicit
// slug one is derived from the title.
func (s *PostService) CreatePost(in models.PostInput) (*models.Post, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	slug := in.Slug
	if slug != "" {
		exists, err := s.postRepo.SlugExists(slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicateSlug()
		}
	} else {
		var err error
		if slug, err = s.uniqueSlug(in.Title); err != nil {
			return nil, err
		}
	}

	post := s.build(in)
	post.Slug = slug
	if err := s.postRepo.Create(post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, duplicateSlug()
		}
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a post by slug
func (s *PostService) GetPost(slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", slug, err)
	}
	return post, nil
}

// ListPosts retrieves one page of posts, optionally filtered by a search
// term matched against content and heading.
func (s *PostService) ListPosts(search string, page, size int) (*models.Page[*models.Post], error) {
	filter := repositories.PostFilter{Search: strings.TrimSpace(search)}
	return listPage(s.postRepo, s.opts, filter, page, size)
}

// LatestPosts returns the aside feed, newest first.
func (s *PostService) LatestPosts() ([]*models.Post, error) {
	return s.postRepo.Latest(s.opts.AsideSize)
}

// UpdatePost replaces every writable field of a post. The slug never
// changes.
func (s *PostService) UpdatePost(slug string, in models.PostInput) (*models.Post, error) {
	existing, err := s.GetPost(slug)
	if err != nil {
		return nil, err
	}
	return s.save(existing, in)
}

// PatchPost changes only the supplied fields of a post.
func (s *PostService) PatchPost(slug string, patch models.PostPatch) (*models.Post, error) {
	existing, err := s.GetPost(slug)
	if err != nil {
		return nil, err
	}
	in := existing.Input()
	patch.Apply(&in)
	return s.save(existing, in)
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(slug string) error {
	post, err := s.GetPost(slug)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(post.ID)
}

func (s *PostService) save(existing *models.Post, in models.PostInput) (*models.Post, error) {
	in.Slug = existing.Slug
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	post := s.build(in)
	post.ID = existing.ID
	post.Slug = existing.Slug
	post.CreatedAt = existing.CreatedAt
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) build(in models.PostInput) *models.Post {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Post{
		H1:          strings.TrimSpace(in.H1),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Content:     s.policy.Sanitize(in.Content),
		Image:       strings.TrimSpace(in.Image),
		Tags:        tags,
	}
}

// uniqueSlug derives a free slug from title, appending -2, -3, ... as needed.
func (s *PostService) uniqueSlug(title string) (string, error) {
	base := truncateSlug(models.Slugify(title), maxSlugLength-10)
	if base == "" {
		base = defaultPostSlug
	}

	candidate := base
	for n := 2; ; n++ {
		exists, err := s.postRepo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func truncateSlug(slug string, max int) string {
	if utf8.RuneCountInString(slug) <= max {
		return slug
	}
	runes := []rune(slug)
	return strings.TrimRight(string(runes[:max]), "-")
}

func duplicateSlug() error {
	return models.NewValidationError("slug", "post with this slug already exists.")
}
