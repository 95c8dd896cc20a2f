package services

import (
	"fmt"
	"strings"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/microcosm-cc/bluemonday"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	policy      *bluemonday.Policy
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		policy:      bluemonday.StrictPolicy(),
	}
}

// ListPostComments retrieves all comments for a post in creation order
func (s *CommentService) ListPostComments(postSlug string) ([]*models.Comment, error) {
	post, err := s.post(postSlug)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(post.ID)
}

// CreateComment adds a comment by author to the post. Markup in the text
// is stripped.
func (s *CommentService) CreateComment(postSlug string, author *models.User, in models.CommentInput) (*models.Comment, error) {
	if author == nil {
		return nil, fmt.Errorf("comment author is required")
	}
	post, err := s.post(postSlug)
	if err != nil {
		return nil, err
	}

	in.Text = strings.TrimSpace(s.policy.Sanitize(in.Text))
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Username: author.Username,
		Text:     in.Text,
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) post(slug string) (*models.Post, error) {
	slug = strings.ToLower(slug)
	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", slug, err)
	}
	return post, nil
}
