package repositories

import "blogapi/app/models"

// PostFilter narrows a post listing. Zero values match everything.
type PostFilter struct {
	// Search matches case-insensitively against content and h1.
	Search string
	// TagSlug restricts the listing to posts carrying this tag.
	TagSlug string
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetBySlug(slug string) (*models.Post, error)
	SlugExists(slug string) (bool, error)
	List(filter PostFilter, limit, offset int) ([]*models.Post, int, error)
	Latest(n int) ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// TagRepository defines the interface for tag data access. Tags are
// written by PostRepository as a side effect of tagging a post.
type TagRepository interface {
	GetBySlug(slug string) (*models.Tag, error)
	List() ([]*models.Tag, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByPost(postID int) ([]*models.Comment, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// Repositories bundles one implementation of each repository.
type Repositories struct {
	Posts    PostRepository
	Tags     TagRepository
	Comments CommentRepository
	Users    UserRepository
}
