package mock

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// memory is the state shared by the mock repositories so that tag links,
// posts and comments stay consistent with each other.
type memory struct {
	mutex       sync.RWMutex
	posts       map[int]*models.Post
	tags        map[string]*models.Tag
	comments    map[int]*models.Comment
	users       map[int]*models.User
	nextPost    int
	nextTag     int
	nextComment int
	nextUser    int
}

func newMemory() *memory {
	return &memory{
		posts:       make(map[int]*models.Post),
		tags:        make(map[string]*models.Tag),
		comments:    make(map[int]*models.Comment),
		users:       make(map[int]*models.User),
		nextPost:    1,
		nextTag:     1,
		nextComment: 1,
		nextUser:    1,
	}
}

type PostRepository struct{ mem *memory }

type TagRepository struct{ mem *memory }

type CommentRepository struct{ mem *memory }

type UserRepository struct{ mem *memory }

// New returns a consistent set of in-memory repositories.
func New() repositories.Repositories {
	mem := newMemory()
	return repositories.Repositories{
		Posts:    &PostRepository{mem: mem},
		Tags:     &TagRepository{mem: mem},
		Comments: &CommentRepository{mem: mem},
		Users:    &UserRepository{mem: mem},
	}
}

func NewPostRepository() *PostRepository {
	return &PostRepository{mem: newMemory()}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{mem: newMemory()}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

// ensureTags must be called with the write lock held.
func (m *memory) ensureTags(names []string) []*models.Tag {
	tags := []*models.Tag{}
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := models.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		tag, ok := m.tags[slug]
		if !ok {
			tag = &models.Tag{ID: m.nextTag, Name: name, Slug: slug}
			m.nextTag++
			m.tags[slug] = tag
		}
		tags = append(tags, tag)
	}
	return tags
}

func names(tags []*models.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return out
}

func (m *memory) sortedPosts() []*models.Post {
	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts
}

// PostRepository implementation
func (r *PostRepository) Create(post *models.Post) error {
	m := r.mem
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return fmt.Errorf("post slug %q: %w", post.Slug, repositories.ErrDuplicate)
		}
	}
	post.ID = m.nextPost
	m.nextPost++
	post.BeforeCreate()
	post.Tags = names(m.ensureTags(post.Tags))
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *PostRepository) SlugExists(slug string) (bool, error) {
	_, err := r.GetBySlug(slug)
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *PostRepository) List(filter repositories.PostFilter, limit, offset int) ([]*models.Post, int, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	posts := []*models.Post{}
	total := 0
	for _, p := range m.sortedPosts() {
		if filter.TagSlug != "" && !p.HasTag(filter.TagSlug) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Content), search) &&
			!strings.Contains(strings.ToLower(p.H1), search) {
			continue
		}
		if total >= offset && len(posts) < limit {
			posts = append(posts, clonePost(p))
		}
		total++
	}
	return posts, total, nil
}

func (r *PostRepository) Latest(n int) ([]*models.Post, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	all := m.sortedPosts()
	posts := []*models.Post{}
	for i := len(all) - 1; i >= 0 && len(posts) < n; i-- {
		posts = append(posts, clonePost(all[i]))
	}
	return posts, nil
}

func (r *PostRepository) Update(post *models.Post) error {
	m := r.mem
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, ok := m.posts[post.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	post.Slug = existing.Slug
	post.CreatedAt = existing.CreatedAt
	post.Tags = names(m.ensureTags(post.Tags))
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) Delete(id int) error {
	m := r.mem
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	for commentID, comment := range m.comments {
		if comment.PostID == id {
			delete(m.comments, commentID)
		}
	}
	delete(m.posts, id)
	return nil
}

// TagRepository implementation
func (r *TagRepository) GetBySlug(slug string) (*models.Tag, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tag, ok := m.tags[slug]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *tag
	return &c, nil
}

func (r *TagRepository) List() ([]*models.Tag, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tags := make([]*models.Tag, 0, len(m.tags))
	for _, tag := range m.tags {
		c := *tag
		tags = append(tags, &c)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Slug < tags[j].Slug
	})
	return tags, nil
}

// CommentRepository implementation
func (r *CommentRepository) Create(comment *models.Comment) error {
	m := r.mem
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, ok := m.posts[comment.PostID]
	if !ok {
		return fmt.Errorf("post %d: %w", comment.PostID, repositories.ErrNotFound)
	}
	comment.ID = m.nextComment
	m.nextComment++
	comment.Post = post.Slug
	if comment.CreatedDate.IsZero() {
		comment.CreatedDate = time.Now().UTC()
	}
	c := *comment
	m.comments[comment.ID] = &c
	return nil
}

func (r *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			c := *comment
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// UserRepository implementation
func (r *UserRepository) Create(user *models.User) error {
	m := r.mem
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.nextUser
	m.nextUser++
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (r *UserRepository) GetByID(id int) (*models.User, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) find(match func(*models.User) bool) (*models.User, error) {
	m := r.mem
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if match(user) {
			c := *user
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}
