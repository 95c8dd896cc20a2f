package repositories

import (
	"errors"
	"fmt"
	"strings"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

func postSlugKey(slug string) []byte {
	return []byte(PostSlugKeyPrefix + slug)
}

func postTagKey(tagSlug string, postID int) []byte {
	return idKey(PostTagKeyPrefix+tagSlug+":", postID)
}

// Create creates a new post, its slug index and its tag links
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return update(r.db, func(txn *badger.Txn) error {
		if _, err := getIndex(txn, postSlugKey(post.Slug)); err == nil {
			return fmt.Errorf("post slug %q: %w", post.Slug, ErrDuplicate)
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate()

		tags, err := ensureTags(txn, post.Tags)
		if err != nil {
			return err
		}
		post.Tags = tagNames(tags)
		if err := post.Validate(); err != nil {
			return err
		}

		if err := putEntity(txn, idKey(PostKeyPrefix, post.ID), post); err != nil {
			return err
		}
		if err := putIndex(txn, postSlugKey(post.Slug), post.ID); err != nil {
			return err
		}
		for _, tag := range tags {
			if err := txn.Set(postTagKey(tag.Slug, post.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetBySlug retrieves a post by slug
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, postSlugKey(slug))
		if err != nil {
			return err
		}
		return getEntity(txn, idKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists reports whether a post already uses slug
func (r *BadgerPostRepository) SlugExists(slug string) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := getIndex(txn, postSlugKey(slug))
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List retrieves a window of posts matching filter in creation order,
// together with the total number of matches
func (r *BadgerPostRepository) List(filter PostFilter, limit, offset int) ([]*models.Post, int, error) {
	posts := []*models.Post{}
	total := 0
	search := strings.ToLower(filter.Search)

	err := r.db.View(func(txn *badger.Txn) error {
		collect := func(post *models.Post) {
			if !matchesSearch(post, search) {
				return
			}
			if total >= offset && len(posts) < limit {
				posts = append(posts, post)
			}
			total++
		}

		if filter.TagSlug != "" {
			return r.eachTagged(txn, filter.TagSlug, collect)
		}
		return r.eachPost(txn, false, func(post *models.Post) bool {
			collect(post)
			return true
		})
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Latest retrieves the n most recently created posts, newest first
func (r *BadgerPostRepository) Latest(n int) ([]*models.Post, error) {
	posts := []*models.Post{}
	if n <= 0 {
		return posts, nil
	}
	err := r.db.View(func(txn *badger.Txn) error {
		return r.eachPost(txn, true, func(post *models.Post) bool {
			posts = append(posts, post)
			return len(posts) < n
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post. The slug and creation time of the stored
// post are kept.
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := idKey(PostKeyPrefix, post.ID)

		var existing models.Post
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		post.Slug = existing.Slug
		post.CreatedAt = existing.CreatedAt

		for _, name := range existing.Tags {
			if err := txn.Delete(postTagKey(models.Slugify(name), post.ID)); err != nil {
				return err
			}
		}
		tags, err := ensureTags(txn, post.Tags)
		if err != nil {
			return err
		}
		post.Tags = tagNames(tags)
		if err := post.Validate(); err != nil {
			return err
		}
		for _, tag := range tags {
			if err := txn.Set(postTagKey(tag.Slug, post.ID), nil); err != nil {
				return err
			}
		}
		return putEntity(txn, key, post)
	})
}

// Delete deletes a post by ID along with its comments, slug index and tag
// links in one transaction
func (r *BadgerPostRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := idKey(PostKeyPrefix, id)

		var existing models.Post
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		if err := deleteComments(txn, id); err != nil {
			return err
		}
		for _, name := range existing.Tags {
			if err := txn.Delete(postTagKey(models.Slugify(name), id)); err != nil {
				return err
			}
		}
		if err := txn.Delete(postSlugKey(existing.Slug)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// eachPost walks posts in key order; fn returns false to stop.
func (r *BadgerPostRepository) eachPost(txn *badger.Txn, reverse bool, fn func(*models.Post) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(PostKeyPrefix)
	start := prefix
	if reverse {
		start = append([]byte(PostKeyPrefix), 0xFF)
	}
	for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
		var post models.Post
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal post: %w", err)
		}
		if !fn(&post) {
			return nil
		}
	}
	return nil
}

// eachTagged walks the posts linked to tagSlug in creation order.
func (r *BadgerPostRepository) eachTagged(txn *badger.Txn, tagSlug string, fn func(*models.Post)) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(PostTagKeyPrefix + tagSlug + ":")
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id, err := parseIDSuffix(it.Item().Key())
		if err != nil {
			return fmt.Errorf("corrupt tag link %q: %w", it.Item().Key(), err)
		}
		var post models.Post
		if err := getEntity(txn, idKey(PostKeyPrefix, id), &post); err != nil {
			return err
		}
		fn(&post)
	}
	return nil
}

func matchesSearch(post *models.Post, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(post.Content), search) ||
		strings.Contains(strings.ToLower(post.H1), search)
}
