package repositories

import (
	"errors"
	"fmt"
	"strings"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerTagRepository implements TagRepository using BadgerDB
type BadgerTagRepository struct {
	db *badger.DB
}

// NewBadgerTagRepository creates a new BadgerTagRepository
func NewBadgerTagRepository(db *badger.DB) *BadgerTagRepository {
	return &BadgerTagRepository{db: db}
}

// GetBySlug retrieves a tag by slug
func (r *BadgerTagRepository) GetBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, []byte(TagKeyPrefix+slug), &tag)
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// List retrieves all tags ordered by slug
func (r *BadgerTagRepository) List() ([]*models.Tag, error) {
	tags := []*models.Tag{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(TagKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var tag models.Tag
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &tag)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal tag: %w", err)
			}
			tags = append(tags, &tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ensureTags resolves tag names to stored tags, creating the missing ones.
// Names that slugify to the same slug collapse into one tag; the first
// stored spelling wins.
func ensureTags(txn *badger.Txn, names []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := models.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		var tag models.Tag
		key := []byte(TagKeyPrefix + slug)
		err := getEntity(txn, key, &tag)
		if errors.Is(err, ErrNotFound) {
			id, err := getNextID(txn, TagSeqKey)
			if err != nil {
				return nil, err
			}
			tag = models.Tag{ID: id, Name: name, Slug: slug}
			if err := putEntity(txn, key, &tag); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, nil
}

func tagNames(tags []*models.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}
