package repositories

import (
	"fmt"
	"testing"
	"time"

	"blogapi/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	store := newTestStore(t)
	repo := store.Repositories().Posts

	t.Run("create and get post", func(t *testing.T) {
		post := testPost("create-and-get", "Go", "Databases")
		require.NoError(t, repo.Create(post))
		assert.Greater(t, post.ID, 0)
		assert.False(t, post.CreatedAt.IsZero())

		retrieved, err := repo.GetBySlug("create-and-get")
		require.NoError(t, err)
		assert.Equal(t, post.ID, retrieved.ID)
		assert.Equal(t, post.Title, retrieved.Title)
		assert.Equal(t, post.Content, retrieved.Content)
		assert.Equal(t, []string{"Go", "Databases"}, retrieved.Tags)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		require.NoError(t, repo.Create(testPost("dup")))
		err := repo.Create(testPost("dup"))
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("invalid post is rejected", func(t *testing.T) {
		post := testPost("invalid-post")
		post.H1 = ""
		err := repo.Create(post)
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)

		exists, err := repo.SlugExists("invalid-post")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("slug exists", func(t *testing.T) {
		exists, err := repo.SlugExists("create-and-get")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists("missing")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := repo.GetBySlug("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update keeps slug and creation time", func(t *testing.T) {
		post := testPost("update-me", "Go")
		require.NoError(t, repo.Create(post))
		created := post.CreatedAt

		post.Title = "Updated Title"
		post.Slug = "renamed"
		post.CreatedAt = created.Add(time.Hour)
		post.Tags = []string{"Rust"}
		require.NoError(t, repo.Update(post))

		updated, err := repo.GetBySlug("update-me")
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.True(t, created.Equal(updated.CreatedAt))
		assert.Equal(t, []string{"Rust"}, updated.Tags)

		_, err = repo.GetBySlug("renamed")
		assert.ErrorIs(t, err, ErrNotFound)

		posts, _, err := repo.List(PostFilter{TagSlug: "go"}, 100, 0)
		require.NoError(t, err)
		for _, p := range posts {
			assert.NotEqual(t, post.ID, p.ID, "old tag link must be removed")
		}
	})

	t.Run("update missing post", func(t *testing.T) {
		post := testPost("ghost")
		post.ID = 9999
		assert.ErrorIs(t, repo.Update(post), ErrNotFound)
	})

	t.Run("delete post", func(t *testing.T) {
		post := testPost("delete-me", "Ephemeral")
		require.NoError(t, repo.Create(post))
		require.NoError(t, repo.Delete(post.ID))

		_, err := repo.GetBySlug("delete-me")
		assert.ErrorIs(t, err, ErrNotFound)

		posts, total, err := repo.List(PostFilter{TagSlug: "ephemeral"}, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Zero(t, total)

		assert.ErrorIs(t, repo.Delete(post.ID), ErrNotFound)
	})
}

func TestPostRepositoryList(t *testing.T) {
	store := newTestStore(t)
	repo := store.Repositories().Posts

	for i := 1; i <= 12; i++ {
		tags := []string{"All"}
		if i%3 == 0 {
			tags = append(tags, "Fizz")
		}
		post := testPost(fmt.Sprintf("post-%d", i), tags...)
		if i == 5 {
			post.H1 = "Special Heading"
		}
		if i == 11 {
			post.Content = "<p>a SPECIAL body</p>"
		}
		require.NoError(t, repo.Create(post))
	}

	t.Run("windows in creation order", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{}, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		require.Len(t, posts, 5)
		for i, p := range posts {
			assert.Equal(t, i+1, p.ID)
		}

		posts, total, err = repo.List(PostFilter{}, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		require.Len(t, posts, 2)
		assert.Equal(t, 11, posts[0].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{}, 5, 50)
		require.NoError(t, err)
		assert.Equal(t, 12, total)
		assert.Empty(t, posts)
	})

	t.Run("search over content and h1", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{Search: "special"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, posts, 2)
		assert.Equal(t, "post-5", posts[0].Slug)
		assert.Equal(t, "post-11", posts[1].Slug)
	})

	t.Run("filter by tag", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{TagSlug: "fizz"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		var slugs []string
		for _, p := range posts {
			slugs = append(slugs, p.Slug)
		}
		assert.Equal(t, []string{"post-3", "post-6", "post-9", "post-12"}, slugs)
	})

	t.Run("filter by tag and search", func(t *testing.T) {
		posts, total, err := repo.List(PostFilter{TagSlug: "all", Search: "special"}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, posts, 1)
		assert.Equal(t, "post-11", posts[0].Slug)
	})

	t.Run("latest", func(t *testing.T) {
		posts, err := repo.Latest(5)
		require.NoError(t, err)
		require.Len(t, posts, 5)
		for i, p := range posts {
			assert.Equal(t, 12-i, p.ID)
		}

		posts, err = repo.Latest(0)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
