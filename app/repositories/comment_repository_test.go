package repositories

import (
	"testing"
	"time"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository(t *testing.T) {
	store := newTestStore(t)
	repos := store.Repositories()

	post := testPost("commented")
	require.NoError(t, repos.Posts.Create(post))
	other := testPost("other")
	require.NoError(t, repos.Posts.Create(other))

	t.Run("create and list comments", func(t *testing.T) {
		for _, text := range []string{"first", "second", "third"} {
			comment := &models.Comment{PostID: post.ID, Username: "alice", Text: text}
			require.NoError(t, repos.Comments.Create(comment))
			assert.Greater(t, comment.ID, 0)
			assert.Equal(t, "commented", comment.Post)
			assert.WithinDuration(t, time.Now(), comment.CreatedDate, time.Minute)
		}
		require.NoError(t, repos.Comments.Create(&models.Comment{PostID: other.ID, Username: "bob", Text: "elsewhere"}))

		comments, err := repos.Comments.ListByPost(post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Text)
		assert.Equal(t, "third", comments[2].Text)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		err := repos.Comments.Create(&models.Comment{PostID: 999, Username: "alice", Text: "lost"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid comment", func(t *testing.T) {
		err := repos.Comments.Create(&models.Comment{PostID: post.ID, Username: "alice"})
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("list for post without comments", func(t *testing.T) {
		comments, err := repos.Comments.ListByPost(12345)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("deleting the post removes its comments", func(t *testing.T) {
		require.NoError(t, repos.Posts.Delete(post.ID))

		comments, err := repos.Comments.ListByPost(post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)

		err = store.DB().View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			prefix := commentPrefix(post.ID)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				t.Errorf("orphaned comment key %q", it.Item().Key())
			}
			return nil
		})
		require.NoError(t, err)

		comments, err = repos.Comments.ListByPost(other.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("comment after post deletion", func(t *testing.T) {
		err := repos.Comments.Create(&models.Comment{PostID: post.ID, Username: "alice", Text: "too late"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
