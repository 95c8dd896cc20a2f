package controllers

import (
	"net/http"
	"testing"

	"blogapi/app/models"
	"blogapi/app/repositories/mock"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagController(t *testing.T) {
	repos := mock.New()
	opts := services.DefaultPostOptions()
	postService := services.NewPostService(repos.Posts, opts)
	controller := NewTagController(services.NewTagService(repos.Tags, repos.Posts, opts), discardLogger())

	router := mux.NewRouter()
	router.HandleFunc("/tags", controller.Index).Methods("GET")
	router.HandleFunc("/tags/{tag_slug}/posts", controller.Posts).Methods("GET")

	for _, in := range []models.PostInput{
		{H1: "A", Title: "Alpha", Content: "a", Tags: []string{"Go Lang", "Web"}},
		{H1: "B", Title: "Beta", Content: "b", Tags: []string{"Web"}},
		{H1: "C", Title: "Gamma", Content: "c", Tags: []string{"go lang"}},
	} {
		_, err := postService.CreatePost(in)
		require.NoError(t, err)
	}

	t.Run("list tags", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/tags", "")
		require.Equal(t, http.StatusOK, w.Code)

		var tags []models.Tag
		decode(t, w, &tags)
		require.Len(t, tags, 2)
		assert.Equal(t, "go-lang", tags[0].Slug)
		assert.Equal(t, "Go Lang", tags[0].Name)
		assert.Equal(t, "web", tags[1].Slug)
	})

	t.Run("posts of a tag", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/tags/Go-Lang/posts", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page pageBody
		decode(t, w, &page)
		assert.Equal(t, 2, page.Count)
		require.Len(t, page.Results, 2)
		assert.Equal(t, "alpha", page.Results[0].Slug)
		assert.Equal(t, "gamma", page.Results[1].Slug)
	})

	t.Run("paginated", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/tags/web/posts?page_size=1&page=2", "")
		var page pageBody
		decode(t, w, &page)
		assert.Equal(t, 2, page.Count)
		require.Len(t, page.Results, 1)
		assert.Equal(t, "beta", page.Results[0].Slug)
		assert.Nil(t, page.Next)
		assert.NotNil(t, page.Previous)
	})

	t.Run("unknown tag", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/tags/missing/posts", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		var body errorBody
		decode(t, w, &body)
		assert.Equal(t, "tag not found", body.Error)
	})
}
